package migrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/core/jobs"
	"catalog-sync/core/platform"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs diff-and-sync for a set of kinds on a cron schedule.
type Scheduler struct {
	schedule string
	source   platform.Platform
	kinds    []platform.Kind
	service  *Service
	logger   *zap.Logger
	cron     *cron.Cron
	timeout  time.Duration
}

// NewScheduler creates a scheduler. An empty schedule disables it.
func NewScheduler(schedule string, source platform.Platform, kinds []platform.Kind, svc *Service, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		source:   source,
		kinds:    kinds,
		service:  svc,
		logger:   logger,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger}))),
		timeout:  10 * time.Minute,
	}
}

// Start registers the schedule and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("Scheduler is disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.Trigger); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("Scheduler started",
		zap.String("schedule", s.schedule),
		zap.String("source", string(s.source)),
		zap.Int("kinds", len(s.kinds)),
	)
	return nil
}

// Stop stops the cron runner and waits for a running trigger.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Stopped scheduler")
}

// Trigger runs one scheduled pass. Kinds whose previous job is still running are skipped.
func (s *Scheduler) Trigger() {
	for _, kind := range s.kinds {
		log := s.logger.With(zap.String("kind", string(kind)), zap.String("source", string(s.source)))
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		res, err := s.service.Run(ctx, s.source, kind)
		cancel()
		if errors.Is(err, jobs.ErrJobRunning) {
			log.Info("Sync already running, skipping scheduled run")
			continue
		}
		if err != nil {
			log.Error("Scheduled sync failed", zap.Error(err))
			continue
		}
		if res.JobID == "" {
			log.Info("Scheduled sync found nothing to do")
			continue
		}
		log.Info("Scheduled sync started", zap.String("job_id", res.JobID), zap.Int("differences", res.Differences))
	}
}

// cronLogger adapts zap to the cron logger interface.
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
