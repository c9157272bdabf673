package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"catalog-sync/core/executor"
	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/core/platform"
	"catalog-sync/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver turns a platform identifier into a connected client.
type Resolver interface {
	Client(ctx context.Context, p platform.Platform) (platform.Client, error)
}

// Runner applies differences and reports each finished item.
type Runner interface {
	Run(ctx context.Context, diffs []reconcile.Difference, src, dst platform.Client, progress executor.ProgressFunc) []executor.SyncResult
}

// FinishHook is called after a job reaches a terminal status.
type FinishHook func(job Job)

// Queue owns job creation and execution. Every enqueued job runs in its own
// goroutine; items within a job are handled by the Runner.
type Queue struct {
	store    *MemoryStore
	resolver Resolver
	runner   Runner
	archive  *Archive
	logger   *zap.Logger
	metrics  *metrics.Metrics
	hooks    []FinishHook

	// mu makes the busy check and the insert of an exclusive job one step.
	mu sync.Mutex

	// base outlives the request that enqueued the job.
	base context.Context
	wg   sync.WaitGroup
}

// Option configures a Queue.
type Option func(*Queue)

// WithArchive persists finished jobs and serves lookups of jobs no longer in memory.
func WithArchive(a *Archive) Option {
	return func(q *Queue) { q.archive = a }
}

// WithLogger sets the queue logger.
func WithLogger(l *zap.Logger) Option {
	return func(q *Queue) { q.logger = l }
}

// WithMetrics records job counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(q *Queue) { q.metrics = m }
}

// OnFinish registers a hook run after every job.
func OnFinish(h FinishHook) Option {
	return func(q *Queue) { q.hooks = append(q.hooks, h) }
}

// NewQueue creates a queue over store.
func NewQueue(store *MemoryStore, resolver Resolver, runner Runner, opts ...Option) *Queue {
	q := &Queue{
		store:    store,
		resolver: resolver,
		runner:   runner,
		logger:   zap.NewNop(),
		base:     context.Background(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Validate checks a request without side effects.
func Validate(req Request) error {
	if !req.Kind.IsValid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown entity kind %q", req.Kind)}
	}
	if req.Source == "" {
		return &ValidationError{Field: "sourceOfTruth", Reason: "is required"}
	}
	if req.Destination == "" || req.Destination == req.Source {
		return &ValidationError{Field: "destination", Reason: "must differ from the source of truth"}
	}
	if len(req.Differences) == 0 {
		return &ValidationError{Field: "differences", Reason: "must not be empty"}
	}
	for i, d := range req.Differences {
		if d.MatchingKey == "" {
			return &ValidationError{Field: fmt.Sprintf("differences[%d].matchingKey", i), Reason: "is required"}
		}
		if len(d.FieldsChanged) == 0 {
			return &ValidationError{Field: fmt.Sprintf("differences[%d].fieldsChanged", i), Reason: "must not be empty"}
		}
	}
	return nil
}

// Enqueue stores a pending job and starts it in the background. It returns
// as soon as the job is stored.
func (q *Queue) Enqueue(ctx context.Context, req Request) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}

	diffs := make([]reconcile.Difference, len(req.Differences))
	for i, d := range req.Differences {
		d.Kind = req.Kind
		d.SourcePlatform = req.Source
		d.DestinationPlatform = req.Destination
		diffs[i] = d
	}

	now := time.Now().UTC()
	job := Job{
		ID:                  uuid.NewString(),
		Type:                req.Kind,
		SourcePlatform:      req.Source,
		DestinationPlatform: req.Destination,
		Status:              StatusPending,
		Total:               len(diffs),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	q.mu.Lock()
	if req.Exclusive && q.Busy(req.Source, req.Kind) {
		q.mu.Unlock()
		return "", fmt.Errorf("%w: %s %s", ErrJobRunning, req.Source, req.Kind)
	}
	err := q.store.Insert(job)
	q.mu.Unlock()
	if err != nil {
		return "", err
	}

	logger.WithJob(q.logger, job.ID, string(job.Type)).Info("Job enqueued",
		zap.String("source", string(job.SourcePlatform)),
		zap.Int("total", job.Total),
	)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.run(job.ID, req.Source, req.Destination, diffs)
	}()

	return job.ID, nil
}

func (q *Queue) run(id string, source, destination platform.Platform, diffs []reconcile.Difference) {
	if !q.store.Claim(id) {
		q.logger.Warn("Job already claimed", zap.String("job_id", id))
		return
	}

	kind := string(diffs[0].Kind)
	log := logger.WithJob(q.logger, id, kind)

	started := false
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		log.Error("Job panicked", zap.Any("panic", r), zap.Stack("stack"))
		q.finish(log, id, StatusFailed, fmt.Sprintf("job panicked: %v", r))
		if started {
			q.metrics.JobFinished(kind, string(StatusFailed))
		} else {
			q.metrics.JobRejected(kind, string(StatusFailed))
		}
	}()

	src, dst, err := q.resolve(q.base, source, destination)
	if err != nil {
		log.Error("Job failed before processing", zap.Error(err))
		q.finish(log, id, StatusFailed, err.Error())
		q.metrics.JobRejected(kind, string(StatusFailed))
		return
	}

	q.metrics.JobStarted()
	started = true
	log.Info("Job running", zap.Int("total", len(diffs)))
	q.runner.Run(q.base, diffs, src, dst, func(i int, r executor.SyncResult) {
		if err := q.store.Record(id, i, r); err != nil {
			log.Error("Failed to record item result", zap.Int("index", i), zap.Error(err))
		}
	})

	q.finish(log, id, StatusCompleted, "")
	q.metrics.JobFinished(kind, string(StatusCompleted))
}

func (q *Queue) resolve(ctx context.Context, source, destination platform.Platform) (platform.Client, platform.Client, error) {
	src, err := q.resolver.Client(ctx, source)
	if err != nil {
		return nil, nil, &SystemError{Op: "resolve " + string(source) + " client", Err: err}
	}
	dst, err := q.resolver.Client(ctx, destination)
	if err != nil {
		return nil, nil, &SystemError{Op: "resolve " + string(destination) + " client", Err: err}
	}
	return src, dst, nil
}

func (q *Queue) finish(log *zap.Logger, id string, status Status, errMsg string) {
	job, err := q.store.Finish(id, status, errMsg)
	if err != nil {
		log.Error("Failed to finish job", zap.Error(err))
		return
	}

	log.Info("Job finished",
		zap.String("status", string(job.Status)),
		zap.Int("processed", job.Processed),
		zap.Int("failed", job.Failed),
	)

	if q.archive != nil {
		if err := q.archive.Save(q.base, job); err != nil {
			log.Warn("Failed to archive job", zap.Error(err))
		}
	}
	for _, h := range q.hooks {
		h(job)
	}
}

// Get returns a snapshot of job id. Jobs no longer in memory are looked up in
// the archive when one is configured.
func (q *Queue) Get(ctx context.Context, id string) (Job, error) {
	if job, ok := q.store.Get(id); ok {
		return job, nil
	}
	if q.archive == nil {
		return Job{}, ErrJobNotFound
	}
	job, err := q.archive.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return Job{}, ErrJobNotFound
		}
		return Job{}, fmt.Errorf("failed to read job archive: %w", err)
	}
	return job, nil
}

// List returns every in-memory job, newest first.
func (q *Queue) List() []Job {
	return q.store.List()
}

// Busy reports whether a job for source and kind is pending or running.
func (q *Queue) Busy(source platform.Platform, kind platform.Kind) bool {
	for _, job := range q.store.List() {
		if job.SourcePlatform == source && job.Type == kind && !job.Status.IsTerminal() {
			return true
		}
	}
	return false
}

// Archived returns up to limit archived jobs, newest first.
func (q *Queue) Archived(ctx context.Context, limit int) ([]Job, error) {
	if q.archive == nil {
		return nil, ErrNoArchive
	}
	list, err := q.archive.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read job archive: %w", err)
	}
	return list, nil
}

// Wait blocks until every running job has finished or ctx is done.
func (q *Queue) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
