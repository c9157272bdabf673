package migrate

import (
	"context"
	"fmt"
	"time"

	"catalog-sync/core/executor"
	"catalog-sync/core/jobs"
	"catalog-sync/core/platform"
	"catalog-sync/core/reconcile"

	"go.uber.org/zap"
)

// Options tune difference detection.
type Options struct {
	// PageSize is the page size of every paged fetch.
	PageSize int
	// SnapshotTTL is how long fetched catalogs are reused. Zero disables caching.
	SnapshotTTL time.Duration
}

// Service computes differences between the two platforms and turns them into jobs.
type Service struct {
	resolver   jobs.Resolver
	queue      *jobs.Queue
	cache      *reconcile.SnapshotCache
	translator *executor.Translator
	opts       Options
	logger     *zap.Logger
}

// NewService creates a migrate service.
func NewService(resolver jobs.Resolver, queue *jobs.Queue, cache *reconcile.SnapshotCache, translator *executor.Translator, opts Options, logger *zap.Logger) *Service {
	if translator == nil {
		translator = executor.NewTranslator()
	}
	return &Service{
		resolver:   resolver,
		queue:      queue,
		cache:      cache,
		translator: translator,
		opts:       opts,
		logger:     logger,
	}
}

// RunResult is the outcome of a diff followed by an enqueue.
type RunResult struct {
	JobID       string              `json:"jobId"`
	Differences int                 `json:"differences"`
	Summary     reconcile.Summary   `json:"summary"`
	Warnings    []reconcile.Warning `json:"warnings"`
}

// destination returns the other platform of a sync pair.
func destination(source platform.Platform) (platform.Platform, error) {
	dst, ok := source.Other()
	if !ok {
		return "", &jobs.ValidationError{Field: "sourceOfTruth", Reason: fmt.Sprintf("unknown platform %q", source)}
	}
	return dst, nil
}

// spec resolves both clients of a reconciliation.
func (s *Service) spec(ctx context.Context, source platform.Platform, kind platform.Kind) (*reconcile.Spec, error) {
	dst, err := destination(source)
	if err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, &jobs.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown entity kind %q", kind)}
	}

	srcClient, err := s.resolver.Client(ctx, source)
	if err != nil {
		return nil, err
	}
	dstClient, err := s.resolver.Client(ctx, dst)
	if err != nil {
		return nil, err
	}

	return &reconcile.Spec{
		Kind:        kind,
		Source:      srcClient,
		Destination: dstClient,
		PageSize:    s.opts.PageSize,
		CacheTTL:    s.opts.SnapshotTTL,
		Comparator:  s.comparator(source, dst, kind),
	}, nil
}

// comparator leaves out fields the destination cannot store. Comparing them
// would report the same difference after every sync.
func (s *Service) comparator(source, dst platform.Platform, kind platform.Kind) reconcile.Comparator {
	dropped := s.translator.Dropped(executor.Pair{From: source, To: dst}, kind)
	if len(dropped) == 0 {
		return nil
	}
	skip := make(map[string]struct{}, len(dropped))
	for _, f := range dropped {
		skip[f] = struct{}{}
	}

	var fields []string
	for _, f := range reconcile.TrackedFields[kind] {
		if _, ok := skip[f]; !ok {
			fields = append(fields, f)
		}
	}
	return reconcile.FieldComparator{Fields: fields}
}

// Diff computes the differences needed to bring the other platform in line
// with source. refresh discards a cached snapshot first.
func (s *Service) Diff(ctx context.Context, source platform.Platform, kind platform.Kind, refresh bool) (reconcile.Report, error) {
	spec, err := s.spec(ctx, source, kind)
	if err != nil {
		return reconcile.Report{}, err
	}
	if refresh && s.cache != nil {
		s.cache.Invalidate(spec)
	}

	report, err := reconcile.Reconcile(ctx, spec, s.cache)
	if err != nil {
		return reconcile.Report{}, fmt.Errorf("failed to reconcile %s: %w", kind, err)
	}

	s.logger.Info("Differences detected",
		zap.String("kind", string(kind)),
		zap.String("source", string(source)),
		zap.Int("creations", report.Summary.Creations),
		zap.Int("updates", report.Summary.Updates),
		zap.Int("warnings", report.Summary.Warnings),
	)
	return report, nil
}

// Sync enqueues a job applying diffs from source to the other platform. An
// empty kind is taken from the first difference.
func (s *Service) Sync(ctx context.Context, source platform.Platform, kind platform.Kind, diffs []reconcile.Difference) (string, error) {
	return s.enqueue(ctx, source, kind, diffs, false)
}

func (s *Service) enqueue(ctx context.Context, source platform.Platform, kind platform.Kind, diffs []reconcile.Difference, exclusive bool) (string, error) {
	dst, err := destination(source)
	if err != nil {
		return "", err
	}
	if kind == "" && len(diffs) > 0 {
		kind = diffs[0].Kind
		if kind == "" {
			kind = diffs[0].Source.Kind
		}
	}
	return s.queue.Enqueue(ctx, jobs.Request{
		Kind:        kind,
		Source:      source,
		Destination: dst,
		Differences: diffs,
		Exclusive:   exclusive,
	})
}

// Run detects differences and enqueues a job for them. Nothing is enqueued
// when the platforms are in sync. It fails with jobs.ErrJobRunning while a
// job for the same source and kind has not finished.
func (s *Service) Run(ctx context.Context, source platform.Platform, kind platform.Kind) (RunResult, error) {
	if s.queue.Busy(source, kind) {
		return RunResult{}, fmt.Errorf("%w: %s %s", jobs.ErrJobRunning, source, kind)
	}
	report, err := s.Diff(ctx, source, kind, true)
	if err != nil {
		return RunResult{}, err
	}
	res := RunResult{
		Differences: len(report.Differences),
		Summary:     report.Summary,
		Warnings:    report.Warnings,
	}
	if res.Differences == 0 {
		return res, nil
	}
	res.JobID, err = s.enqueue(ctx, source, kind, report.Differences, true)
	return res, err
}

// Busy reports whether a job for source and kind has not finished yet.
func (s *Service) Busy(source platform.Platform, kind platform.Kind) bool {
	return s.queue.Busy(source, kind)
}

// Job returns the snapshot of a job.
func (s *Service) Job(ctx context.Context, id string) (jobs.Job, error) {
	return s.queue.Get(ctx, id)
}

// Jobs lists the jobs still held in memory, newest first.
func (s *Service) Jobs() []jobs.Job {
	return s.queue.List()
}

// ArchivedJobs lists up to limit finished jobs from the archive, newest first.
func (s *Service) ArchivedJobs(ctx context.Context, limit int) ([]jobs.Job, error) {
	return s.queue.Archived(ctx, limit)
}

// Delete removes one entity from a platform. Deletions are only ever
// requested explicitly, never derived from a diff.
func (s *Service) Delete(ctx context.Context, p platform.Platform, kind platform.Kind, id string, hard bool) error {
	if !p.IsValid() {
		return &jobs.ValidationError{Field: "platform", Reason: fmt.Sprintf("unknown platform %q", p)}
	}
	if !kind.IsValid() {
		return &jobs.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown entity kind %q", kind)}
	}
	client, err := s.resolver.Client(ctx, p)
	if err != nil {
		return err
	}
	if err := client.DeleteOne(ctx, kind, id, hard); err != nil {
		return err
	}

	if s.cache != nil {
		other, _ := p.Other()
		s.cache.InvalidatePair(p, other, kind)
		s.cache.InvalidatePair(other, p, kind)
	}
	s.logger.Info("Entity deleted",
		zap.String("platform", string(p)),
		zap.String("kind", string(kind)),
		zap.String("id", id),
		zap.Bool("hard", hard),
	)
	return nil
}

// InvalidateOnFinish returns a job hook dropping the snapshot a finished job
// has made stale.
func InvalidateOnFinish(cache *reconcile.SnapshotCache) jobs.FinishHook {
	return func(job jobs.Job) {
		cache.InvalidatePair(job.SourcePlatform, job.DestinationPlatform, job.Type)
	}
}
