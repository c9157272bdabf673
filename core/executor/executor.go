package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"catalog-sync/core/metrics"
	"catalog-sync/core/platform"
	"catalog-sync/core/reconcile"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// SyncResult is the outcome of applying one difference.
type SyncResult struct {
	MatchingKey   string            `json:"matchingKey"`
	Success       bool              `json:"success"`
	DestinationID string            `json:"destinationId,omitempty"`
	Error         string            `json:"errorMessage,omitempty"`
	Platform      platform.Platform `json:"platform"`
	Attempts      int               `json:"attempts"`
}

// ProgressFunc is called once per finished item with the item's input index.
// With Concurrency > 1 it is called from several goroutines.
type ProgressFunc func(index int, result SyncResult)

// Config controls retries and parallelism.
type Config struct {
	// MaxAttempts bounds calls per item, first attempt included.
	MaxAttempts int

	// InitialInterval is the first backoff delay after a transient error.
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay.
	MaxInterval time.Duration

	// ItemTimeout bounds one item including all of its retries. Zero falls back
	// to the default; a negative value disables the bound.
	ItemTimeout time.Duration

	// Concurrency is the number of items processed at once. Values below 2 run sequentially.
	Concurrency int
}

// DefaultConfig returns the defaults used when a field is left zero.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		ItemTimeout:     2 * time.Minute,
		Concurrency:     1,
	}
}

// Executor applies differences to a destination platform, one item at a time,
// isolating every item's failure from its siblings.
type Executor struct {
	cfg        Config
	translator *Translator
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// New creates an executor. Zero config fields fall back to DefaultConfig.
func New(cfg Config, translator *Translator, logger *zap.Logger, m *metrics.Metrics) *Executor {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = def.MaxInterval
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.ItemTimeout == 0 {
		cfg.ItemTimeout = def.ItemTimeout
	}
	if translator == nil {
		translator = NewTranslator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{cfg: cfg, translator: translator, logger: logger, metrics: m}
}

// Translator returns the translator used to build payloads.
func (e *Executor) Translator() *Translator {
	return e.translator
}

// Run applies diffs in order and returns exactly one result per difference,
// at the same index. Item errors never stop the batch.
func (e *Executor) Run(ctx context.Context, diffs []reconcile.Difference, src, dst platform.Client, progress ProgressFunc) []SyncResult {
	results := make([]SyncResult, len(diffs))

	if e.cfg.Concurrency < 2 {
		for i, diff := range diffs {
			results[i] = e.SyncOne(ctx, diff, src, dst)
			if progress != nil {
				progress(i, results[i])
			}
		}
		return results
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.cfg.Concurrency)
	for i, diff := range diffs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, diff reconcile.Difference) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = e.SyncOne(ctx, diff, src, dst)
			if progress != nil {
				progress(i, results[i])
			}
		}(i, diff)
	}
	wg.Wait()
	return results
}

// SyncOne translates and writes a single difference.
func (e *Executor) SyncOne(ctx context.Context, diff reconcile.Difference, src, dst platform.Client) SyncResult {
	started := time.Now()
	result := SyncResult{MatchingKey: diff.MatchingKey, Platform: dst.Platform()}
	log := e.logger.With(
		zap.String("key", diff.MatchingKey),
		zap.String("kind", string(diff.Kind)),
		zap.String("destination", string(dst.Platform())),
	)

	if e.cfg.ItemTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.ItemTimeout)
		defer cancel()
	}

	id, attempts, err := e.apply(ctx, diff, src, dst, log)
	result.Attempts = attempts
	if err != nil {
		result.Error = err.Error()
		log.Warn("Item sync failed", zap.Int("attempts", attempts), zap.Error(err))
	} else {
		result.Success = true
		result.DestinationID = id
		log.Debug("Item synced", zap.String("destination_id", id), zap.Int("attempts", attempts))
	}

	e.metrics.ItemSynced(string(dst.Platform()), string(diff.Kind), result.Success, time.Since(started))
	return result
}

func (e *Executor) apply(ctx context.Context, diff reconcile.Difference, src, dst platform.Client, log *zap.Logger) (string, int, error) {
	if diff.Source.Attrs == nil {
		resolved, attempts, err := e.resolveSource(ctx, diff, src, log)
		if err != nil {
			return "", attempts, err
		}
		diff = resolved
	}
	if !diff.IsCreation() && diff.DestinationID == "" {
		return "", 0, fmt.Errorf("%w: update of %q has no destination id", ErrInvalidDifference, diff.MatchingKey)
	}

	payload, err := e.translator.Translate(diff)
	if err != nil {
		return "", 0, err
	}

	// A create that returns an id with an error left the entity behind;
	// later attempts update that entity instead of creating another one.
	var created, id string
	attempts, err := e.retry(ctx, dst.Platform(), log, func() error {
		if diff.IsCreation() && created == "" {
			newID, err := dst.CreateOne(ctx, diff.Kind, payload)
			if newID != "" {
				created = newID
			}
			if err != nil {
				return err
			}
			id = newID
			return nil
		}
		target := diff.DestinationID
		if created != "" {
			target = created
		}
		if err := dst.UpdateOne(ctx, diff.Kind, target, payload); err != nil {
			return err
		}
		id = target
		return nil
	})
	if err != nil && created != "" {
		log.Warn("Entity partially created", zap.String("destination_id", created))
		return "", attempts, fmt.Errorf("partially created as %s: %w", created, err)
	}
	return id, attempts, err
}

// resolveSource fetches the source snapshot when a difference only carries its id.
func (e *Executor) resolveSource(ctx context.Context, diff reconcile.Difference, src platform.Client, log *zap.Logger) (reconcile.Difference, int, error) {
	if diff.Source.ID == "" || src == nil {
		return diff, 0, fmt.Errorf("%w: %q has neither a source snapshot nor a source id", ErrInvalidDifference, diff.MatchingKey)
	}
	attempts, err := e.retry(ctx, src.Platform(), log, func() error {
		entity, err := src.GetOne(ctx, diff.Kind, diff.Source.ID)
		if err != nil {
			return err
		}
		diff.Source = entity
		return nil
	})
	return diff, attempts, err
}

// retry runs op until it succeeds, fails permanently or exhausts MaxAttempts.
// Only transient errors are retried.
func (e *Executor) retry(ctx context.Context, p platform.Platform, log *zap.Logger, op func() error) (int, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.cfg.InitialInterval
	b.MaxInterval = e.cfg.MaxInterval
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(e.cfg.MaxAttempts-1)), ctx)

	var (
		attempts int
		lastErr  error
	)
	err := backoff.RetryNotify(func() error {
		attempts++
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err
		if !platform.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy, func(err error, wait time.Duration) {
		e.metrics.ItemRetried(string(p))
		log.Info("Transient platform error, retrying",
			zap.Int("attempt", attempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})

	if err != nil && lastErr != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)) && !errors.Is(lastErr, err) {
		return attempts, fmt.Errorf("gave up after %d attempts (%v): %w", attempts, err, lastErr)
	}
	return attempts, err
}
