package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog-sync/core/platform"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Spec describes one reconciliation: which kind to compare between which clients.
type Spec struct {
	// Kind is the entity kind to reconcile.
	Kind platform.Kind

	// Source is the platform of truth.
	Source platform.Client

	// Destination is the platform brought in line with Source.
	Destination platform.Client

	// PageSize is the page size used while draining. Defaults to platform.DefaultPageSize.
	PageSize int

	// Filters are passed to both fetches.
	Filters platform.Filters

	// KeyField overrides the default matching key field for Kind.
	KeyField string

	// Comparator overrides the table-driven comparator for Kind.
	Comparator Comparator

	// CacheTTL is how long a snapshot may be reused. Zero disables caching.
	CacheTTL time.Duration
}

// CacheKey identifies the snapshot of this spec.
func (s *Spec) CacheKey() string {
	return SnapshotKey(s.Source.Platform(), s.Destination.Platform(), s.Kind)
}

// SnapshotKey is the cache key of a platform pair and kind.
func SnapshotKey(source, destination platform.Platform, kind platform.Kind) string {
	return fmt.Sprintf("%s:%s:%s", source, destination, kind)
}

// Options returns the detection options for this spec.
func (s *Spec) Options() Options {
	opts := Options{
		Kind:        s.Kind,
		Source:      s.Source.Platform(),
		Destination: s.Destination.Platform(),
	}
	if s.KeyField != "" {
		opts.Key = KeyByField(s.KeyField)
	}
	opts.Comparator = s.Comparator
	return opts
}

// Snapshot holds both sides of a reconciliation as fetched at Built.
type Snapshot struct {
	Source      []platform.Entity
	Destination []platform.Entity
	Built       time.Time
	TTL         time.Duration
}

// IsExpired reports whether the snapshot must be rebuilt.
func (s *Snapshot) IsExpired() bool {
	if s.TTL == 0 {
		return true
	}
	return time.Since(s.Built) > s.TTL
}

// BuildSnapshot drains source and destination concurrently.
func BuildSnapshot(ctx context.Context, spec *Spec) (*Snapshot, error) {
	if !spec.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", platform.ErrUnsupportedKind, spec.Kind)
	}
	pageSize := spec.PageSize
	if pageSize <= 0 {
		pageSize = platform.DefaultPageSize
	}

	var source, destination []platform.Entity
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := platform.Drain(gctx, spec.Source, spec.Kind, pageSize, spec.Filters)
		if err != nil {
			return fmt.Errorf("fetch %s from %s: %w", spec.Kind, spec.Source.Platform(), err)
		}
		source = items
		return nil
	})
	g.Go(func() error {
		items, err := platform.Drain(gctx, spec.Destination, spec.Kind, pageSize, spec.Filters)
		if err != nil {
			return fmt.Errorf("fetch %s from %s: %w", spec.Kind, spec.Destination.Platform(), err)
		}
		destination = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		Source:      source,
		Destination: destination,
		Built:       time.Now(),
		TTL:         spec.CacheTTL,
	}, nil
}

// SnapshotCache keeps recent snapshots keyed by platform pair and kind.
// Concurrent misses for the same key share one build.
type SnapshotCache struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	sf        singleflight.Group
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{snapshots: make(map[string]*Snapshot)}
}

// GetOrBuild returns a fresh cached snapshot for spec or builds a new one.
func (c *SnapshotCache) GetOrBuild(ctx context.Context, spec *Spec) (*Snapshot, error) {
	key := spec.CacheKey()

	if snap, ok := c.lookup(key); ok {
		return snap, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if snap, ok := c.lookup(key); ok {
			return snap, nil
		}
		snap, err := BuildSnapshot(ctx, spec)
		if err != nil {
			return nil, err
		}
		if snap.TTL > 0 {
			c.mu.Lock()
			c.snapshots[key] = snap
			c.mu.Unlock()
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

func (c *SnapshotCache) lookup(key string) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[key]
	if !ok || snap.IsExpired() {
		return nil, false
	}
	return snap, true
}

// Invalidate drops the snapshot for spec. Called after a sync writes to the destination.
func (c *SnapshotCache) Invalidate(spec *Spec) {
	c.mu.Lock()
	delete(c.snapshots, spec.CacheKey())
	c.mu.Unlock()
}

// InvalidatePair drops the snapshot of a platform pair and kind.
func (c *SnapshotCache) InvalidatePair(source, destination platform.Platform, kind platform.Kind) {
	c.mu.Lock()
	delete(c.snapshots, SnapshotKey(source, destination, kind))
	c.mu.Unlock()
}

// InvalidateAll drops every snapshot.
func (c *SnapshotCache) InvalidateAll() {
	c.mu.Lock()
	c.snapshots = make(map[string]*Snapshot)
	c.mu.Unlock()
}

// Reconcile fetches both sides of spec and detects the differences. A nil
// cache always fetches.
func Reconcile(ctx context.Context, spec *Spec, cache *SnapshotCache) (Report, error) {
	var (
		snap *Snapshot
		err  error
	)
	if cache != nil {
		snap, err = cache.GetOrBuild(ctx, spec)
	} else {
		snap, err = BuildSnapshot(ctx, spec)
	}
	if err != nil {
		return Report{}, err
	}
	return Detect(snap.Source, snap.Destination, spec.Options()), nil
}
