package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"catalog-sync/core/platform"
	"catalog-sync/core/platform/memory"
	"catalog-sync/core/platform/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// countingClient counts first-page fetches.
type countingClient struct {
	platform.Client
	fetches atomic.Int32
}

func (c *countingClient) FetchPage(ctx context.Context, kind platform.Kind, token string, pageSize int, filters platform.Filters) (platform.Page, error) {
	if token == "" {
		c.fetches.Add(1)
	}
	return c.Client.FetchPage(ctx, kind, token, pageSize, filters)
}

func seededPair() (*memory.Client, *memory.Client) {
	src := memory.New(platform.WooCommerce)
	src.Seed(
		&platform.Product{Slug: "a", Name: "A"},
		&platform.Product{Slug: "b", Name: "B"},
	)
	dst := memory.New(platform.Shopify)
	dst.Seed(&platform.Product{Slug: "a", Name: "A"})
	return src, dst
}

func TestReconcile_WithoutCache(t *testing.T) {
	src, dst := seededPair()

	report, err := Reconcile(context.Background(), &Spec{
		Kind:        platform.KindProduct,
		Source:      src,
		Destination: dst,
		PageSize:    1,
	}, nil)

	require.NoError(t, err)
	require.Len(t, report.Differences, 1)
	assert.Equal(t, "b", report.Differences[0].MatchingKey)
	assert.Equal(t, 2, report.Summary.SourceCount)
	assert.Equal(t, 1, report.Summary.DestinationCount)
}

func TestReconcile_Idempotent(t *testing.T) {
	src, dst := seededPair()
	spec := &Spec{Kind: platform.KindProduct, Source: src, Destination: dst}

	first, err := Reconcile(context.Background(), spec, nil)
	require.NoError(t, err)
	second, err := Reconcile(context.Background(), spec, nil)
	require.NoError(t, err)

	assert.Equal(t, views(first.Differences), views(second.Differences))
}

func TestSnapshotCache_ReusesWithinTTL(t *testing.T) {
	memSrc, memDst := seededPair()
	src := &countingClient{Client: memSrc}
	dst := &countingClient{Client: memDst}
	spec := &Spec{Kind: platform.KindProduct, Source: src, Destination: dst, CacheTTL: time.Minute}
	cache := NewSnapshotCache()

	_, err := Reconcile(context.Background(), spec, cache)
	require.NoError(t, err)
	_, err = Reconcile(context.Background(), spec, cache)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.fetches.Load())

	cache.Invalidate(spec)
	_, err = Reconcile(context.Background(), spec, cache)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.fetches.Load())
	assert.Equal(t, int32(2), dst.fetches.Load())

	cache.InvalidatePair(src.Platform(), dst.Platform(), platform.KindProduct)
	_, err = Reconcile(context.Background(), spec, cache)
	require.NoError(t, err)
	assert.Equal(t, int32(3), src.fetches.Load())
}

func TestSnapshotCache_ZeroTTLAlwaysFetches(t *testing.T) {
	memSrc, memDst := seededPair()
	src := &countingClient{Client: memSrc}
	spec := &Spec{Kind: platform.KindProduct, Source: src, Destination: memDst}
	cache := NewSnapshotCache()

	for i := 0; i < 3; i++ {
		_, err := cache.GetOrBuild(context.Background(), spec)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), src.fetches.Load())
}

func TestSnapshotCache_ConcurrentMissesShareSnapshot(t *testing.T) {
	memSrc, memDst := seededPair()
	spec := &Spec{Kind: platform.KindProduct, Source: memSrc, Destination: memDst, CacheTTL: time.Minute}
	cache := NewSnapshotCache()

	var wg sync.WaitGroup
	snaps := make([]*Snapshot, 10)
	for i := range snaps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := cache.GetOrBuild(context.Background(), spec)
			assert.NoError(t, err)
			snaps[i] = snap
		}(i)
	}
	wg.Wait()

	for _, s := range snaps[1:] {
		assert.Same(t, snaps[0], s)
	}
}

func TestBuildSnapshot_PropagatesFetchError(t *testing.T) {
	src := new(mocks.Client)
	src.On("Platform").Return(platform.WooCommerce)
	src.On("FetchPage", mock.Anything, platform.KindProduct, "", platform.DefaultPageSize, platform.Filters(nil)).
		Return(platform.Page{}, platform.Transient("fetch", 503, errors.New("unavailable")))
	dst := memory.New(platform.Shopify)

	_, err := BuildSnapshot(context.Background(), &Spec{Kind: platform.KindProduct, Source: src, Destination: dst})

	require.Error(t, err)
	assert.True(t, platform.IsTransient(err))
	assert.Contains(t, err.Error(), "woocommerce")
}

func TestBuildSnapshot_RejectsUnknownKind(t *testing.T) {
	src, dst := seededPair()
	_, err := BuildSnapshot(context.Background(), &Spec{Kind: "widget", Source: src, Destination: dst})
	assert.ErrorIs(t, err, platform.ErrUnsupportedKind)
}
