package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"catalog-sync/core/platform"
	"catalog-sync/core/platform/memory"
	"catalog-sync/core/platform/mocks"
	"catalog-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		ItemTimeout:     time.Second,
	}
}

func productDiff(slug string) reconcile.Difference {
	return creation(platform.Platform("memory"), platform.Shopify, &platform.Product{Slug: slug, Name: slug})
}

func TestRun_OneResultPerDifferenceInOrder(t *testing.T) {
	dst := memory.New(platform.Shopify)
	dst.SetWriteHook(func(op string, kind platform.Kind, id string, payload platform.Payload) error {
		if payload["handle"] == "b" {
			return platform.Permanent("create", 422, errors.New("title is invalid"))
		}
		return nil
	})
	diffs := []reconcile.Difference{productDiff("a"), productDiff("b"), productDiff("c")}

	var seen []int
	results := New(fastConfig(), nil, nil, nil).Run(context.Background(), diffs, nil, dst, func(i int, _ SyncResult) {
		seen = append(seen, i)
	})

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "title is invalid")
	assert.Equal(t, 1, results[1].Attempts)
	assert.True(t, results[2].Success)
	assert.Equal(t, []string{"a", "b", "c"}, []string{results[0].MatchingKey, results[1].MatchingKey, results[2].MatchingKey})
	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.Equal(t, 2, dst.Len(platform.KindProduct))
}

func TestRun_CreationRoundTrip(t *testing.T) {
	ctx := context.Background()
	dst := memory.New(platform.Shopify)

	results := New(fastConfig(), nil, nil, nil).Run(ctx, []reconcile.Difference{productDiff("new-arrival")}, nil, dst, nil)
	require.True(t, results[0].Success)

	got, err := dst.GetOne(ctx, platform.KindProduct, results[0].DestinationID)
	require.NoError(t, err)
	assert.Equal(t, "new-arrival", reconcile.DefaultKey(platform.KindProduct)(got))
}

func TestSyncOne_RetriesTransientErrors(t *testing.T) {
	dst := new(mocks.Client)
	dst.On("Platform").Return(platform.Shopify)
	dst.On("CreateOne", mock.Anything, platform.KindProduct, mock.Anything).
		Return("", platform.Transient("create", 503, errors.New("unavailable"))).Twice()
	dst.On("CreateOne", mock.Anything, platform.KindProduct, mock.Anything).
		Return("gid-9", nil).Once()

	result := New(fastConfig(), nil, nil, nil).SyncOne(context.Background(), productDiff("a"), nil, dst)

	assert.True(t, result.Success)
	assert.Equal(t, "gid-9", result.DestinationID)
	assert.Equal(t, 3, result.Attempts)
	dst.AssertExpectations(t)
}

func TestSyncOne_GivesUpAfterMaxAttempts(t *testing.T) {
	dst := new(mocks.Client)
	dst.On("Platform").Return(platform.Shopify)
	dst.On("CreateOne", mock.Anything, platform.KindProduct, mock.Anything).
		Return("", platform.Transient("create", 429, errors.New("throttled")))

	result := New(fastConfig(), nil, nil, nil).SyncOne(context.Background(), productDiff("a"), nil, dst)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Contains(t, result.Error, "throttled")
	dst.AssertNumberOfCalls(t, "CreateOne", 3)
}

func TestSyncOne_PermanentErrorNotRetried(t *testing.T) {
	dst := new(mocks.Client)
	dst.On("Platform").Return(platform.Shopify)
	dst.On("UpdateOne", mock.Anything, platform.KindProduct, "gid-1", mock.Anything).
		Return(platform.Permanent("update", 404, platform.ErrNotFound))

	diff := productDiff("a")
	diff.FieldsChanged = []string{"title"}
	diff.DestinationID = "gid-1"

	result := New(fastConfig(), nil, nil, nil).SyncOne(context.Background(), diff, nil, dst)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	dst.AssertNumberOfCalls(t, "UpdateOne", 1)
}

func TestSyncOne_ItemTimeoutBoundsRetries(t *testing.T) {
	dst := new(mocks.Client)
	dst.On("Platform").Return(platform.Shopify)
	dst.On("CreateOne", mock.Anything, platform.KindProduct, mock.Anything).
		Return("", platform.Transient("create", 503, errors.New("unavailable")))

	cfg := fastConfig()
	cfg.MaxAttempts = 100
	cfg.InitialInterval = 20 * time.Millisecond
	cfg.MaxInterval = 20 * time.Millisecond
	cfg.ItemTimeout = 50 * time.Millisecond

	start := time.Now()
	result := New(cfg, nil, nil, nil).SyncOne(context.Background(), productDiff("a"), nil, dst)

	assert.False(t, result.Success)
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, result.Error, "unavailable")
	assert.Less(t, result.Attempts, 100)
}

func TestSyncOne_UpdateWithoutDestinationID(t *testing.T) {
	dst := memory.New(platform.Shopify)
	diff := productDiff("a")
	diff.FieldsChanged = []string{"title"}

	result := New(fastConfig(), nil, nil, nil).SyncOne(context.Background(), diff, nil, dst)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, ErrInvalidDifference.Error())
}

func TestSyncOne_PartialCreateRetriedAsUpdate(t *testing.T) {
	dst := new(mocks.Client)
	dst.On("Platform").Return(platform.Shopify)
	dst.On("CreateOne", mock.Anything, platform.KindProduct, mock.Anything).
		Return("gid-1", platform.Transient("create", 503, errors.New("variants failed"))).Once()
	dst.On("UpdateOne", mock.Anything, platform.KindProduct, "gid-1", mock.Anything).
		Return(nil).Once()

	result := New(fastConfig(), nil, nil, nil).SyncOne(context.Background(), productDiff("a"), nil, dst)

	assert.True(t, result.Success, result.Error)
	assert.Equal(t, "gid-1", result.DestinationID)
	assert.Equal(t, 2, result.Attempts)
	dst.AssertNumberOfCalls(t, "CreateOne", 1)
	dst.AssertNumberOfCalls(t, "UpdateOne", 1)
	dst.AssertExpectations(t)
}

func TestSyncOne_PartialCreateFailureReportsID(t *testing.T) {
	dst := new(mocks.Client)
	dst.On("Platform").Return(platform.Shopify)
	dst.On("CreateOne", mock.Anything, platform.KindProduct, mock.Anything).
		Return("gid-2", platform.Permanent("create", 422, errors.New("variant rejected"))).Once()

	result := New(fastConfig(), nil, nil, nil).SyncOne(context.Background(), productDiff("a"), nil, dst)

	assert.False(t, result.Success)
	assert.Empty(t, result.DestinationID)
	assert.Contains(t, result.Error, "partially created as gid-2")
	assert.Contains(t, result.Error, "variant rejected")
	dst.AssertNumberOfCalls(t, "CreateOne", 1)
	dst.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNew_DefaultsZeroItemTimeout(t *testing.T) {
	e := New(Config{}, nil, nil, nil)
	assert.Equal(t, DefaultConfig(), e.cfg)

	e = New(Config{ItemTimeout: -1}, nil, nil, nil)
	assert.Equal(t, time.Duration(-1), e.cfg.ItemTimeout)
}

func TestSyncOne_ResolvesSourceByID(t *testing.T) {
	ctx := context.Background()
	src := memory.New(platform.Platform("memory"))
	ids := src.Seed(&platform.Product{Slug: "lamp", Name: "Lamp"})
	dst := memory.New(platform.Shopify)

	diff := reconcile.Difference{
		MatchingKey:         "lamp",
		Kind:                platform.KindProduct,
		SourcePlatform:      src.Platform(),
		DestinationPlatform: dst.Platform(),
		FieldsChanged:       []string{reconcile.AllFields},
		Source:              platform.Entity{Kind: platform.KindProduct, ID: ids[0]},
	}

	result := New(fastConfig(), nil, nil, nil).SyncOne(ctx, diff, src, dst)
	require.True(t, result.Success, result.Error)

	got, err := dst.GetOne(ctx, platform.KindProduct, result.DestinationID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Title())
}

func TestRun_ConcurrentKeepsIndexes(t *testing.T) {
	dst := memory.New(platform.Shopify)
	var mu sync.Mutex
	calls := 0
	dst.SetWriteHook(func(string, platform.Kind, string, platform.Payload) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	})

	diffs := make([]reconcile.Difference, 20)
	for i := range diffs {
		diffs[i] = productDiff(string(rune('a' + i)))
	}

	cfg := fastConfig()
	cfg.Concurrency = 4
	results := New(cfg, nil, nil, nil).Run(context.Background(), diffs, nil, dst, nil)

	require.Len(t, results, len(diffs))
	for i, r := range results {
		assert.Equal(t, diffs[i].MatchingKey, r.MatchingKey)
		assert.True(t, r.Success)
	}
	assert.Equal(t, 20, calls)
}
