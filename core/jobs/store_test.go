package jobs

import (
	"sync"
	"testing"
	"time"

	"catalog-sync/core/executor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingJob(id string, total int, created time.Time) Job {
	return Job{ID: id, Type: "product", Status: StatusPending, Total: total, CreatedAt: created, UpdatedAt: created}
}

func TestMemoryStore_InsertGet(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Insert(pendingJob("a", 2, time.Now())))
	assert.Error(t, s.Insert(pendingJob("a", 2, time.Now())))

	job, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, StatusPending, job.Status)
	assert.Empty(t, job.Results)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestMemoryStore_ClaimOnce(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Insert(pendingJob("a", 1, time.Now())))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		claims int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Claim("a") {
				mu.Lock()
				claims++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, claims)
	assert.False(t, s.Claim("missing"))
}

func TestMemoryStore_RecordInIndexOrder(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Insert(pendingJob("a", 3, time.Now())))
	require.True(t, s.Claim("a"))

	require.NoError(t, s.Record("a", 2, executor.SyncResult{MatchingKey: "c", Success: true}))
	require.NoError(t, s.Record("a", 0, executor.SyncResult{MatchingKey: "a", Success: false}))
	assert.Error(t, s.Record("a", 0, executor.SyncResult{MatchingKey: "a"}))
	assert.Error(t, s.Record("a", 3, executor.SyncResult{}))

	job, _ := s.Get("a")
	assert.Equal(t, 2, job.Processed)
	assert.Equal(t, 1, job.Failed)
	require.Len(t, job.Results, 2)
	assert.Equal(t, "a", job.Results[0].MatchingKey)
	assert.Equal(t, "c", job.Results[1].MatchingKey)
}

func TestMemoryStore_SnapshotsAreCopies(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Insert(pendingJob("a", 1, time.Now())))
	require.True(t, s.Claim("a"))
	require.NoError(t, s.Record("a", 0, executor.SyncResult{MatchingKey: "x", Success: true}))

	job, _ := s.Get("a")
	job.Results[0].MatchingKey = "mutated"

	again, _ := s.Get("a")
	assert.Equal(t, "x", again.Results[0].MatchingKey)
}

func TestMemoryStore_Finish(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Insert(pendingJob("a", 1, time.Now())))

	_, err := s.Finish("a", StatusCompleted, "")
	assert.Error(t, err, "pending jobs cannot finish")

	require.True(t, s.Claim("a"))
	job, err := s.Finish("a", StatusFailed, "boom")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, "boom", job.Error)
	assert.Empty(t, job.Results)

	assert.ErrorIs(t, s.Record("missing", 0, executor.SyncResult{}), ErrJobNotFound)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now()
	require.NoError(t, s.Insert(pendingJob("old", 1, base)))
	require.NoError(t, s.Insert(pendingJob("new", 1, base.Add(time.Second))))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestMemoryStore_ConcurrentReadsDuringWrites(t *testing.T) {
	s := NewMemoryStore()
	const n = 200
	require.NoError(t, s.Insert(pendingJob("a", n, time.Now())))
	require.True(t, s.Claim("a"))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_ = s.Record("a", i, executor.SyncResult{MatchingKey: "k", Success: true})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			job, _ := s.Get("a")
			assert.Equal(t, job.Processed, len(job.Results))
		}
	}()
	wg.Wait()
}
