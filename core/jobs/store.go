package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"catalog-sync/core/executor"
)

type entry struct {
	mu  sync.RWMutex
	job Job

	// slots holds results by input index; filled marks the written ones.
	slots  []executor.SyncResult
	filled []bool
}

func newEntry(job Job) *entry {
	return &entry{
		job:    job.clone(),
		slots:  make([]executor.SyncResult, job.Total),
		filled: make([]bool, job.Total),
	}
}

// snapshot must be called with e.mu held. Results lists the finished items in
// input order.
func (e *entry) snapshot() Job {
	out := e.job.clone()
	if out.Status == StatusFailed {
		out.Results = []executor.SyncResult{}
		return out
	}
	out.Results = make([]executor.SyncResult, 0, out.Processed)
	for i, ok := range e.filled {
		if ok {
			out.Results = append(out.Results, e.slots[i])
		}
	}
	return out
}

// MemoryStore is the process-wide job registry. Create one at startup and
// pass it to whatever creates or reads jobs.
//
// The map lock only guards membership; each job has its own lock so a writer
// updating one job never blocks readers of another.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

func (s *MemoryStore) entry(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Insert adds a new job. Ids must be unique.
func (s *MemoryStore) Insert(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	s.entries[job.ID] = newEntry(job)
	return nil
}

// Get returns a snapshot of the job.
func (s *MemoryStore) Get(id string) (Job, bool) {
	e, ok := s.entry(id)
	if !ok {
		return Job{}, false
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot(), true
}

// List returns snapshots of every job, newest first.
func (s *MemoryStore) List() []Job {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]Job, 0, len(entries))
	for _, e := range entries {
		e.mu.RLock()
		out = append(out, e.snapshot())
		e.mu.RUnlock()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Claim moves a pending job to running. It returns false when the job is
// unknown or already claimed, so at most one executor ever runs a job.
func (s *MemoryStore) Claim(id string) bool {
	e, ok := s.entry(id)
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.job.Status != StatusPending {
		return false
	}
	e.job.Status = StatusRunning
	e.job.UpdatedAt = time.Now().UTC()
	return true
}

// Record stores the result of item index and bumps the counters.
func (s *MemoryStore) Record(id string, index int, result executor.SyncResult) error {
	return s.update(id, func(e *entry) error {
		j := &e.job
		if j.Status != StatusRunning {
			return fmt.Errorf("job %s: cannot record results while %s", id, j.Status)
		}
		if index < 0 || index >= len(e.slots) {
			return fmt.Errorf("job %s: result index %d out of range", id, index)
		}
		if e.filled[index] {
			return fmt.Errorf("job %s: result %d already recorded", id, index)
		}
		e.slots[index] = result
		e.filled[index] = true
		j.Processed++
		if !result.Success {
			j.Failed++
		}
		return nil
	})
}

// Finish moves a running job to a terminal status.
func (s *MemoryStore) Finish(id string, status Status, errMsg string) (Job, error) {
	var out Job
	err := s.update(id, func(e *entry) error {
		if e.job.Status != StatusRunning {
			return fmt.Errorf("job %s: cannot finish from %s", id, e.job.Status)
		}
		e.job.Status = status
		e.job.Error = errMsg
		out = e.snapshot()
		return nil
	})
	return out, err
}

func (s *MemoryStore) update(id string, fn func(*entry) error) error {
	e, ok := s.entry(id)
	if !ok {
		return ErrJobNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e); err != nil {
		return err
	}
	e.job.UpdatedAt = time.Now().UTC()
	return nil
}
