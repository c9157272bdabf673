package jobs

import (
	"time"

	"catalog-sync/core/executor"
	"catalog-sync/core/platform"
	"catalog-sync/core/reconcile"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether the job will not change anymore.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is a tracked batch of per-entity sync operations.
//
// A job is completed once every item was processed, whatever the item outcomes;
// Failed counts the unsuccessful items. Only a SystemError before the item loop
// marks a job failed, and such a job has no results.
type Job struct {
	ID                  string                `json:"id"`
	Type                platform.Kind         `json:"type"`
	SourcePlatform      platform.Platform     `json:"sourcePlatform"`
	DestinationPlatform platform.Platform     `json:"destinationPlatform"`
	Status              Status                `json:"status"`
	Total               int                   `json:"total"`
	Processed           int                   `json:"processed"`
	Failed              int                   `json:"failed"`
	Results             []executor.SyncResult `json:"results"`
	Error               string                `json:"error,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

// clone returns a copy that shares no mutable state with j.
func (j Job) clone() Job {
	out := j
	out.Results = make([]executor.SyncResult, len(j.Results))
	copy(out.Results, j.Results)
	return out
}

// Request asks the queue to apply differences from Source to Destination.
type Request struct {
	Kind        platform.Kind
	Source      platform.Platform
	Destination platform.Platform
	Differences []reconcile.Difference
	// Exclusive refuses the request with ErrJobRunning while another job for
	// the same source and kind is pending or running.
	Exclusive bool
}
