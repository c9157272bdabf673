// Package jobs tracks asynchronous sync batches.
//
// A Queue validates a request, stores a pending Job in the MemoryStore and
// starts it in the background. The job moves to running when claimed, records
// one result per difference as items finish, and ends completed (every item
// processed, whatever the outcome) or failed (a SystemError before any item
// ran). Callers poll snapshots with Queue.Get; only the queue mutates jobs.
//
// When a database is configured, finished jobs are archived to sync_jobs so
// their status stays available after a restart.
package jobs
