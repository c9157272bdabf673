// Package migrate exposes difference detection and sync jobs over HTTP.
//
// # HTTP Endpoints
//
//   - POST /migrate/sync : enqueue a job for a list of differences (202 with jobId).
//   - GET /migrate/status/:jobId : job snapshot (400 without id, 404 when unknown).
//   - GET /migrate/jobs : jobs held in memory, newest first.
//   - POST /migrate/diff : detect differences for one entity kind.
//   - POST /migrate/run : detect and enqueue in one step.
//   - DELETE /migrate/:platform/:kind/:id : explicit delete (?hard=true).
//
// The destination of every request is the platform other than sourceOfTruth.
// Snapshots of both catalogs are cached for sync.snapshot_ttl and dropped when
// a job or a delete touches the pair. The Scheduler runs /migrate/run
// semantics on a cron schedule.
package migrate
