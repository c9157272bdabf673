// Package health reports whether the service's dependencies are usable.
//
// Three checks are aggregated: the export bucket, the database (reachability
// and migrated tables) and each platform connection. Storage and database
// failures degrade the service and answer 503; a disconnected platform is
// reported but is a normal state.
//
// # HTTP Endpoints
//
//   - GET /health
//   - GET /health/storage
//   - GET /health/database
//   - GET /health/connections
package health
