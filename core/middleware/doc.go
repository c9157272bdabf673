// Package middleware contains HTTP middleware for the Fiber application.
//
//   - auth: API key validation for every route except the public ones.
//   - rayid: a per-request id stored in the fiber locals and echoed in the
//     X-Ray-ID response header, picked up by logger.WithRayID.
//
// RayID must be registered first so every later log line carries the id.
package middleware
