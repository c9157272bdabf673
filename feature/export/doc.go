// Package export flattens platform catalogs to CSV or JSON and uploads them
// to the export bucket.
//
// Exports consume the same paged fetch as difference detection. Objects are
// written under exports/<platform>/<kind>-<timestamp>.<ext>; CSV columns are
// the entity id followed by the kind's canonical fields.
//
// # HTTP Endpoints
//
//   - GET /export/:platform/:kind?format=csv|json : export and return the object key.
//   - GET /export : list previous exports (?platform= narrows the prefix).
package export
