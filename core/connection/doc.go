// Package connection resolves store credentials into platform clients.
//
// Connections come from configuration (ConfigStore) or from the connections
// table (Repository); Chain combines them. Factory implements the job queue's
// resolver and reports connection health.
package connection
