// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application; this package only defines the
// listen port, the API key and the timeouts used for reading requests and for
// draining running jobs on shutdown.
package server
