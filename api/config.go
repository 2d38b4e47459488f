// Package api provides the HTTP server that answers chat requests over the
// document corpus.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string
}
