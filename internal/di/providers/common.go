// Package providers contains dependency injection providers for the BookVerse client.
package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 10 * time.Second
)
