// Package timeouts defines shared timeout constants for the HTTP and gRPC
// listeners and the outbound suggestion call.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// Generation caps a single suggestion generator request.
const Generation = 15 * time.Second
