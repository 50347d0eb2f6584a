package input

import (
	"context"
	"net"

	"golang-logserver/internal/domain"
)

// Dispatcher interface - Input port
// Executes sessions for accepted connections on a bounded set of workers.
type Dispatcher interface {
	// Submit queues conn for a session. It blocks while the backlog is full
	// and returns domain.ErrPoolClosed once Shutdown has started.
	Submit(conn net.Conn) error

	// Shutdown stops accepting connections and waits for queued and in-flight
	// sessions. When ctx ends first the remaining sessions are cancelled.
	Shutdown(ctx context.Context) error

	// Stats returns current pool counters
	Stats() domain.PoolStats
}
