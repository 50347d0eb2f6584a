package input

import (
	"context"
	"net"
)

// SessionService interface - Input port (use case)
// Runs the fixed greet/receive/persist/readback/reply exchange on one connection.
type SessionService interface {
	// Serve runs one session to completion and always closes conn.
	// Cancelling ctx closes conn and fails the session.
	Serve(ctx context.Context, conn net.Conn) error
}
