package client

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"time"
)

const (
	// DefaultHost of the log server
	DefaultHost = "localhost"
	// DefaultPort of the log server
	DefaultPort = "12345"
	// DefaultMessage sent by the scripted exchange
	DefaultMessage = "Hello from client!"
)

// Reply struct - What the server sent during one exchange
type Reply struct {
	Greeting string
	// Content is everything after the greeting, terminator trimmed
	Content string
}

// Exchange dials addr, reads the greeting, sends message as one line and reads
// until the server closes the connection.
func Exchange(ctx context.Context, addr, message string) (*Reply, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	reader := bufio.NewReader(conn)
	greeting, err := reader.ReadString('\n')
	if err != nil {
		return nil, err
	}

	if _, err := io.WriteString(conn, message+"\n"); err != nil {
		return nil, err
	}

	rest, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return &Reply{
		Greeting: strings.TrimSuffix(greeting, "\n"),
		Content:  strings.TrimSuffix(string(rest), "\n"),
	}, nil
}

// Dial opens a connection without running the exchange
func Dial(addr string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("tcp", addr, timeout)
}
