package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"golang-logserver/internal/domain"
	"golang-logserver/internal/ports/input"

	"github.com/sirupsen/logrus"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Listener struct - Primary/Driving adapter for TCP
// Owns the accept loop and hands every connection to the dispatcher.
type Listener struct {
	dispatcher input.Dispatcher

	mu   sync.Mutex
	ln   net.Listener
	done chan struct{}
}

// NewListener func - Creates new TCP listener feeding dispatcher
func NewListener(dispatcher input.Dispatcher) *Listener {
	return &Listener{
		dispatcher: dispatcher,
	}
}

// Start binds port and runs the accept loop in its own goroutine.
// A bind failure is returned wrapped in domain.ErrConnect.
func (l *Listener) Start(port string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln != nil {
		return fmt.Errorf("%w: listener already started on %s", domain.ErrConnect, l.ln.Addr())
	}

	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnect, err)
	}
	l.ln = ln
	l.done = make(chan struct{})

	logrus.Infof("Server listening on %s", ln.Addr())
	go l.acceptLoop(ln, l.done)
	return nil
}

// Addr returns the bound address, nil before Start
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Stop closes the listener, shuts the dispatcher down and waits for the accept loop to exit.
// The dispatcher is shut down before the wait so an accept loop blocked in Submit is released.
func (l *Listener) Stop(ctx context.Context) error {
	l.mu.Lock()
	ln, done := l.ln, l.done
	l.mu.Unlock()

	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			logrus.Errorf("Error closing listener: %v", err)
		}
	}
	err := l.dispatcher.Shutdown(ctx)
	if done != nil {
		<-done
	}
	return err
}

func (l *Listener) acceptLoop(ln net.Listener, done chan struct{}) {
	defer close(done)

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logrus.Info("Accept loop stopped")
				return
			}
			if backoff == 0 {
				backoff = minAcceptBackoff
			} else {
				backoff *= 2
			}
			if backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			logrus.Errorf("Accept error: %v; retrying in %v", fmt.Errorf("%w: %v", domain.ErrConnect, err), backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		logrus.Infof("New connection from %s", conn.RemoteAddr())
		if err := l.dispatcher.Submit(conn); err != nil {
			logrus.Warnf("Rejected connection from %s: %v", conn.RemoteAddr(), err)
			conn.Close()
		}
	}
}
