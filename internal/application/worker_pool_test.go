package application

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang-logserver/internal/domain"
)

// MockSessionService implements input.SessionService for testing
type MockSessionService struct {
	ServeFunc func(ctx context.Context, conn net.Conn) error
}

func (m *MockSessionService) Serve(ctx context.Context, conn net.Conn) error {
	defer conn.Close()
	if m.ServeFunc != nil {
		return m.ServeFunc(ctx, conn)
	}
	return nil
}

// pipeConn returns the server side of an in-memory connection
func pipeConn(t *testing.T) net.Conn {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { client.Close() })
	return server
}

func shutdown(t *testing.T, pool *WorkerPool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Shutdown(ctx); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}

// TestWorkerPoolNeverExceedsSize tests that at most size sessions run while the rest stay queued
func TestWorkerPoolNeverExceedsSize(t *testing.T) {
	const size, extra = 3, 5
	var current, peak atomic.Int64
	started := make(chan struct{}, size+extra)
	gate := make(chan struct{})

	sessions := &MockSessionService{
		ServeFunc: func(ctx context.Context, conn net.Conn) error {
			n := current.Add(1)
			defer current.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			started <- struct{}{}
			<-gate
			return nil
		},
	}
	pool := NewWorkerPool(size, 16, sessions)

	for i := 0; i < size+extra; i++ {
		if err := pool.Submit(pipeConn(t)); err != nil {
			t.Fatalf("expected no error on Submit, got %v", err)
		}
	}

	for i := 0; i < size; i++ {
		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatalf("expected %d sessions to start, got %d", size, i)
		}
	}
	select {
	case <-started:
		t.Fatal("expected no session beyond the pool size to start")
	case <-time.After(100 * time.Millisecond):
	}

	stats := pool.Stats()
	if stats.Active != size {
		t.Errorf("expected %d active sessions, got %d", size, stats.Active)
	}
	if stats.Queued != extra {
		t.Errorf("expected %d queued connections, got %d", extra, stats.Queued)
	}

	close(gate)
	shutdown(t, pool)

	if peak.Load() != size {
		t.Errorf("expected peak concurrency %d, got %d", size, peak.Load())
	}
	stats = pool.Stats()
	if stats.Served != size+extra {
		t.Errorf("expected %d served sessions, got %d", size+extra, stats.Served)
	}
	if stats.PeakActive != size {
		t.Errorf("expected PeakActive %d, got %d", size, stats.PeakActive)
	}
	if !stats.Closed {
		t.Error("expected pool to report closed after shutdown")
	}
}

// TestWorkerPoolReleasesSlotAfterPanic tests that a panicking session does not leak its slot
func TestWorkerPoolReleasesSlotAfterPanic(t *testing.T) {
	var calls atomic.Int64
	sessions := &MockSessionService{
		ServeFunc: func(ctx context.Context, conn net.Conn) error {
			if calls.Add(1) == 1 {
				panic("boom")
			}
			return nil
		},
	}
	pool := NewWorkerPool(1, 4, sessions)

	pool.Submit(pipeConn(t))
	pool.Submit(pipeConn(t))
	shutdown(t, pool)

	stats := pool.Stats()
	if stats.Served != 2 {
		t.Errorf("expected 2 served sessions, got %d", stats.Served)
	}
	if stats.Failed != 1 {
		t.Errorf("expected 1 failed session, got %d", stats.Failed)
	}
	if stats.Active != 0 {
		t.Errorf("expected no active sessions, got %d", stats.Active)
	}
}

// TestWorkerPoolCountsFailedSessions tests that session errors are contained and counted
func TestWorkerPoolCountsFailedSessions(t *testing.T) {
	sessions := &MockSessionService{
		ServeFunc: func(ctx context.Context, conn net.Conn) error {
			return domain.ErrProtocol
		},
	}
	pool := NewWorkerPool(2, 4, sessions)

	for i := 0; i < 3; i++ {
		pool.Submit(pipeConn(t))
	}
	shutdown(t, pool)

	if pool.Stats().Failed != 3 {
		t.Errorf("expected 3 failed sessions, got %d", pool.Stats().Failed)
	}
}

// TestWorkerPoolSubmitAfterShutdown tests that a closed pool refuses new connections
func TestWorkerPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(1, 1, &MockSessionService{})
	shutdown(t, pool)

	if err := pool.Submit(pipeConn(t)); !errors.Is(err, domain.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
	// a second shutdown is a no-op
	shutdown(t, pool)
}

// TestWorkerPoolShutdownWaitsForInFlight tests that running sessions finish before Shutdown returns
func TestWorkerPoolShutdownWaitsForInFlight(t *testing.T) {
	var finished atomic.Bool
	started := make(chan struct{})
	sessions := &MockSessionService{
		ServeFunc: func(ctx context.Context, conn net.Conn) error {
			close(started)
			time.Sleep(100 * time.Millisecond)
			finished.Store(true)
			return nil
		},
	}
	pool := NewWorkerPool(1, 0, sessions)
	pool.Submit(pipeConn(t))
	<-started

	shutdown(t, pool)
	if !finished.Load() {
		t.Error("expected in-flight session to finish before Shutdown returned")
	}
}

// TestWorkerPoolShutdownTimeoutCancelsSessions tests the forced path when sessions outlive the deadline
func TestWorkerPoolShutdownTimeoutCancelsSessions(t *testing.T) {
	started := make(chan struct{})
	sessions := &MockSessionService{
		ServeFunc: func(ctx context.Context, conn net.Conn) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	}
	pool := NewWorkerPool(1, 1, sessions)
	pool.Submit(pipeConn(t))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := pool.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
	if pool.Stats().Active != 0 {
		t.Errorf("expected no active sessions after forced shutdown, got %d", pool.Stats().Active)
	}
}

// TestWorkerPoolShutdownReleasesBlockedSubmit tests that a Submit waiting on a full backlog returns on shutdown
func TestWorkerPoolShutdownReleasesBlockedSubmit(t *testing.T) {
	started := make(chan struct{})
	sessions := &MockSessionService{
		ServeFunc: func(ctx context.Context, conn net.Conn) error {
			close(started)
			<-ctx.Done()
			return nil
		},
	}
	pool := NewWorkerPool(1, 0, sessions)
	pool.Submit(pipeConn(t))
	<-started

	blocked := pipeConn(t)
	var wg sync.WaitGroup
	var submitErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		submitErr = pool.Submit(blocked)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	pool.Shutdown(ctx)
	wg.Wait()

	if !errors.Is(submitErr, domain.ErrPoolClosed) {
		t.Errorf("expected blocked Submit to return ErrPoolClosed, got %v", submitErr)
	}
}
