package application

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"golang-logserver/internal/domain"
	"golang-logserver/internal/ports/input"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultPoolSize is the number of sessions that may run at once
	DefaultPoolSize = 10
	// DefaultBacklog is the number of accepted connections that may wait for a worker
	DefaultBacklog = 64
)

// Compile-time check to ensure WorkerPool implements Dispatcher interface
var _ input.Dispatcher = (*WorkerPool)(nil)

// WorkerPool struct - Fixed set of workers consuming accepted connections
// Connections wait in a buffered queue; when it is full Submit blocks, so the
// accept loop slows down instead of dropping clients.
type WorkerPool struct {
	sessions input.SessionService
	size     int
	queue    chan net.Conn
	quit     chan struct{}

	mu       sync.RWMutex
	closed   bool
	quitOnce sync.Once
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	active atomic.Int64
	peak   atomic.Int64
	served atomic.Int64
	failed atomic.Int64
}

// NewWorkerPool func - Starts size workers running sessions for submitted connections
func NewWorkerPool(size, backlog int, sessions input.SessionService) *WorkerPool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	if backlog < 0 {
		backlog = DefaultBacklog
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		sessions: sessions,
		size:     size,
		queue:    make(chan net.Conn, backlog),
		quit:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker(i)
	}
	logrus.Infof("Worker pool started: size=%d backlog=%d", size, backlog)
	return p
}

// Submit func - Queues conn for a worker
func (p *WorkerPool) Submit(conn net.Conn) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return domain.ErrPoolClosed
	}
	// The queue is only closed under the write lock, so this send cannot
	// race with close. quit releases a send blocked on a full backlog.
	select {
	case p.queue <- conn:
		return nil
	case <-p.quit:
		return domain.ErrPoolClosed
	}
}

// Shutdown func - Stops intake and waits for queued and running sessions
func (p *WorkerPool) Shutdown(ctx context.Context) error {
	p.quitOnce.Do(func() { close(p.quit) })

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		logrus.Info("Worker pool stopped")
		return nil
	case <-ctx.Done():
		logrus.Warn("Worker pool shutdown timed out, cancelling sessions")
		p.cancel()
		<-done
		return ctx.Err()
	}
}

// Stats func - Returns a snapshot of the pool counters
func (p *WorkerPool) Stats() domain.PoolStats {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	return domain.PoolStats{
		Size:       p.size,
		Active:     p.active.Load(),
		PeakActive: p.peak.Load(),
		Queued:     len(p.queue),
		Served:     p.served.Load(),
		Failed:     p.failed.Load(),
		Closed:     closed,
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for conn := range p.queue {
		p.execute(id, conn)
	}
}

// execute occupies one slot for the duration of a session. The slot is
// released on every path, a panicking session included.
func (p *WorkerPool) execute(id int, conn net.Conn) {
	p.acquire()
	defer p.release()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				conn.Close()
				err = fmt.Errorf("session panic: %v", r)
				logrus.WithField("worker", id).Error(err)
			}
		}()
		return p.sessions.Serve(p.ctx, conn)
	}()

	p.served.Add(1)
	if err != nil {
		p.failed.Add(1)
		logrus.WithField("worker", id).Debugf("Session released after failure: %v", err)
	}
}

func (p *WorkerPool) acquire() {
	n := p.active.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}

func (p *WorkerPool) release() {
	p.active.Add(-1)
}
