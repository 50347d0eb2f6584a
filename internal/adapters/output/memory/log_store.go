package memory

import (
	"fmt"
	"sync"

	"golang-logserver/internal/domain"
	"golang-logserver/internal/ports/output"
)

// Compile-time check to ensure MemoryLogStore implements LogStore interface
var _ output.LogStore = (*MemoryLogStore)(nil)

// MemoryLogStore struct - Output adapter for an in-process log
// Records live in a slice guarded by a sync.RWMutex: Append takes the write lock,
// ReadAll takes the read lock so readers proceed in parallel.
type MemoryLogStore struct {
	mu     sync.RWMutex
	lines  []string
	closed bool
}

// NewMemoryLogStore creates an empty in-memory log store
func NewMemoryLogStore() *MemoryLogStore {
	return &MemoryLogStore{
		lines: make([]string, 0),
	}
}

// Append adds line as the newest record.
func (m *MemoryLogStore) Append(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("%w: %w", domain.ErrStoreIO, domain.ErrStoreClosed)
	}
	m.lines = append(m.lines, line)
	return nil
}

// ReadAll renders every record followed by a line terminator.
func (m *MemoryLogStore) ReadAll() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", fmt.Errorf("%w: %w", domain.ErrStoreIO, domain.ErrStoreClosed)
	}
	return domain.RenderLines(m.lines), nil
}

// Len returns the number of records
func (m *MemoryLogStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lines)
}

// Close marks the store closed. It is idempotent.
func (m *MemoryLogStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
