package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang-logserver/internal/domain"
	"golang-logserver/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure FileLogStore implements LogStore interface
var _ output.LogStore = (*FileLogStore)(nil)

// FileLogStore struct - Output adapter for the flat append-only log file
// One record per line, no header. A sync.RWMutex gives single-writer/multi-reader access.
type FileLogStore struct {
	mu       sync.RWMutex
	path     string
	file     *os.File
	syncFile func(*os.File) error
}

// NewFileLogStore opens path for appending, creating the file and its parent
// directories when missing. Existing content is kept.
func NewFileLogStore(path string) (*FileLogStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create log directory: %v", domain.ErrStoreIO, err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open log file: %v", domain.ErrStoreIO, err)
	}

	logrus.Infof("Log store opened: %s", path)
	return &FileLogStore{
		path:     path,
		file:     f,
		syncFile: (*os.File).Sync,
	}, nil
}

// Path returns the backing file path
func (s *FileLogStore) Path() string {
	return s.path
}

// Append writes line and a terminator in one write and syncs the file.
// If the write or the sync fails the file is truncated back to its previous size,
// so a failed Append never leaves the record behind.
func (s *FileLogStore) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreIO, domain.ErrStoreClosed)
	}

	info, err := s.file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat log file: %v", domain.ErrStoreIO, err)
	}
	size := info.Size()

	if _, err := s.file.WriteString(line + domain.LineTerminator); err != nil {
		s.rollback(size)
		return fmt.Errorf("%w: write log file: %v", domain.ErrStoreIO, err)
	}
	if err := s.syncFile(s.file); err != nil {
		s.rollback(size)
		return fmt.Errorf("%w: sync log file: %v", domain.ErrStoreIO, err)
	}
	return nil
}

// rollback must be called with the write lock held.
func (s *FileLogStore) rollback(size int64) {
	if err := s.file.Truncate(size); err != nil {
		logrus.Errorf("Failed to roll back partial append on %s: %v", s.path, err)
	}
}

// ReadAll returns the whole file content.
func (s *FileLogStore) ReadAll() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.file == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrStoreIO, domain.ErrStoreClosed)
	}

	// ReadAt does not move the shared offset, so parallel readers are safe.
	info, err := s.file.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: stat log file: %v", domain.ErrStoreIO, err)
	}
	buf := make([]byte, info.Size())
	n, err := s.file.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: read log file: %v", domain.ErrStoreIO, err)
	}
	return string(buf[:n]), nil
}

// Close closes the backing file. It is idempotent.
func (s *FileLogStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("%w: close log file: %v", domain.ErrStoreIO, err)
	}
	logrus.Infof("Log store closed: %s", s.path)
	return nil
}
