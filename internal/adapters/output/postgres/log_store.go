package postgres

import (
	"fmt"
	"sync"

	"golang-logserver/internal/domain"
	"golang-logserver/internal/ports/output"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Compile-time check to ensure LogStore implements LogStore interface
var _ output.LogStore = (*LogStore)(nil)

// LogStore struct - Secondary/Driven adapter for PostgreSQL
// Rows are ordered by their autoincrement id. The RWMutex keeps a session's
// append and the following snapshot consistent within this process.
type LogStore struct {
	mu     sync.RWMutex
	dbGorm *gorm.DB
}

// NewLogStore func - Creates new PostgreSQL log store and migrates its table
func NewLogStore(dbGorm *gorm.DB) (*LogStore, error) {
	logrus.Info("Migrate database ...")
	if err := domain.MigrateDatabase(dbGorm); err != nil {
		logrus.Errorln(err)
		return nil, fmt.Errorf("%w: migrate: %v", domain.ErrStoreIO, err)
	}
	return &LogStore{
		dbGorm: dbGorm,
	}, nil
}

// Append func - Inserts one record
func (p *LogStore) Append(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry := domain.LogEntry{Line: line}
	if err := p.dbGorm.Create(&entry).Error; err != nil {
		logrus.Errorln(err)
		return fmt.Errorf("%w: insert: %v", domain.ErrStoreIO, err)
	}
	return nil
}

// ReadAll func - Renders every record in id order
func (p *LogStore) ReadAll() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var lines []string
	err := p.dbGorm.Model(&domain.LogEntry{}).Order("id asc").Pluck("line", &lines).Error
	if err != nil {
		logrus.Errorln(err)
		return "", fmt.Errorf("%w: select: %v", domain.ErrStoreIO, err)
	}
	return domain.RenderLines(lines), nil
}

// Close func - The connection is owned by the database driver, nothing to release here
func (p *LogStore) Close() error {
	return nil
}
