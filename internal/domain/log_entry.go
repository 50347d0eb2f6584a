package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// LogEntry struct - one persisted client message in database backed stores
type LogEntry struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	Line      string     `gorm:"type:text;not null;default:''"`
	CreatedAt *time.Time `gorm:"type:timestamp"`
}

// TableName func
func (e *LogEntry) TableName() string {
	return "log_entries"
}

// MigrateDatabase func - Auto-migrate database schema
func MigrateDatabase(db *gorm.DB) error {
	if db == nil {
		return ErrStoreClosed
	}
	return db.AutoMigrate(&LogEntry{})
}

// RenderLines joins records the way the flat log file stores them:
// every record followed by a line terminator.
func RenderLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString(LineTerminator)
	}
	return b.String()
}

// SplitLines is the inverse of RenderLines.
func SplitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(content, LineTerminator), LineTerminator)
}
