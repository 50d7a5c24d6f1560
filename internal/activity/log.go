// Package activity keeps the human-readable activity trail: an
// append-only log file per calendar day, one line per event, in the
// form "[timestamp] [LEVEL] message".
//
// Writes are best-effort. A failure to append never propagates to the
// caller; it is reported on the structured logger and dropped.
package activity

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Log appends entries to day-partitioned files under a directory.
type Log struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// New creates the activity log, creating dir if needed.
func New(dir string, logger *slog.Logger) (*Log, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Record appends one entry to today's log file.
func (l *Log) Record(level, message string) {
	now := l.now().UTC()
	line := fmt.Sprintf("[%s] [%s] %s\n", now.Format(time.RFC3339), level, message)
	path := filepath.Join(l.dir, now.Format("2006-01-02")+".log")

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("opening activity log failed", "file", path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		l.logger.Warn("appending to activity log failed", "file", path, "error", err)
	}
}
