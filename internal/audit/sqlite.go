package audit

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	entry_id TEXT PRIMARY KEY,
	timestamp INTEGER NOT NULL,
	tool TEXT NOT NULL,
	transport TEXT NOT NULL DEFAULT 'http',
	request_id TEXT,
	arguments TEXT,
	error_message TEXT,
	duration_ms INTEGER,
	status TEXT NOT NULL DEFAULT 'success'
);
CREATE INDEX IF NOT EXISTS idx_audit_log_time ON audit_log(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_log_tool ON audit_log(tool);
`

// SQLiteLogger writes audit entries to the audit_log table asynchronously
type SQLiteLogger struct {
	db   *sql.DB
	ch   chan *Entry
	done chan struct{}
	once sync.Once
}

// OpenSQLite opens (creating if needed) the audit database at path and
// starts the background writer.
func OpenSQLite(path string) (*SQLiteLogger, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate audit database: %w", err)
	}

	l := &SQLiteLogger{
		db:   db,
		ch:   make(chan *Entry, 256),
		done: make(chan struct{}),
	}
	go l.flushLoop()
	return l, nil
}

// LogAsync queues an entry for the background writer. Entries are dropped
// with a warning when the buffer is full; the audit log never blocks a
// tool call.
func (l *SQLiteLogger) LogAsync(entry *Entry) {
	l.fillDefaults(entry)
	select {
	case l.ch <- entry:
	default:
		slog.Warn("Audit buffer full, dropping entry", "tool", entry.Tool)
	}
}

// Close flushes pending entries and closes the database
func (l *SQLiteLogger) Close() error {
	l.once.Do(func() {
		close(l.ch)
		<-l.done
	})
	return l.db.Close()
}

func (l *SQLiteLogger) fillDefaults(e *Entry) {
	if e.EntryID == "" {
		e.EntryID = "aud_" + uuid.NewString()
	}
	if e.Timestamp == 0 {
		e.Timestamp = now()
	}
	if e.Status == "" {
		if e.Error != "" {
			e.Status = "error"
		} else {
			e.Status = "success"
		}
	}
	if e.Transport == "" {
		e.Transport = "http"
	}
}

func (l *SQLiteLogger) flushLoop() {
	defer close(l.done)

	batch := make([]*Entry, 0, 32)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-l.ch:
			if !ok {
				l.flushBatch(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= 32 {
				l.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				l.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (l *SQLiteLogger) flushBatch(batch []*Entry) {
	if len(batch) == 0 {
		return
	}

	tx, err := l.db.Begin()
	if err != nil {
		slog.Warn("Audit flush failed to begin transaction", "error", err)
		return
	}
	for _, e := range batch {
		if _, err := tx.Exec(
			`INSERT INTO audit_log (entry_id, timestamp, tool, transport, request_id, arguments, error_message, duration_ms, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.EntryID, e.Timestamp, e.Tool, e.Transport, e.RequestID, e.Arguments, e.Error, e.DurationMs, e.Status,
		); err != nil {
			slog.Warn("Audit insert failed", "tool", e.Tool, "error", err)
		}
	}
	if err := tx.Commit(); err != nil {
		slog.Warn("Audit flush failed to commit", "error", err)
	}
}
