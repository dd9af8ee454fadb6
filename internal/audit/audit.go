package audit

import "time"

// Entry records a single tool invocation for the audit trail
type Entry struct {
	EntryID    string `json:"entry_id"`
	Timestamp  int64  `json:"timestamp"`
	Tool       string `json:"tool"`
	Transport  string `json:"transport"` // "http", "sse", "mcp" or "stdio"
	RequestID  string `json:"request_id"`
	Arguments  string `json:"arguments"`
	Error      string `json:"error_message"`
	DurationMs int64  `json:"duration_ms"`
	Status     string `json:"status"` // "success" or "error"
}

// Logger writes audit entries to storage
type Logger interface {
	LogAsync(entry *Entry)
	Close() error
}

// Nop discards all entries. Used when the audit log is disabled.
type Nop struct{}

func (Nop) LogAsync(*Entry) {}
func (Nop) Close() error    { return nil }

func now() int64 {
	return time.Now().Unix()
}
