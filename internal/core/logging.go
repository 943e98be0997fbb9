package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/klauern/hookrelay/internal/config"
)

// LogEntry is one structured record of a dispatch
type LogEntry struct {
	Timestamp    string         `json:"timestamp"`
	InvocationID string         `json:"invocation_id"`
	HookType     string         `json:"hook_type,omitempty"`
	Producer     string         `json:"producer,omitempty"`
	ToolName     string         `json:"tool_name,omitempty"`
	Outcomes     []string       `json:"outcomes,omitempty"`
	Response     map[string]any `json:"response,omitempty"`
	Error        string         `json:"error,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// EventLogger writes LogEntry records to a writer, typically a rotating file.
// A nil *EventLogger is valid and discards everything.
type EventLogger struct {
	mu     sync.Mutex
	w      io.Writer
	format string
}

// NewEventLogger creates a logger writing in the given format (jsonl or pretty).
// Unknown formats fall back to jsonl.
func NewEventLogger(w io.Writer, format string) *EventLogger {
	if !config.IsValidLoggingFormat(format) {
		format = config.LoggingFormatJSONL
	}
	return &EventLogger{w: w, format: format}
}

// Log writes a single entry, stamping it with the current time if unset.
// Failures go to stderr; logging never fails a dispatch.
func (l *EventLogger) Log(entry LogEntry) {
	if l == nil || l.w == nil {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().Format(time.RFC3339)
	}

	var data []byte
	var err error
	if l.format == config.LoggingFormatPretty {
		data, err = json.MarshalIndent(entry, "", "  ")
	} else {
		data, err = json.Marshal(entry)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal log entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.w.Write(append(data, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write to log file: %v\n", err)
	}
}
