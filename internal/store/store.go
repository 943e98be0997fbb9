// Package store archives hook events as search documents.
package store

import "context"

// Document is the search-ready representation of one dispatched event.
type Document struct {
	ID            string         `json:"id"`
	HookType      string         `json:"hook_type"`
	Producer      string         `json:"producer,omitempty"`
	Timestamp     string         `json:"timestamp"`
	TimestampUnix int64          `json:"timestamp_unix"`
	SessionID     string         `json:"session_id,omitempty"`
	ToolName      string         `json:"tool_name,omitempty"`
	FilePath      string         `json:"file_path,omitempty"`
	Prompt        string         `json:"prompt,omitempty"`
	Cwd           string         `json:"cwd,omitempty"`
	DataFlat      string         `json:"data_flat"`
	Data          map[string]any `json:"data"`
}

// EventStore persists event documents. Implementations must be safe for
// concurrent use.
type EventStore interface {
	Index(ctx context.Context, doc Document) error
	Close() error
}
