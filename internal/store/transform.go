package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventToDocument builds a Document from a normalized event payload. Common
// filter fields are lifted to the top level; the whole payload is kept both
// as a map and as a flat JSON string for full-text search.
func EventToDocument(hookType, producer string, ts time.Time, data map[string]any) Document {
	doc := Document{
		ID:            uuid.New().String(),
		HookType:      hookType,
		Producer:      producer,
		Timestamp:     ts.UTC().Format("2006-01-02T15:04:05.000Z"),
		TimestampUnix: ts.Unix(),
		Data:          data,
	}

	if sid, ok := extractString(data, "session_id"); ok {
		doc.SessionID = sid
	}
	doc.ToolName = toolName(data)
	if ti, ok := extractNestedMap(data, "tool_input"); ok {
		if fp, ok := extractString(ti, "file_path"); ok {
			doc.FilePath = fp
		}
	}
	if p, ok := extractString(data, "prompt"); ok {
		doc.Prompt = p
	}
	if cwd, ok := extractString(data, "cwd"); ok {
		doc.Cwd = cwd
	}

	if b, err := json.Marshal(data); err == nil {
		doc.DataFlat = string(b)
	}

	return doc
}

// toolName takes the first non-empty of tool_name, tool and tool.name.
func toolName(data map[string]any) string {
	if tn, ok := extractString(data, "tool_name"); ok && tn != "" {
		return tn
	}
	if tn, ok := extractString(data, "tool"); ok && tn != "" {
		return tn
	}
	if tool, ok := extractNestedMap(data, "tool"); ok {
		if tn, ok := extractString(tool, "name"); ok {
			return tn
		}
	}
	return ""
}

// extractString returns ("", false) if the key is missing or not a string.
func extractString(data map[string]any, key string) (string, bool) {
	v, ok := data[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func extractNestedMap(data map[string]any, key string) (map[string]any, bool) {
	v, ok := data[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
