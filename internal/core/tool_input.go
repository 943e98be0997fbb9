package core

import (
	"encoding/json"

	"github.com/brads3290/cchooks"
	"github.com/klauern/hookrelay/internal/constants"
)

// ToolInput is the typed view of a tool-use tool_input payload.
type ToolInput struct {
	event *cchooks.PreToolUseEvent
}

// decodeToolInput decodes a Claude Code style tool_input. It returns nil when
// the event carries no tool_input or it cannot be decoded; tool input is
// optional context, never required for construction.
func decodeToolInput(e *Event, toolName string) *ToolInput {
	if !e.Has(constants.FieldToolInput) {
		return nil
	}
	raw, err := json.Marshal(e.data)
	if err != nil {
		return nil
	}
	var ev cchooks.PreToolUseEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil
	}
	if ev.ToolName == "" {
		ev.ToolName = toolName
	}
	return &ToolInput{event: &ev}
}

// Details returns the tool-specific fields handlers can match on, such as the
// Bash command or the file path of an edit.
func (t *ToolInput) Details() map[string]string {
	details := map[string]string{}
	if t == nil || t.event == nil {
		return details
	}
	switch t.event.ToolName {
	case constants.ToolBash:
		if bash, err := t.event.AsBash(); err == nil {
			details["command"] = bash.Command
			details["description"] = bash.Description
		}
	case constants.ToolEdit:
		if edit, err := t.event.AsEdit(); err == nil {
			details["file_path"] = edit.FilePath
		}
	case constants.ToolWrite:
		if write, err := t.event.AsWrite(); err == nil {
			details["file_path"] = write.FilePath
		}
	case constants.ToolRead:
		if read, err := t.event.AsRead(); err == nil {
			details["file_path"] = read.FilePath
		}
	}
	return details
}

// ToolDetails returns the typed tool input details of a tool-use hook, or nil
// for hooks that carry none.
func ToolDetails(h Hook) map[string]string {
	var in *ToolInput
	switch v := h.(type) {
	case *PreToolUseHook:
		in = v.Input
	case *PostToolUseHook:
		in = v.Input
	}
	if in == nil {
		return nil
	}
	details := in.Details()
	for k, v := range details {
		if v == "" {
			delete(details, k)
		}
	}
	return details
}
