package core

// EventType represents an internal hook type name
type EventType string

// All supported hook types
const (
	StopEvent              EventType = "Stop"
	SubagentStopEvent      EventType = "SubagentStop"
	NotificationEvent      EventType = "Notification"
	PreToolUseEvent        EventType = "PreToolUse"
	PostToolUseEvent       EventType = "PostToolUse"
	PermissionRequestEvent EventType = "PermissionRequest"
	UserPromptSubmitEvent  EventType = "UserPromptSubmit"
	SessionStartEvent      EventType = "SessionStart"
	SessionEndEvent        EventType = "SessionEnd"
	PreCompactEvent        EventType = "PreCompact"
	FileEditedEvent        EventType = "FileEdited"
	SessionErrorEvent      EventType = "SessionError"
)

// HookEvent describes a hook type with metadata
type HookEvent struct {
	Type        EventType
	Name        string
	Description string
	// ClaudeCode reports whether Claude Code emits this hook type natively
	ClaudeCode bool
	// OpenCode reports whether an OpenCode identity maps onto this hook type
	OpenCode bool
}

// AllEvents returns all hook types in a stable display order
func AllEvents() []HookEvent {
	return []HookEvent{
		{
			Type:        PreToolUseEvent,
			Name:        string(PreToolUseEvent),
			Description: "Runs after the assistant creates tool parameters and before the tool call",
			ClaudeCode:  true,
			OpenCode:    true,
		},
		{
			Type:        PostToolUseEvent,
			Name:        string(PostToolUseEvent),
			Description: "Runs immediately after a tool completes",
			ClaudeCode:  true,
			OpenCode:    true,
		},
		{
			Type:        PermissionRequestEvent,
			Name:        string(PermissionRequestEvent),
			Description: "Runs when the assistant is about to show a permission dialog",
			ClaudeCode:  true,
		},
		{
			Type:        NotificationEvent,
			Name:        string(NotificationEvent),
			Description: "Runs when the assistant needs attention or input has been idle",
			ClaudeCode:  true,
		},
		{
			Type:        StopEvent,
			Name:        string(StopEvent),
			Description: "Runs when the main agent has finished responding",
			ClaudeCode:  true,
			OpenCode:    true,
		},
		{
			Type:        SubagentStopEvent,
			Name:        string(SubagentStopEvent),
			Description: "Runs when a subagent (Task tool call) has finished responding",
			ClaudeCode:  true,
		},
		{
			Type:        UserPromptSubmitEvent,
			Name:        string(UserPromptSubmitEvent),
			Description: "Runs when the user submits a prompt, before it is processed",
			ClaudeCode:  true,
		},
		{
			Type:        PreCompactEvent,
			Name:        string(PreCompactEvent),
			Description: "Runs before a context compaction",
			ClaudeCode:  true,
			OpenCode:    true,
		},
		{
			Type:        SessionStartEvent,
			Name:        string(SessionStartEvent),
			Description: "Runs when a session starts or resumes",
			ClaudeCode:  true,
			OpenCode:    true,
		},
		{
			Type:        SessionEndEvent,
			Name:        string(SessionEndEvent),
			Description: "Runs when a session ends",
			ClaudeCode:  true,
			OpenCode:    true,
		},
		{
			Type:        FileEditedEvent,
			Name:        string(FileEditedEvent),
			Description: "Runs after OpenCode edits a file (observation only)",
			OpenCode:    true,
		},
		{
			Type:        SessionErrorEvent,
			Name:        string(SessionErrorEvent),
			Description: "Runs when an OpenCode session reports an error (observation only)",
			OpenCode:    true,
		},
	}
}

// ValidEventTypes returns a slice of all valid hook type names
func ValidEventTypes() []string {
	events := AllEvents()
	names := make([]string, len(events))
	for i, event := range events {
		names[i] = event.Name
	}
	return names
}

// IsValidEventType checks if a name is one of the internal hook types.
// OpenCode dotted identities are not accepted here; map them first.
func IsValidEventType(name string) bool {
	for _, event := range AllEvents() {
		if event.Name == name {
			return true
		}
	}
	return false
}

// GetEvent returns the metadata for a hook type
func GetEvent(t EventType) (HookEvent, bool) {
	for _, event := range AllEvents() {
		if event.Type == t {
			return event, true
		}
	}
	return HookEvent{}, false
}
