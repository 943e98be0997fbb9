// Package core provides event parsing, hook type resolution and the response
// shapes each hook type replies with.
package core

import (
	"fmt"
	"strings"
)

// Hook is one resolved hook type. Each variant knows its name and how to fold
// handler outcomes into the JSON reply its producer expects.
//
// The set of variants is closed; new hook types are added to the registry
// table, not implemented outside this package.
type Hook interface {
	// HookType returns the hook type the variant was constructed for
	HookType() EventType
	// GenerateResponse folds ordered handler outcomes into the reply object
	GenerateResponse(outcomes []HandlerOutcome) map[string]any

	sealed()
}

// StopHook handles Stop and SubagentStop
type StopHook struct {
	name EventType
}

func (h *StopHook) HookType() EventType { return h.name }
func (h *StopHook) sealed()             {}

// GenerateResponse never blocks the stop; handler errors are surfaced to the user.
func (h *StopHook) GenerateResponse(outcomes []HandlerOutcome) map[string]any {
	return withSystemMessage(h.name, errorMessages(outcomes))
}

// NotificationHook handles Notification
type NotificationHook struct{}

func (h *NotificationHook) HookType() EventType { return NotificationEvent }
func (h *NotificationHook) sealed()             {}

func (h *NotificationHook) GenerateResponse(outcomes []HandlerOutcome) map[string]any {
	return withSystemMessage(NotificationEvent, errorMessages(outcomes))
}

// PreToolUseHook handles PreToolUse. It carries the tool being invoked so
// handlers can apply per-tool permission policy.
type PreToolUseHook struct {
	ToolName string
	// Input is the typed tool input when the payload carries one
	Input *ToolInput
}

func (h *PreToolUseHook) HookType() EventType { return PreToolUseEvent }
func (h *PreToolUseHook) sealed()             {}

// GenerateResponse reports the most restrictive permission decision made by
// any handler. With no decision the tool call proceeds under normal rules.
func (h *PreToolUseHook) GenerateResponse(outcomes []HandlerOutcome) map[string]any {
	resp := map[string]any{}
	if d, ok := strongestDecision(outcomes); ok {
		out := map[string]any{
			"hookEventName":      string(PreToolUseEvent),
			"permissionDecision": string(d.Decision),
		}
		if d.Reason != "" {
			out["permissionDecisionReason"] = d.Reason
		}
		resp["hookSpecificOutput"] = out
	}
	if msgs := errorMessages(outcomes); len(msgs) > 0 {
		resp["systemMessage"] = fmt.Sprintf("%s(%s) handler error: %s", PreToolUseEvent, h.ToolName, strings.Join(msgs, "; "))
	}
	return resp
}

// PostToolUseHook handles PostToolUse
type PostToolUseHook struct {
	ToolName string
	Input    *ToolInput
}

func (h *PostToolUseHook) HookType() EventType { return PostToolUseEvent }
func (h *PostToolUseHook) sealed()             {}

// GenerateResponse feeds handler errors back to the agent as a block reason.
func (h *PostToolUseHook) GenerateResponse(outcomes []HandlerOutcome) map[string]any {
	msgs := errorMessages(outcomes)
	if len(msgs) == 0 {
		return map[string]any{}
	}
	return map[string]any{
		"decision": "block",
		"reason":   strings.Join(msgs, "; "),
	}
}

// PermissionRequestHook handles PermissionRequest
type PermissionRequestHook struct {
	ToolName string
}

func (h *PermissionRequestHook) HookType() EventType { return PermissionRequestEvent }
func (h *PermissionRequestHook) sealed()             {}

// GenerateResponse answers the permission dialog on the user's behalf for
// allow and deny. Ask, or no decision at all, leaves the dialog to the user.
func (h *PermissionRequestHook) GenerateResponse(outcomes []HandlerOutcome) map[string]any {
	resp := withSystemMessage(PermissionRequestEvent, errorMessages(outcomes))
	d, ok := strongestDecision(outcomes)
	if !ok || d.Decision == DecisionAsk {
		return resp
	}
	decision := map[string]any{"behavior": string(d.Decision)}
	if d.Reason != "" {
		decision["message"] = d.Reason
	}
	resp["hookSpecificOutput"] = map[string]any{
		"hookEventName": string(PermissionRequestEvent),
		"decision":      decision,
	}
	return resp
}

// UserPromptSubmitHook handles UserPromptSubmit
type UserPromptSubmitHook struct{}

func (h *UserPromptSubmitHook) HookType() EventType { return UserPromptSubmitEvent }
func (h *UserPromptSubmitHook) sealed()             {}

func (h *UserPromptSubmitHook) GenerateResponse(outcomes []HandlerOutcome) map[string]any {
	return withSystemMessage(UserPromptSubmitEvent, errorMessages(outcomes))
}

// SessionStartHook handles SessionStart
type SessionStartHook struct{}

func (h *SessionStartHook) HookType() EventType { return SessionStartEvent }
func (h *SessionStartHook) sealed()             {}

func (h *SessionStartHook) GenerateResponse(outcomes []HandlerOutcome) map[string]any {
	return withSystemMessage(SessionStartEvent, errorMessages(outcomes))
}

// SessionEndHook handles SessionEnd
type SessionEndHook struct{}

func (h *SessionEndHook) HookType() EventType { return SessionEndEvent }
func (h *SessionEndHook) sealed()             {}

func (h *SessionEndHook) GenerateResponse(outcomes []HandlerOutcome) map[string]any {
	return withSystemMessage(SessionEndEvent, errorMessages(outcomes))
}

// PreCompactHook handles PreCompact
type PreCompactHook struct{}

func (h *PreCompactHook) HookType() EventType { return PreCompactEvent }
func (h *PreCompactHook) sealed()             {}

func (h *PreCompactHook) GenerateResponse(outcomes []HandlerOutcome) map[string]any {
	return withSystemMessage(PreCompactEvent, errorMessages(outcomes))
}

// FileEditedHook handles the OpenCode-only FileEdited event.
// It is passive: the edit already happened and cannot be influenced.
type FileEditedHook struct{}

func (h *FileEditedHook) HookType() EventType { return FileEditedEvent }
func (h *FileEditedHook) sealed()             {}

func (h *FileEditedHook) GenerateResponse(_ []HandlerOutcome) map[string]any {
	return map[string]any{}
}

// SessionErrorHook handles the OpenCode-only SessionError event. Passive.
type SessionErrorHook struct{}

func (h *SessionErrorHook) HookType() EventType { return SessionErrorEvent }
func (h *SessionErrorHook) sealed()             {}

func (h *SessionErrorHook) GenerateResponse(_ []HandlerOutcome) map[string]any {
	return map[string]any{}
}

func withSystemMessage(t EventType, msgs []string) map[string]any {
	if len(msgs) == 0 {
		return map[string]any{}
	}
	return map[string]any{
		"systemMessage": fmt.Sprintf("%s handler error: %s", t, strings.Join(msgs, "; ")),
	}
}
