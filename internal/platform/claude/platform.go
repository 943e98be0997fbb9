package claude

import (
	"github.com/klauern/hookrelay/internal/core"
	"github.com/klauern/hookrelay/internal/platform"
)

// ClaudeCodePlatform implements Platform for Claude Code
type ClaudeCodePlatform struct{}

// New creates a new Claude Code platform instance
func New() platform.Platform {
	return &ClaudeCodePlatform{}
}

// Type returns the platform type
func (p *ClaudeCodePlatform) Type() platform.Type {
	return platform.ClaudeCode
}

// Name returns the human-readable platform name
func (p *ClaudeCodePlatform) Name() string {
	return "Claude Code"
}

// SupportsEvent returns true if Claude Code sends the given hook type
func (p *ClaudeCodePlatform) SupportsEvent(event core.EventType) bool {
	e, ok := core.GetEvent(event)
	return ok && e.ClaudeCode
}

// MapEventFromGeneric maps a hook type to its Claude Code event name
func (p *ClaudeCodePlatform) MapEventFromGeneric(event core.EventType) []string {
	// Claude Code sends hook_event_name verbatim, so the mapping is 1:1
	if p.SupportsEvent(event) {
		return []string{string(event)}
	}
	return nil
}

// MapEventToGeneric maps a Claude Code hook_event_name to its hook type
func (p *ClaudeCodePlatform) MapEventToGeneric(platformEvent string) (core.EventType, bool) {
	event := core.EventType(platformEvent)
	return event, p.SupportsEvent(event)
}

// AllEvents returns all events Claude Code sends
func (p *ClaudeCodePlatform) AllEvents() []platform.PlatformEvent {
	var events []platform.PlatformEvent
	for _, e := range core.AllEvents() {
		if !e.ClaudeCode {
			continue
		}
		events = append(events, platform.PlatformEvent{
			Name:         e.Name,
			Description:  e.Description,
			GenericEvent: e.Type,
		})
	}
	return events
}
