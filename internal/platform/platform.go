// Package platform describes the agent tools that produce hook events and
// how their event names line up with hookrelay's hook types.
package platform

import "github.com/klauern/hookrelay/internal/core"

// Type identifies an event producer
type Type string

const (
	ClaudeCode Type = "claudecode"
	OpenCode   Type = "opencode"
)

// Platform is an agent tool that emits hook events
type Platform interface {
	// Type returns the platform type
	Type() Type

	// Name returns the human-readable platform name
	Name() string

	// SupportsEvent returns true if the platform emits the given hook type
	SupportsEvent(event core.EventType) bool

	// MapEventFromGeneric maps a hook type to the platform's event name(s).
	// OpenCode can name one hook type several ways.
	MapEventFromGeneric(event core.EventType) []string

	// MapEventToGeneric maps a platform event name to its hook type
	MapEventToGeneric(platformEvent string) (core.EventType, bool)

	// AllEvents returns all events the platform emits
	AllEvents() []PlatformEvent
}

// PlatformEvent is one platform-specific event name
type PlatformEvent struct {
	Name         string
	Description  string
	GenericEvent core.EventType
}

// Detector determines which platform produced an event
type Detector interface {
	DetectType(e *core.Event) (Type, error)
}
