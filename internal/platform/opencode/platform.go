package opencode

import (
	"github.com/klauern/hookrelay/internal/core"
	"github.com/klauern/hookrelay/internal/platform"
)

// OpenCodePlatform implements Platform for OpenCode, whose events are named
// with dotted identities such as tool.execute.before.
type OpenCodePlatform struct{}

// New creates a new OpenCode platform instance
func New() platform.Platform {
	return &OpenCodePlatform{}
}

func (p *OpenCodePlatform) Type() platform.Type {
	return platform.OpenCode
}

func (p *OpenCodePlatform) Name() string {
	return "OpenCode"
}

// SupportsEvent returns true if some OpenCode identity maps to the hook type
func (p *OpenCodePlatform) SupportsEvent(event core.EventType) bool {
	return len(core.OpenCodeAliases(event)) > 0
}

// MapEventFromGeneric returns every OpenCode identity for the hook type
func (p *OpenCodePlatform) MapEventFromGeneric(event core.EventType) []string {
	return core.OpenCodeAliases(event)
}

func (p *OpenCodePlatform) MapEventToGeneric(platformEvent string) (core.EventType, bool) {
	return core.MapOpenCodeEvent(platformEvent)
}

// AllEvents lists one entry per OpenCode identity, in hook type order
func (p *OpenCodePlatform) AllEvents() []platform.PlatformEvent {
	var events []platform.PlatformEvent
	for _, e := range core.AllEvents() {
		for _, alias := range core.OpenCodeAliases(e.Type) {
			events = append(events, platform.PlatformEvent{
				Name:         alias,
				Description:  e.Description,
				GenericEvent: e.Type,
			})
		}
	}
	return events
}
