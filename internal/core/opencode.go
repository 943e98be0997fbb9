package core

import (
	"sort"
	"strings"
)

// OpenCode event identities. OpenCode names its lifecycle events with dotted
// strings instead of the hook_event_name field Claude Code sends.
const (
	OpenCodeToolExecuteBefore = "tool.execute.before"
	OpenCodeToolExecuteAfter  = "tool.execute.after"
	OpenCodeSessionIdle       = "session.idle"
	OpenCodeSessionCreated    = "session.created"
	OpenCodeSessionDeleted    = "session.deleted"
	OpenCodeSessionCompleted  = "session.completed"
	OpenCodeSessionCompacted  = "session.compacted"
	OpenCodeSessionCompacting = "session.compacting"
	OpenCodeFileEdited        = "file.edited"
	OpenCodeSessionError      = "session.error"
)

var openCodeEventMap = map[string]EventType{
	OpenCodeToolExecuteBefore: PreToolUseEvent,
	OpenCodeToolExecuteAfter:  PostToolUseEvent,
	OpenCodeSessionIdle:       StopEvent,
	OpenCodeSessionCreated:    SessionStartEvent,
	OpenCodeSessionDeleted:    SessionEndEvent,
	OpenCodeSessionCompleted:  StopEvent,
	OpenCodeSessionCompacted:  PreCompactEvent,
	OpenCodeSessionCompacting: PreCompactEvent,
	OpenCodeFileEdited:        FileEditedEvent,
	OpenCodeSessionError:      SessionErrorEvent,
}

// identityField pairs an event field with the check its value must pass to
// count as an OpenCode identity.
type identityField struct {
	name  string
	valid func(value any) (string, bool)
}

// openCodeIdentityFields is evaluated in order; the first match wins.
var openCodeIdentityFields = []identityField{
	{name: "type", valid: openCodeIdentity},
	{name: "event", valid: openCodeIdentity},
	{name: "hook", valid: openCodeIdentity},
}

// MapOpenCodeEvent maps a dotted OpenCode identity to its internal hook type.
func MapOpenCodeEvent(identity string) (EventType, bool) {
	t, ok := openCodeEventMap[identity]
	return t, ok
}

// DetectOpenCodeEvent returns the OpenCode identity carried by fields, if any.
//
// The type, event and hook fields are checked in that order. Only string
// values containing a dot that map to a known hook type are accepted.
func DetectOpenCodeEvent(fields map[string]any) (string, bool) {
	for _, f := range openCodeIdentityFields {
		value, ok := fields[f.name]
		if !ok {
			continue
		}
		if identity, ok := f.valid(value); ok {
			return identity, true
		}
	}
	return "", false
}

func openCodeIdentity(value any) (string, bool) {
	s, ok := value.(string)
	if !ok || !strings.Contains(s, ".") {
		return "", false
	}
	if _, known := MapOpenCodeEvent(s); !known {
		return "", false
	}
	return s, true
}

// OpenCodeAliases returns the OpenCode identities that map onto a hook type,
// sorted for stable output.
func OpenCodeAliases(t EventType) []string {
	var aliases []string
	for identity, mapped := range openCodeEventMap {
		if mapped == t {
			aliases = append(aliases, identity)
		}
	}
	sort.Strings(aliases)
	return aliases
}
