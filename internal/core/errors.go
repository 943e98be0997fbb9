package core

import (
	"errors"
	"fmt"
)

// ErrNoHookType is wrapped by a ResolutionError when an event carries neither
// a hook_event_name nor a recognized OpenCode identity.
var ErrNoHookType = errors.New("no hook_event_name or recognized vendor event type found")

// ErrUnknownHookType is wrapped by a ResolutionError for names outside the
// hook type enumeration.
var ErrUnknownHookType = errors.New("unknown hook type")

// ParseError reports malformed or non-object event JSON.
type ParseError struct {
	// Location points at the offending token: "$" for a bad root value, or
	// the path being read plus its position, e.g. "$.tool.name (line 1, column 19)".
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse event JSON at %s: %v", e.Location, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ResolutionError reports that no hook type could be determined for an event.
type ResolutionError struct {
	// Name is the rejected hook type name, empty when none was found.
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Name == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Name)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ConstructionError reports that a hook type was resolved but the event lacks
// fields the variant needs.
type ConstructionError struct {
	HookType EventType
	Err      error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct %s hook: %v", e.HookType, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
