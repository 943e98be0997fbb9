package core

import (
	"errors"
	"sort"

	"github.com/klauern/hookrelay/internal/constants"
)

// HookFactory constructs a hook variant for a resolved hook type
type HookFactory func(name EventType, e *Event) (Hook, error)

// hookFactories is the exhaustive table of hook types. A name missing here is
// an unknown hook type.
var hookFactories = map[EventType]HookFactory{
	StopEvent:              newStopHook,
	SubagentStopEvent:      newStopHook,
	NotificationEvent:      func(EventType, *Event) (Hook, error) { return &NotificationHook{}, nil },
	PreToolUseEvent:        newPreToolUseHook,
	PostToolUseEvent:       newPostToolUseHook,
	PermissionRequestEvent: newPermissionRequestHook,
	UserPromptSubmitEvent:  func(EventType, *Event) (Hook, error) { return &UserPromptSubmitHook{}, nil },
	SessionStartEvent:      func(EventType, *Event) (Hook, error) { return &SessionStartHook{}, nil },
	SessionEndEvent:        func(EventType, *Event) (Hook, error) { return &SessionEndHook{}, nil },
	PreCompactEvent:        func(EventType, *Event) (Hook, error) { return &PreCompactHook{}, nil },
	FileEditedEvent:        func(EventType, *Event) (Hook, error) { return &FileEditedHook{}, nil },
	SessionErrorEvent:      func(EventType, *Event) (Hook, error) { return &SessionErrorHook{}, nil },
}

// Resolve determines the hook type of an event and constructs its variant.
//
// An explicit hook_event_name is used verbatim. Otherwise the OpenCode
// identity fields are consulted.
func Resolve(e *Event) (Hook, error) {
	name, err := ResolveName(e)
	if err != nil {
		return nil, err
	}
	return Construct(name, e)
}

// ResolveName returns the hook type name of an event without constructing it.
func ResolveName(e *Event) (string, error) {
	if name, ok := e.HookEventName(); ok {
		return name, nil
	}
	if identity, ok := DetectOpenCodeEvent(e.data); ok {
		if mapped, ok := MapOpenCodeEvent(identity); ok {
			return string(mapped), nil
		}
	}
	return "", &ResolutionError{Err: ErrNoHookType}
}

// Construct builds the hook variant registered for name.
func Construct(name string, e *Event) (Hook, error) {
	t := EventType(name)
	factory, ok := hookFactories[t]
	if !ok {
		return nil, &ResolutionError{Name: name, Err: ErrUnknownHookType}
	}
	return factory(t, e)
}

// HookTypes returns all registered hook type names in sorted order
func HookTypes() []string {
	keys := make([]string, 0, len(hookFactories))
	for k := range hookFactories {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

func newStopHook(name EventType, _ *Event) (Hook, error) {
	return &StopHook{name: name}, nil
}

func newPreToolUseHook(_ EventType, e *Event) (Hook, error) {
	tool, ok := ToolName(e)
	if !ok {
		return nil, &ConstructionError{
			HookType: PreToolUseEvent,
			Err:      errors.New("event has no tool identity (tool_name, tool or tool.name)"),
		}
	}
	return &PreToolUseHook{ToolName: tool, Input: decodeToolInput(e, tool)}, nil
}

func newPostToolUseHook(_ EventType, e *Event) (Hook, error) {
	tool, _ := ToolName(e)
	return &PostToolUseHook{ToolName: tool, Input: decodeToolInput(e, tool)}, nil
}

func newPermissionRequestHook(_ EventType, e *Event) (Hook, error) {
	tool, _ := ToolName(e)
	return &PermissionRequestHook{ToolName: tool}, nil
}

// ToolName extracts the tool identity from an event. Claude Code sends
// tool_name; OpenCode sends tool either as a string or as an object with a
// name field.
func ToolName(e *Event) (string, bool) {
	if name, ok := e.GetString(constants.FieldToolName); ok && name != "" {
		return name, true
	}
	if name, ok := e.GetString("tool"); ok && name != "" {
		return name, true
	}
	if name, ok := e.GetNestedString("tool.name"); ok && name != "" {
		return name, true
	}
	return "", false
}
