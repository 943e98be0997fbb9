package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauern/hookrelay/internal/constants"
)

// Producer identifies which assistant emitted an event.
type Producer string

const (
	// ProducerUnknown is used when no hook type could be determined.
	ProducerUnknown Producer = ""
	// ProducerClaudeCode events arrive with an explicit hook_event_name.
	ProducerClaudeCode Producer = "claudecode"
	// ProducerOpenCode events carry a dotted identity that was normalized.
	ProducerOpenCode Producer = "opencode"
)

// Event is a hook event received on stdin.
//
// Events are flexible JSON objects. Fields are kept as decoded so that unknown
// fields survive and handlers can see the raw payload. OpenCode events are
// normalized at parse time: a hook_event_name field is injected so matchers
// written against Claude Code events work for both producers.
type Event struct {
	data     map[string]any
	producer Producer
}

// ParseEvent decodes a single JSON object and normalizes it.
func ParseEvent(text string) (*Event, error) {
	data, err := decodeObject(text)
	if err != nil {
		return nil, err
	}
	return NewEvent(data), nil
}

// NewEvent wraps already-decoded fields and normalizes them.
// The map is owned by the returned Event.
func NewEvent(data map[string]any) *Event {
	if data == nil {
		data = map[string]any{}
	}
	e := &Event{data: data}
	if _, ok := e.HookEventName(); ok {
		e.producer = ProducerClaudeCode
	}
	e.Normalize()
	return e
}

// Normalize injects hook_event_name for OpenCode events. It never touches an
// event that already has hook_event_name, so repeated calls are no-ops.
func (e *Event) Normalize() {
	if _, exists := e.data[constants.FieldHookEventName]; exists {
		return
	}
	identity, ok := DetectOpenCodeEvent(e.data)
	if !ok {
		return
	}
	if mapped, ok := MapOpenCodeEvent(identity); ok {
		e.data[constants.FieldHookEventName] = string(mapped)
		e.producer = ProducerOpenCode
	}
}

// Producer reports which assistant emitted the event.
func (e *Event) Producer() Producer {
	return e.producer
}

// HookEventName returns the hook_event_name field, original or injected.
func (e *Event) HookEventName() (string, bool) {
	return e.GetString(constants.FieldHookEventName)
}

// GetString returns a top-level string field.
func (e *Event) GetString(key string) (string, bool) {
	s, ok := e.data[key].(string)
	return s, ok
}

// GetNestedString returns a string at a dotted path such as "tool.name".
// Any missing or non-object segment yields ("", false).
func (e *Event) GetNestedString(path string) (string, bool) {
	v, ok := e.lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Has reports whether a top-level field is present.
func (e *Event) Has(key string) bool {
	_, ok := e.data[key]
	return ok
}

func (e *Event) lookup(path string) (any, bool) {
	var current any = e.data
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Value returns a deep copy of the full event payload.
func (e *Event) Value() map[string]any {
	return copyValue(e.data).(map[string]any)
}

// Field returns a deep copy of a single top-level field.
func (e *Event) Field(key string) (any, bool) {
	v, ok := e.data[key]
	if !ok {
		return nil, false
	}
	return copyValue(v), true
}

// MarshalJSON encodes the event payload, including any injected fields.
func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.data)
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = copyValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = copyValue(inner)
		}
		return out
	default:
		return v
	}
}

// decodeObject decodes text into a JSON object, reporting where it failed.
func decodeObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Location: "$", Err: errors.New("empty input")}
		}
		return nil, &ParseError{Location: locate(text, err), Err: err}
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &ParseError{
			Location: "$",
			Err:      fmt.Errorf("expected a JSON object, got %s", jsonKind(root)),
		}
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		offset := dec.InputOffset()
		return nil, &ParseError{
			Location: "$ (" + position(text, offset) + ")",
			Err:      errors.New("unexpected data after top-level object"),
		}
	}
	return obj, nil
}

func locate(text string, err error) string {
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("%s (%s)", pathAt(text), position(text, syntaxErr.Offset))
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Sprintf("%s (%s)", pathAt(text), position(text, int64(len(text))))
	}
	return "$"
}

// pathFrame is one open object or array while replaying tokens.
type pathFrame struct {
	array   bool
	index   int
	done    bool // array element at index is complete
	key     string
	wantKey bool
}

func (f *pathFrame) beginValue() {
	if f.array {
		f.index++
		f.done = false
	}
}

func (f *pathFrame) endValue() {
	if f.array {
		f.done = true
	} else {
		f.wantKey = true
	}
}

// pathAt replays text token by token and returns the path of the value that
// was being read when tokenizing stopped, such as "$.tool.name" or "$.a[1].b".
func pathAt(text string) string {
	dec := json.NewDecoder(strings.NewReader(text))
	var stack []pathFrame

walk:
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		var top *pathFrame
		if n := len(stack); n > 0 {
			top = &stack[n-1]
		}

		switch v := tok.(type) {
		case json.Delim:
			if v == '{' || v == '[' {
				if top != nil {
					top.beginValue()
				}
				stack = append(stack, pathFrame{array: v == '[', index: -1, wantKey: v == '{'})
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				break walk
			}
			stack[len(stack)-1].endValue()
		default:
			if top == nil {
				break walk
			}
			if key, ok := v.(string); ok && top.wantKey {
				top.key, top.wantKey = key, false
				continue
			}
			top.beginValue()
			top.endValue()
		}
	}

	var b strings.Builder
	b.WriteString("$")
	for _, f := range stack {
		switch {
		case f.array:
			i := f.index
			if f.done || i < 0 {
				i++
			}
			fmt.Fprintf(&b, "[%d]", i)
		case !f.wantKey:
			b.WriteString("." + f.key)
		}
	}
	return b.String()
}

// position renders a byte offset as a 1-based line and column.
func position(text string, offset int64) string {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	prefix := []byte(text[:offset])
	line := bytes.Count(prefix, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return fmt.Sprintf("line %d, column %d", line, col)
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
