package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseEvent(t *testing.T) {
	event, err := ParseEvent(`{"event_type": "task_complete", "status": "success"}`)
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}

	if got, ok := event.GetString("event_type"); !ok || got != "task_complete" {
		t.Errorf("GetString(event_type) = %q, %v; want task_complete", got, ok)
	}
	if got, ok := event.GetString("status"); !ok || got != "success" {
		t.Errorf("GetString(status) = %q, %v; want success", got, ok)
	}
	if event.Has("hook_event_name") {
		t.Error("event without identity fields should not get hook_event_name")
	}
	if event.Producer() != ProducerUnknown {
		t.Errorf("Producer() = %q, want unknown", event.Producer())
	}
}

func TestParseEventNormalization(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHook   string
		wantInject bool
		preserved  map[string]string
	}{
		{
			name:       "type field tool.execute.before",
			input:      `{"type": "tool.execute.before", "tool": "bash"}`,
			wantHook:   "PreToolUse",
			wantInject: true,
			preserved:  map[string]string{"type": "tool.execute.before", "tool": "bash"},
		},
		{
			name:       "event field session.idle",
			input:      `{"event": "session.idle", "sessionID": "abc123"}`,
			wantHook:   "Stop",
			wantInject: true,
			preserved:  map[string]string{"event": "session.idle", "sessionID": "abc123"},
		},
		{
			name:       "hook field file.edited",
			input:      `{"hook": "file.edited", "file": "src/main.rs"}`,
			wantHook:   "FileEdited",
			wantInject: true,
			preserved:  map[string]string{"hook": "file.edited", "file": "src/main.rs"},
		},
		{
			name:      "claude code event is never renormalized",
			input:     `{"hook_event_name": "Stop", "type": "something"}`,
			wantHook:  "Stop",
			preserved: map[string]string{"type": "something"},
		},
		{
			name:      "claude code event wins over a known dotted identity",
			input:     `{"hook_event_name": "Notification", "type": "session.idle"}`,
			wantHook:  "Notification",
			preserved: map[string]string{"type": "session.idle"},
		},
		{
			name:      "unknown dotted identity",
			input:     `{"type": "unknown.thing", "data": "test"}`,
			preserved: map[string]string{"type": "unknown.thing", "data": "test"},
		},
		{
			name:      "known name without a dot is not an identity",
			input:     `{"type": "Stop"}`,
			preserved: map[string]string{"type": "Stop"},
		},
		{
			name:       "non-string type falls through to event",
			input:      `{"type": 42, "event": "session.created"}`,
			wantHook:   "SessionStart",
			wantInject: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ParseEvent(tt.input)
			if err != nil {
				t.Fatalf("ParseEvent() error = %v", err)
			}

			got, ok := event.HookEventName()
			if tt.wantHook == "" {
				if ok {
					t.Errorf("hook_event_name = %q, want absent", got)
				}
			} else if got != tt.wantHook {
				t.Errorf("hook_event_name = %q, want %q", got, tt.wantHook)
			}

			wantProducer := ProducerUnknown
			switch {
			case tt.wantInject:
				wantProducer = ProducerOpenCode
			case tt.wantHook != "":
				wantProducer = ProducerClaudeCode
			}
			if event.Producer() != wantProducer {
				t.Errorf("Producer() = %q, want %q", event.Producer(), wantProducer)
			}

			for k, want := range tt.preserved {
				if v, _ := event.GetString(k); v != want {
					t.Errorf("field %q = %q, want %q", k, v, want)
				}
			}
		})
	}
}

func TestParseEventFirstIdentityWins(t *testing.T) {
	// type outranks event and hook regardless of their values
	event, err := ParseEvent(`{"hook": "file.edited", "event": "session.idle", "type": "tool.execute.after"}`)
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}
	if got, _ := event.HookEventName(); got != "PostToolUse" {
		t.Errorf("hook_event_name = %q, want PostToolUse", got)
	}

	// an unrecognized type is skipped in favour of a recognized event
	event, err = ParseEvent(`{"type": "unknown.thing", "event": "session.deleted"}`)
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}
	if got, _ := event.HookEventName(); got != "SessionEnd" {
		t.Errorf("hook_event_name = %q, want SessionEnd", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, input := range []string{
		`{"hook_event_name": "Stop", "type": "session.idle"}`,
		`{"type": "tool.execute.before", "tool": "bash"}`,
		`{"type": "unknown.thing"}`,
	} {
		event, err := ParseEvent(input)
		if err != nil {
			t.Fatalf("ParseEvent(%s) error = %v", input, err)
		}
		before := event.Value()
		event.Normalize()
		event.Normalize()
		if !reflect.DeepEqual(before, event.Value()) {
			t.Errorf("Normalize() changed %s: before %v, after %v", input, before, event.Value())
		}
	}
}

func TestParseEventErrors(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantLocation string
	}{
		{name: "invalid json", input: `{"invalid": }`, wantLocation: "$.invalid (line 1, column"},
		{name: "array root", input: `[1, 2, 3]`, wantLocation: "$"},
		{name: "string root", input: `"hello"`, wantLocation: "$"},
		{name: "null root", input: `null`, wantLocation: "$"},
		{name: "empty input", input: ``, wantLocation: "$"},
		{name: "truncated object", input: `{"a": 1`, wantLocation: "$ (line 1"},
		{name: "truncated nested object", input: `{"tool":{"name":"x"`, wantLocation: "$.tool (line 1"},
		{name: "trailing data", input: "{\"a\": 1}\n{\"b\": 2}", wantLocation: "$ (line 2"},
		{name: "error on second line", input: "{\n  \"a\": tru,\n}", wantLocation: "$.a (line 2"},
		{name: "nested field", input: `{"tool":{"name": }}`, wantLocation: "$.tool.name (line 1, column 19)"},
		{name: "inside array element", input: `{"a":[1,{"b":tru}]}`, wantLocation: "$.a[1].b (line 1, column 18)"},
		{name: "bad array item", input: `{"list":["x", nope]}`, wantLocation: "$.list[1] (line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent(tt.input)
			if err == nil {
				t.Fatal("ParseEvent() expected error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if !strings.HasPrefix(parseErr.Location, tt.wantLocation) {
				t.Errorf("Location = %q, want prefix %q", parseErr.Location, tt.wantLocation)
			}
			if !strings.Contains(err.Error(), "failed to parse event JSON") {
				t.Errorf("Error() = %q, want parse prefix", err.Error())
			}
		})
	}
}

func TestParseEventTrailingWhitespace(t *testing.T) {
	if _, err := ParseEvent("{\"hook_event_name\": \"Stop\"}\n\n"); err != nil {
		t.Errorf("trailing whitespace should parse, got %v", err)
	}
}

func TestGetNestedString(t *testing.T) {
	event, err := ParseEvent(`{
		"tool": {"name": "bash", "status": "success", "meta": {"depth": "2"}},
		"list": ["a", "b"],
		"count": 3,
		"flat": "value"
	}`)
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{path: "tool.name", want: "bash", wantOK: true},
		{path: "tool.meta.depth", want: "2", wantOK: true},
		{path: "flat", want: "value", wantOK: true},
		{path: "tool.missing", wantOK: false},
		{path: "missing.name", wantOK: false},
		{path: "flat.deeper", wantOK: false},
		{path: "list.0", wantOK: false},
		{path: "tool", wantOK: false},
		{path: "count", wantOK: false},
		{path: "tool.meta.depth.more", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := event.GetNestedString(tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("GetNestedString(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValueIsACopy(t *testing.T) {
	event, err := ParseEvent(`{"type": "tool.execute.before", "tool": {"name": "bash"}}`)
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}

	v := event.Value()
	if v["hook_event_name"] != "PreToolUse" {
		t.Errorf("Value() should include injected hook_event_name, got %v", v["hook_event_name"])
	}

	v["tool"].(map[string]any)["name"] = "changed"
	if got, _ := event.GetNestedString("tool.name"); got != "bash" {
		t.Errorf("mutating Value() leaked into the event: tool.name = %q", got)
	}
}

func TestParseEventKeepsNumberPrecision(t *testing.T) {
	event, err := ParseEvent(`{"hook_event_name": "Stop", "id": 9007199254740993}`)
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}
	data, err := event.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(data), "9007199254740993") {
		t.Errorf("MarshalJSON() = %s, lost integer precision", data)
	}
}
