package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/klauern/hookrelay/internal/config"
	"github.com/klauern/hookrelay/internal/core"
)

func resolve(t *testing.T, input string) (core.Hook, *core.Event) {
	t.Helper()
	e, err := core.ParseEvent(input)
	if err != nil {
		t.Fatalf("ParseEvent() error = %v", err)
	}
	hook, err := core.Resolve(e)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return hook, e
}

const bashEvent = `{"hook_event_name":"PreToolUse","tool_name":"Bash","session_id":"s1","cwd":"/work","tool_input":{"command":"rm -rf build"}}`

func TestCommandHandler(t *testing.T) {
	hook, e := resolve(t, bashEvent)

	tests := []struct {
		name     string
		response MockCommandResponse
		want     core.HandlerOutcome
	}{
		{
			name: "exit zero without output",
			want: core.Success(),
		},
		{
			name:     "plain text output is ignored",
			response: MockCommandResponse{Result: CommandResult{Stdout: "all good\n"}},
			want:     core.Success(),
		},
		{
			name:     "decision reply",
			response: MockCommandResponse{Result: CommandResult{Stdout: `{"decision":"DENY","reason":"not here"}`}},
			want:     core.Interactive(core.DecisionDeny, "not here"),
		},
		{
			name:     "json without decision",
			response: MockCommandResponse{Result: CommandResult{Stdout: `{"ok":true}`}},
			want:     core.Success(),
		},
		{
			name:     "invalid json",
			response: MockCommandResponse{Result: CommandResult{Stdout: `{"decision":`}},
			want:     core.Failure("guard: returned invalid JSON: unexpected end of JSON input"),
		},
		{
			name:     "invalid decision",
			response: MockCommandResponse{Result: CommandResult{Stdout: `{"decision":"maybe"}`}},
			want:     core.Failure(`guard: invalid permission decision "maybe" (valid: allow, deny, ask)`),
		},
		{
			name: "non-zero exit uses stderr",
			response: MockCommandResponse{
				Result: CommandResult{Stderr: "boom\n", ExitCode: 2},
				Error:  errors.New("exit status 2"),
			},
			want: core.Failure("guard: boom"),
		},
		{
			name: "non-zero exit without stderr",
			response: MockCommandResponse{
				Result: CommandResult{ExitCode: 1},
				Error:  errors.New("exit status 1"),
			},
			want: core.Failure("guard: exit status 1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := NewMockCommandExecutor()
			exec.Responses["sh -c ./guard.sh"] = tt.response
			h := &commandHandler{
				cfg:      config.HandlerConfig{Name: "guard", Type: config.HandlerCommand, Run: "./guard.sh"},
				executor: exec,
				env:      NewEventEnvironmentProvider(""),
			}

			got := h.Handle(context.Background(), hook, e)
			if got != tt.want {
				t.Errorf("Handle() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCommandHandlerRequest(t *testing.T) {
	hook, e := resolve(t, `{"type":"tool.execute.before","tool":{"name":"bash"},"session_id":"s9"}`)

	exec := NewMockCommandExecutor()
	h := &commandHandler{
		cfg: config.HandlerConfig{
			Type:    config.HandlerCommand,
			Run:     "cat",
			Timeout: 3,
			WorkDir: "/tmp",
			Env:     map[string]string{"EXTRA": "1"},
		},
		executor: exec,
		env:      NewEventEnvironmentProvider("/project"),
	}
	h.Handle(context.Background(), hook, e)

	req := exec.Last()
	if req.Name != "sh" || !slices.Equal(req.Args, []string{"-c", "cat"}) {
		t.Errorf("unexpected command: %s %v", req.Name, req.Args)
	}
	if req.Dir != "/tmp" || req.Timeout.Seconds() != 3 {
		t.Errorf("Dir/Timeout = %q/%v", req.Dir, req.Timeout)
	}

	var stdin map[string]any
	if err := json.Unmarshal(req.Stdin, &stdin); err != nil {
		t.Fatalf("stdin is not JSON: %v", err)
	}
	if stdin["hook_event_name"] != "PreToolUse" {
		t.Errorf("stdin should carry the injected hook_event_name, got %v", stdin["hook_event_name"])
	}

	for _, want := range []string{
		"HOOK_EVENT_NAME=PreToolUse",
		"TOOL_NAME=bash",
		"SESSION_ID=s9",
		"HOOK_PRODUCER=opencode",
		"PROJECT_ROOT=/project",
		"EXTRA=1",
	} {
		if !slices.Contains(req.Env, want) {
			t.Errorf("environment missing %s", want)
		}
	}
}

func TestEventEnvironment(t *testing.T) {
	hook, e := resolve(t, `{"hook_event_name":"PostToolUse","tool_name":"Edit","cwd":"/repo","tool_input":{"file_path":"a.go"}}`)
	env := NewEventEnvironmentProvider("/ignored").GetEnvironment(hook, e)

	want := map[string]string{
		EnvHookEventName: "PostToolUse",
		EnvToolName:      "Edit",
		EnvProjectRoot:   "/repo",
		EnvFilePath:      "a.go",
		EnvProducer:      "claudecode",
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("%s = %q, want %q", k, env[k], v)
		}
	}
	if _, ok := env[EnvSessionID]; ok {
		t.Error("SESSION_ID should be absent when the event has none")
	}

	hook, e = resolve(t, bashEvent)
	env = NewEventEnvironmentProvider("").GetEnvironment(hook, e)
	if env[EnvToolCommand] != "rm -rf build" {
		t.Errorf("TOOL_COMMAND = %q, want the typed Bash command", env[EnvToolCommand])
	}
	if _, ok := env[EnvFilePath]; ok {
		t.Error("FILE_PATH should be absent for Bash")
	}

	hook, e = resolve(t, `{"hook_event_name":"PreToolUse","tool_name":"Write","tool_input":{"file_path":"out.txt","content":"hi"}}`)
	env = NewEventEnvironmentProvider("").GetEnvironment(hook, e)
	if env[EnvFilePath] != "out.txt" {
		t.Errorf("FILE_PATH = %q, want out.txt", env[EnvFilePath])
	}
	if _, ok := env[EnvToolCommand]; ok {
		t.Error("TOOL_COMMAND should be absent for Write")
	}

	hook, e = resolve(t, `{"hook_event_name":"UserPromptSubmit","prompt":"fix the tests"}`)
	env = NewEventEnvironmentProvider("").GetEnvironment(hook, e)
	if env[EnvUserPrompt] != "fix the tests" {
		t.Errorf("USER_PROMPT = %q", env[EnvUserPrompt])
	}
	if env[EnvProjectRoot] == "" {
		t.Error("PROJECT_ROOT should fall back to the working directory")
	}
}

func TestDecisionHandler(t *testing.T) {
	hook, e := resolve(t, bashEvent)

	h, err := newDecisionHandler(config.HandlerConfig{Type: config.HandlerDecision, Decision: " Ask ", Reason: "confirm"})
	if err != nil {
		t.Fatalf("newDecisionHandler() error = %v", err)
	}
	if h.Name() != config.HandlerDecision {
		t.Errorf("Name() = %q", h.Name())
	}
	if got := h.Handle(context.Background(), hook, e); got != core.Interactive(core.DecisionAsk, "confirm") {
		t.Errorf("Handle() = %+v", got)
	}

	if _, err := newDecisionHandler(config.HandlerConfig{Decision: "never"}); err == nil {
		t.Error("expected error for invalid decision")
	}
}

func TestRenderTemplate(t *testing.T) {
	_, e := resolve(t, `{"hook_event_name":"Notification","message":"needs input","session_id":"abc","tool":{"name":"bash"},"n":3}`)

	tests := []struct {
		tmpl string
		want string
	}{
		{"plain", "plain"},
		{"{{message}}", "needs input"},
		{"[{{ session_id }}] {{tool.name}}", "[abc] bash"},
		{"missing: {{nope}}", "missing: "},
		{"number: {{n}}", "number: "},
		{"{{hook_event_name}}", "Notification"},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			if got := RenderTemplate(tt.tmpl, e); got != tt.want {
				t.Errorf("RenderTemplate(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestNotifyHandler(t *testing.T) {
	hook, e := resolve(t, `{"hook_event_name":"Stop","session_id":"s1"}`)

	n := &mockNotifier{}
	h := &notifyHandler{cfg: config.HandlerConfig{Type: config.HandlerNotify, Body: "session {{session_id}} stopped"}, notifier: n}
	if got := h.Handle(context.Background(), hook, e); got != core.Success() {
		t.Fatalf("Handle() = %+v", got)
	}
	if len(n.sent) != 1 || n.sent[0].title != "hookrelay: Stop" || n.sent[0].body != "session s1 stopped" {
		t.Errorf("unexpected notification: %+v", n.sent)
	}

	n.err = errors.New("no display")
	got := h.Handle(context.Background(), hook, e)
	if got.Kind != core.OutcomeError || got.Message != "notify: no display" {
		t.Errorf("Handle() = %+v", got)
	}
}

func TestDesktopNotifier(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArg  string
		wantErr  bool
	}{
		{goos: "linux", wantName: "notify-send", wantArg: "Done"},
		{goos: "darwin", wantName: "osascript", wantArg: `display notification "say \"hi\"" with title "Done"`},
		{goos: "windows", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			exec := NewMockCommandExecutor()
			err := DesktopNotifier{Executor: exec, GOOS: tt.goos}.Notify(context.Background(), "Done", `say "hi"`)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if len(exec.Requests) != 0 {
					t.Error("no command should run on unsupported platforms")
				}
				return
			}
			if err != nil {
				t.Fatalf("Notify() error = %v", err)
			}
			req := exec.Last()
			if req.Name != tt.wantName || !slices.Contains(req.Args, tt.wantArg) {
				t.Errorf("request = %s %v", req.Name, req.Args)
			}
		})
	}

	t.Run("failure surfaces stderr", func(t *testing.T) {
		exec := NewMockCommandExecutor()
		exec.Responses["notify-send --app-name=hookrelay t b"] = MockCommandResponse{
			Result: CommandResult{Stderr: "cannot open display", ExitCode: 1},
			Error:  errors.New("exit status 1"),
		}
		err := DesktopNotifier{Executor: exec, GOOS: "linux"}.Notify(context.Background(), "t", "b")
		if err == nil || !strings.Contains(err.Error(), "cannot open display") {
			t.Errorf("Notify() error = %v", err)
		}
	})
}

func TestArchiveHandler(t *testing.T) {
	hook, e := resolve(t, `{"event":"file.edited","path":"main.go"}`)

	s := &mockStore{}
	h := &archiveHandler{name: "archive", store: s, now: fixedNow}
	if got := h.Handle(context.Background(), hook, e); got != core.Success() {
		t.Fatalf("Handle() = %+v", got)
	}
	if len(s.docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(s.docs))
	}
	doc := s.docs[0]
	if doc.HookType != "FileEdited" || doc.Producer != "opencode" {
		t.Errorf("HookType/Producer = %q/%q", doc.HookType, doc.Producer)
	}
	if doc.Data["hook_event_name"] != "FileEdited" {
		t.Errorf("document data should include the injected name: %v", doc.Data)
	}

	s.err = errors.New("connection refused")
	got := h.Handle(context.Background(), hook, e)
	if got != core.Failure("archive: connection refused") {
		t.Errorf("Handle() = %+v", got)
	}
}
