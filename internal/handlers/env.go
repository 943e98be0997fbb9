package handlers

import (
	"os"

	"github.com/klauern/hookrelay/internal/constants"
	"github.com/klauern/hookrelay/internal/core"
)

// Environment variable names exported to command handlers
const (
	EnvHookEventName = "HOOK_EVENT_NAME"
	EnvToolName      = "TOOL_NAME"
	EnvSessionID     = "SESSION_ID"
	EnvProjectRoot   = "PROJECT_ROOT"
	EnvProducer      = "HOOK_PRODUCER"
	EnvFilePath      = "FILE_PATH"
	EnvUserPrompt    = "USER_PROMPT"
	EnvToolCommand   = "TOOL_COMMAND"
)

// EnvironmentProvider produces the variables a handler process sees for an event
type EnvironmentProvider interface {
	GetEnvironment(hook core.Hook, e *core.Event) map[string]string
}

// eventEnvironmentProvider reads variables straight from the normalized event
type eventEnvironmentProvider struct {
	projectDir string
}

// NewEventEnvironmentProvider creates a provider that falls back to
// projectDir (or the working directory) when the event carries no cwd.
func NewEventEnvironmentProvider(projectDir string) EnvironmentProvider {
	return &eventEnvironmentProvider{projectDir: projectDir}
}

func (p *eventEnvironmentProvider) GetEnvironment(hook core.Hook, e *core.Event) map[string]string {
	env := map[string]string{
		EnvHookEventName: string(hook.HookType()),
	}
	if producer := e.Producer(); producer != core.ProducerUnknown {
		env[EnvProducer] = string(producer)
	}
	if v, ok := core.ToolName(e); ok {
		env[EnvToolName] = v
	}
	if v, ok := e.GetString(constants.FieldSessionID); ok && v != "" {
		env[EnvSessionID] = v
	}
	if v, ok := e.GetNestedString(constants.FieldToolInput + ".file_path"); ok && v != "" {
		env[EnvFilePath] = v
	}
	// Typed tool input wins over the raw payload lookup
	details := core.ToolDetails(hook)
	if v := details["file_path"]; v != "" {
		env[EnvFilePath] = v
	}
	if v := details["command"]; v != "" {
		env[EnvToolCommand] = v
	}
	if v, ok := e.GetString("prompt"); ok && v != "" {
		env[EnvUserPrompt] = v
	}

	switch {
	case hasString(e, constants.FieldCWD):
		env[EnvProjectRoot], _ = e.GetString(constants.FieldCWD)
	case p.projectDir != "":
		env[EnvProjectRoot] = p.projectDir
	default:
		if wd, err := os.Getwd(); err == nil {
			env[EnvProjectRoot] = wd
		}
	}
	return env
}

func hasString(e *core.Event, key string) bool {
	v, ok := e.GetString(key)
	return ok && v != ""
}
