package handlers

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/klauern/hookrelay/internal/config"
	"github.com/klauern/hookrelay/internal/constants"
	"github.com/klauern/hookrelay/internal/core"
)

// Notifier shows a desktop notification
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// DesktopNotifier uses notify-send on Linux and osascript on macOS
type DesktopNotifier struct {
	Executor CommandExecutor
	// GOOS overrides runtime.GOOS for tests
	GOOS string
}

// Notify shows the notification, or returns an error on unsupported platforms
func (n DesktopNotifier) Notify(ctx context.Context, title, body string) error {
	goos := n.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	var req CommandRequest
	switch goos {
	case "linux", "freebsd", "openbsd":
		req = CommandRequest{Name: "notify-send", Args: []string{"--app-name=" + constants.AppName, title, body}}
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(body), appleScriptString(title))
		req = CommandRequest{Name: "osascript", Args: []string{"-e", script}}
	default:
		return fmt.Errorf("desktop notifications are not supported on %s", goos)
	}

	result, err := n.Executor.Execute(ctx, req)
	if err != nil {
		if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
			return fmt.Errorf("%s: %s", req.Name, stderr)
		}
		return fmt.Errorf("%s: %w", req.Name, err)
	}
	return nil
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// notifyHandler renders its title and body from the event and notifies
type notifyHandler struct {
	cfg      config.HandlerConfig
	notifier Notifier
}

func (h *notifyHandler) Name() string { return h.cfg.DisplayName() }

func (h *notifyHandler) Handle(ctx context.Context, hook core.Hook, e *core.Event) core.HandlerOutcome {
	title := RenderTemplate(h.cfg.Title, e)
	if title == "" {
		title = fmt.Sprintf("%s: %s", constants.AppName, hook.HookType())
	}
	body := RenderTemplate(h.cfg.Body, e)

	if err := h.notifier.Notify(ctx, title, body); err != nil {
		return core.Failure(fmt.Sprintf("%s: %v", h.Name(), err))
	}
	return core.Success()
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// RenderTemplate replaces {{field.path}} placeholders with string values from
// the event. Missing or non-string fields render as empty.
func RenderTemplate(tmpl string, e *core.Event) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(m string) string {
		path := placeholderPattern.FindStringSubmatch(m)[1]
		v, _ := e.GetNestedString(path)
		return v
	})
}
