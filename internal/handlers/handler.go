// Package handlers runs the user-configured handlers selected for an event
// and turns their results into core.HandlerOutcome values.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauern/hookrelay/internal/config"
	"github.com/klauern/hookrelay/internal/core"
)

// Handler does one unit of work for an event
type Handler interface {
	Name() string
	Handle(ctx context.Context, hook core.Hook, e *core.Event) core.HandlerOutcome
}

// commandHandler runs a shell command with the event JSON on stdin
type commandHandler struct {
	cfg      config.HandlerConfig
	executor CommandExecutor
	env      EnvironmentProvider
}

func (h *commandHandler) Name() string { return h.cfg.DisplayName() }

// commandReply is the optional JSON a command prints to report a decision
type commandReply struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

func (h *commandHandler) Handle(ctx context.Context, hook core.Hook, e *core.Event) core.HandlerOutcome {
	payload, err := json.Marshal(e)
	if err != nil {
		return core.Failure(fmt.Sprintf("%s: failed to encode event: %v", h.Name(), err))
	}

	env := os.Environ()
	for k, v := range h.env.GetEnvironment(hook, e) {
		env = append(env, k+"="+v)
	}
	for k, v := range h.cfg.Env {
		env = append(env, k+"="+v)
	}

	result, err := h.executor.Execute(ctx, CommandRequest{
		Name:    "sh",
		Args:    []string{"-c", h.cfg.Run},
		Stdin:   payload,
		Env:     env,
		Dir:     h.cfg.WorkDir,
		Timeout: time.Duration(h.cfg.Timeout) * time.Second,
	})
	if err != nil {
		if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
			return core.Failure(fmt.Sprintf("%s: %s", h.Name(), stderr))
		}
		return core.Failure(fmt.Sprintf("%s: %v", h.Name(), err))
	}

	out := strings.TrimSpace(result.Stdout)
	if !strings.HasPrefix(out, "{") {
		return core.Success()
	}

	var reply commandReply
	if err := json.Unmarshal([]byte(out), &reply); err != nil {
		return core.Failure(fmt.Sprintf("%s: returned invalid JSON: %v", h.Name(), err))
	}
	if reply.Decision == "" {
		return core.Success()
	}
	decision, err := core.ParsePermissionDecision(reply.Decision)
	if err != nil {
		return core.Failure(fmt.Sprintf("%s: %v", h.Name(), err))
	}
	return core.Interactive(decision, reply.Reason)
}

// decisionHandler reports a fixed permission decision
type decisionHandler struct {
	name     string
	decision core.PermissionDecision
	reason   string
}

func newDecisionHandler(cfg config.HandlerConfig) (*decisionHandler, error) {
	d, err := core.ParsePermissionDecision(cfg.Decision)
	if err != nil {
		return nil, err
	}
	return &decisionHandler{name: cfg.DisplayName(), decision: d, reason: cfg.Reason}, nil
}

func (h *decisionHandler) Name() string { return h.name }

func (h *decisionHandler) Handle(context.Context, core.Hook, *core.Event) core.HandlerOutcome {
	return core.Interactive(h.decision, h.reason)
}
