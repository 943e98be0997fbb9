package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// CommandRequest describes one external process invocation
type CommandRequest struct {
	Name    string
	Args    []string
	Stdin   []byte
	Env     []string // full environment; nil inherits the parent's
	Dir     string
	Timeout time.Duration
}

// CommandResult captures what a process produced
type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CommandExecutor runs external processes. The error is non-nil when the
// process could not start, exited non-zero or timed out.
type CommandExecutor interface {
	Execute(ctx context.Context, req CommandRequest) (CommandResult, error)
}

// ExecExecutor runs commands with os/exec
type ExecExecutor struct{}

// Execute runs the request, honoring its timeout on top of ctx.
func (ExecExecutor) Execute(ctx context.Context, req CommandRequest) (CommandResult, error) {
	cmdCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(cmdCtx, req.Name, req.Args...) // #nosec G204 -- user-configured command execution is intentional
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if req.Stdin != nil {
		cmd.Stdin = bytes.NewReader(req.Stdin)
	}
	cmd.Env = req.Env
	cmd.Dir = req.Dir

	err := cmd.Run()
	result := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return result, nil
	}

	if req.Timeout > 0 && errors.Is(cmdCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		return result, fmt.Errorf("command timed out after %s", req.Timeout)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = 1
	}
	return result, err
}
