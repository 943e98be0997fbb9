package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/hookrelay/internal/config"
	"github.com/klauern/hookrelay/internal/core"
	"github.com/klauern/hookrelay/internal/handlers"
	"github.com/urfave/cli/v3"
)

// ProjectDirEnvVar is set by Claude Code to the project root
const ProjectDirEnvVar = "CLAUDE_PROJECT_DIR"

type runOptions struct {
	ConfigPath string
	Log        bool
	LogFormat  string
	DryRun     bool
	ProjectDir string
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file to use instead of discovery (.yml, .yaml or .toml)",
		},
		&cli.BoolFlag{
			Name:    "log",
			Aliases: []string{"l"},
			Value:   false,
			Usage:   "Log each dispatch to .claude/hooks/hookrelay.log",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log output format: jsonl or pretty (default jsonl)",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Value: false,
			Usage: "Resolve the event and report matching rules without running handlers",
		},
		&cli.StringFlag{
			Name:  "project-dir",
			Usage: "Project root for config discovery (default $CLAUDE_PROJECT_DIR or the working directory)",
		},
	}
}

// NewRunCmd creates the run command
func NewRunCmd(s Streams) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Handle one hook event from stdin",
		Description: `Read one JSON event from stdin, resolve its hook type, run the matching
handlers and print the JSON reply. Parse and resolution errors exit 1 with
nothing on stdout.`,
		Flags:  runFlags(),
		Action: runAction(s),
	}
}

func runAction(s Streams) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		return runHook(ctx, s, runOptions{
			ConfigPath: cmd.String("config"),
			Log:        cmd.Bool("log"),
			LogFormat:  cmd.String("log-format"),
			DryRun:     cmd.Bool("dry-run"),
			ProjectDir: cmd.String("project-dir"),
		})
	}
}

func runHook(ctx context.Context, s Streams, opts runOptions) error {
	if s.interactive() {
		return errors.New("no event on stdin: pipe a hook event JSON object into hookrelay")
	}
	if opts.LogFormat != "" && !config.IsValidLoggingFormat(opts.LogFormat) {
		return fmt.Errorf("invalid --log-format '%s'. Valid: jsonl, pretty", opts.LogFormat)
	}

	data, err := io.ReadAll(s.In)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	projectDir := resolveProjectDir(opts.ProjectDir)
	cfg, err := config.Locator{Explicit: opts.ConfigPath, ProjectDir: projectDir}.Load()
	if err != nil {
		return err
	}

	runner, err := handlers.NewRunner(cfg, handlers.Options{ProjectDir: projectDir})
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, closeLog := openEventLog(cfg, opts, projectDir, s.Err)
	defer closeLog()

	d := &core.Dispatcher{Runner: runner, Logger: logger}
	if opts.DryRun {
		d.Runner = nil
	}

	res, err := d.Dispatch(ctx, string(data))
	if err != nil {
		return err
	}

	if opts.DryRun {
		matched := runner.Matches(res.Hook, res.Event)
		if len(matched) == 0 {
			fmt.Fprintf(s.Err, "dry run: %s matched no rules\n", res.Hook.HookType())
		} else {
			fmt.Fprintf(s.Err, "dry run: %s matched %s\n", res.Hook.HookType(), strings.Join(matched, ", "))
		}
	}

	out, err := json.Marshal(res.Response)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	_, err = fmt.Fprintln(s.Out, string(out))
	return err
}

func resolveProjectDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if dir := os.Getenv(ProjectDirEnvVar); dir != "" {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// openEventLog returns a logger when logging is enabled by flag or config.
// Setup failures are reported as warnings; they never fail a dispatch.
func openEventLog(cfg *config.Config, opts runOptions, projectDir string, errOut io.Writer) (*core.EventLogger, func()) {
	lc := cfg.EffectiveLogging()
	if opts.LogFormat != "" {
		lc.Format = opts.LogFormat
	}
	if !opts.Log && !lc.Enabled {
		return nil, func() {}
	}

	dir := lc.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(projectDir, dir)
	}
	rotating, err := config.SetupLogRotation(config.GetLogPath(dir), lc.Rotation)
	if err != nil {
		fmt.Fprintf(errOut, "Warning: logging disabled: %v\n", err)
		return nil, func() {}
	}
	if _, err := config.CleanupOldLogs(dir, lc.Rotation.MaxAge); err != nil {
		fmt.Fprintf(errOut, "Warning: Failed to cleanup old logs: %v\n", err)
	}

	return core.NewEventLogger(rotating, lc.Format), func() { _ = rotating.Close() }
}
