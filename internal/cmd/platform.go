package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauern/hookrelay/internal/core"
	"github.com/klauern/hookrelay/internal/platform"
	"github.com/klauern/hookrelay/internal/platform/claude"
	"github.com/klauern/hookrelay/internal/platform/opencode"
	"github.com/urfave/cli/v3"
)

// NewPlatformCmd creates the platform command with subcommands
func NewPlatformCmd(s Streams) *cli.Command {
	return &cli.Command{
		Name:        "platform",
		Usage:       "Producer detection and information",
		Description: `Identify which agent tool produced an event (Claude Code or OpenCode) and show the events each one sends.`,
		Commands: []*cli.Command{
			newPlatformDetectCommand(s),
			newPlatformInfoCommand(s),
		},
	}
}

func newPlatform(t platform.Type) (platform.Platform, error) {
	switch t {
	case platform.ClaudeCode:
		return claude.New(), nil
	case platform.OpenCode:
		return opencode.New(), nil
	default:
		return nil, fmt.Errorf("unknown platform type: %s", t)
	}
}

// newPlatformDetectCommand creates the detect subcommand
func newPlatformDetectCommand(s Streams) *cli.Command {
	return &cli.Command{
		Name:        "detect",
		Usage:       "Identify the producer and hook type of an event",
		Description: `Read an event from --file or stdin and report which producer sent it and the hook type it resolves to. No handlers run.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read the event from a file instead of stdin",
			},
			&cli.StringFlag{
				Name:  "project-dir",
				Usage: "Directory checked for .opencode or .claude when the event carries no identity",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			data, err := readEventInput(s, cmd.String("file"))
			if err != nil {
				return err
			}

			e, err := core.ParseEvent(string(data))
			if err != nil {
				return err
			}

			platformType, err := platform.NewDetector(resolveProjectDir(cmd.String("project-dir"))).DetectType(e)
			if err != nil {
				return fmt.Errorf("failed to detect platform: %w", err)
			}
			p, err := newPlatform(platformType)
			if err != nil {
				return err
			}

			fmt.Fprintf(s.Out, "Platform: %s\n", p.Name())
			fmt.Fprintf(s.Out, "Type: %s\n", p.Type())
			if identity, ok := core.DetectOpenCodeEvent(e.Value()); ok {
				fmt.Fprintf(s.Out, "Identity: %s\n", identity)
			}

			name, err := core.ResolveName(e)
			if err != nil {
				fmt.Fprintf(s.Out, "Hook type: unresolved (%v)\n", err)
				return nil
			}
			if _, err := core.Construct(name, e); err != nil {
				fmt.Fprintf(s.Out, "Hook type: %s (invalid: %v)\n", name, err)
				return nil
			}
			fmt.Fprintf(s.Out, "Hook type: %s\n", name)
			return nil
		},
	}
}

func readEventInput(s Streams, path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 - user-provided path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to read event file: %w", err)
		}
		return data, nil
	}
	if s.interactive() {
		return nil, errors.New("no event on stdin: pipe an event or use --file")
	}
	data, err := io.ReadAll(s.In)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// newPlatformInfoCommand creates the info subcommand
func newPlatformInfoCommand(s Streams) *cli.Command {
	return &cli.Command{
		Name:        "info",
		Usage:       "Show the events a platform sends",
		Description: `Display the event names a platform sends and the hook type each resolves to.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "platform",
				Aliases: []string{"p"},
				Value:   string(platform.ClaudeCode),
				Usage:   "Platform to describe (claudecode, opencode)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			platformType, err := platform.TypeFromString(cmd.String("platform"))
			if err != nil {
				return err
			}
			p, err := newPlatform(platformType)
			if err != nil {
				return err
			}

			fmt.Fprintf(s.Out, "Platform: %s\n", p.Name())
			fmt.Fprintf(s.Out, "Type: %s\n\n", p.Type())
			fmt.Fprintln(s.Out, "Events:")
			for _, event := range p.AllEvents() {
				if event.Name == string(event.GenericEvent) {
					fmt.Fprintf(s.Out, "  - %s: %s\n", event.Name, event.Description)
				} else {
					fmt.Fprintf(s.Out, "  - %s -> %s: %s\n", event.Name, event.GenericEvent, event.Description)
				}
			}
			return nil
		},
	}
}
