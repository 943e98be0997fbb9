package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/klauern/hookrelay/internal/core"
	"github.com/urfave/cli/v3"
)

var (
	colorCyan = lipgloss.Color("#06B6D4")
	colorDim  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)
	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Width(20)
	producerStyle = lipgloss.NewStyle().
			Width(24)
	descriptionStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				PaddingLeft(4)
)

// NewEventsCmd creates the events command
func NewEventsCmd(s Streams) *cli.Command {
	return &cli.Command{
		Name:        "events",
		Usage:       "List hook types and the producers that emit them",
		Description: `List every hook type hookrelay resolves, which producers send it and the OpenCode identities that map onto it.`,
		Action: func(_ context.Context, _ *cli.Command) error {
			return renderEvents(s.Out, core.AllEvents())
		},
	}
}

func renderEvents(w io.Writer, events []core.HookEvent) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Hook types"))
	b.WriteString("\n\n")

	for _, e := range events {
		var producers []string
		if e.ClaudeCode {
			producers = append(producers, "claudecode")
		}
		if e.OpenCode {
			producers = append(producers, "opencode")
		}

		row := lipgloss.JoinHorizontal(lipgloss.Top,
			nameStyle.Render(e.Name),
			producerStyle.Render(strings.Join(producers, ", ")),
			strings.Join(core.OpenCodeAliases(e.Type), ", "),
		)
		b.WriteString(strings.TrimRight(row, " "))
		b.WriteString("\n")
		b.WriteString(descriptionStyle.Render(e.Description))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nTotal: %d hook types\n", len(events))
	_, err := io.WriteString(w, b.String())
	return err
}
