// Package cmd wires hookrelay's command line.
package cmd

import (
	"io"
	"os"

	"github.com/klauern/hookrelay/internal/constants"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Streams are the standard streams commands read and write
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// IsTerminal reports whether In is an interactive terminal
	IsTerminal func() bool
}

// StdStreams returns the process's stdin, stdout and stderr
func StdStreams() Streams {
	return Streams{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func (s Streams) interactive() bool {
	return s.IsTerminal != nil && s.IsTerminal()
}

// NewApp builds the root command. Invoked without a subcommand it behaves
// like "run", which is how agent tools call it.
func NewApp(versionInfo VersionInfo, s Streams) *cli.Command {
	return &cli.Command{
		Name:  constants.BinaryName,
		Usage: "Route agent hook events to configured handlers",
		Description: `hookrelay reads one hook event as JSON on stdin, works out its hook type,
runs the handlers configured for it and writes the reply the producer expects
on stdout. Claude Code and OpenCode events are both understood.`,
		Writer:    s.Out,
		ErrWriter: s.Err,
		Flags:     runFlags(),
		Action:    runAction(s),
		Commands: []*cli.Command{
			NewRunCmd(s),
			NewEventsCmd(s),
			NewPlatformCmd(s),
			NewIndexCmd(s),
			NewVersionCmd(versionInfo, s),
		},
	}
}
