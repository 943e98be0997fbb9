package cmd

import (
	"context"
	"fmt"

	"github.com/klauern/hookrelay/internal/constants"
	"github.com/urfave/cli/v3"
)

// VersionInfo holds version information
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
	GoVer   string
}

// NewVersionCmd creates a new version command
func NewVersionCmd(versionInfo VersionInfo, s Streams) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Fprintf(s.Out, "%s version %s\n", constants.BinaryName, versionInfo.Version)
			fmt.Fprintf(s.Out, "commit: %s\n", versionInfo.Commit)
			fmt.Fprintf(s.Out, "date: %s\n", versionInfo.Date)
			fmt.Fprintf(s.Out, "go: %s\n", versionInfo.GoVer)
			return nil
		},
	}
}
