package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/klauern/hookrelay/internal/cmd"
)

// Set via -ldflags at release time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	app := cmd.NewApp(cmd.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
	}, cmd.StdStreams())

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
