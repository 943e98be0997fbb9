package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/klauern/hookrelay/internal/config"
	"github.com/klauern/hookrelay/internal/store"
	"github.com/urfave/cli/v3"
)

// NewIndexCmd creates the index command for the event archive
func NewIndexCmd(s Streams) *cli.Command {
	return &cli.Command{
		Name:        "index",
		Usage:       "Manage the MeiliSearch event archive",
		Description: `Prepare the MeiliSearch index that meilisearch handlers write events into.`,
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create the index and apply search settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Config file to use instead of discovery",
					},
					&cli.StringFlag{
						Name:  "index",
						Usage: "Index name (default from config, then " + store.DefaultIndex + ")",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					cfg, err := config.Locator{
						Explicit:   cmd.String("config"),
						ProjectDir: resolveProjectDir(""),
					}.Load()
					if err != nil {
						return err
					}
					if cfg.Meilisearch == nil || cfg.Meilisearch.Endpoint == "" {
						return errors.New("no meilisearch.endpoint configured")
					}

					index := cfg.Meilisearch.Index
					if name := cmd.String("index"); name != "" {
						index = name
					}
					ms := store.NewMeiliStore(cfg.Meilisearch.Endpoint, cfg.Meilisearch.APIKey, index)
					if err := ms.EnsureIndex(); err != nil {
						return fmt.Errorf("failed to prepare index: %w", err)
					}
					fmt.Fprintf(s.Out, "Index %q ready at %s\n", ms.IndexName(), cfg.Meilisearch.Endpoint)
					return nil
				},
			},
		},
	}
}
