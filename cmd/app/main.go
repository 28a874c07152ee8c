package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

type entryFunc func(ctx context.Context, opts ...internal.Option) error

func runWith(entry entryFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		configPath := cmd.String("config")

		cfg := internal.NewDefaultConfig()
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}

		if err := entry(ctx, internal.WithConfig(cfg)); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Parse a Logseq graph into a property-graph database, publish its public pages, and serve it over HTTP",
		Commands: []*cli.Command{
			{
				Name:   "export",
				Usage:  "Parse the graph and rebuild the SQLite export database",
				Flags:  []cli.Flag{configFlag},
				Action: runWith(internal.RunExport),
			},
			{
				Name:   "publish",
				Usage:  "Write public pages to the static-site content directory",
				Flags:  []cli.Flag{configFlag},
				Action: runWith(internal.RunPublish),
			},
			{
				Name:   "serve",
				Usage:  "Serve the read-only API with live refresh events",
				Flags:  []cli.Flag{configFlag},
				Action: runWith(internal.RunServe),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
