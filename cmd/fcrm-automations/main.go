package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/alecap92/fcrm-automations/pkg/log"
)

func main() {
	logger := log.WithModule("cli")

	cmd := &cli.Command{
		Name:                  "fcrm-automations",
		Usage:                 "Create and manage workflow automations",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the automations API",
				Value:   "http://localhost:9091",
				Sources: cli.EnvVars("FCRM_API_URL"),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token for the automations API",
				Sources: cli.EnvVars("FCRM_API_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "drafts-dir",
				Usage:   "Directory for local workflow drafts",
				Value:   "./drafts",
				Sources: cli.EnvVars("FCRM_DRAFTS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OpenTelemetry traces for API calls",
				Sources: cli.EnvVars("FCRM_TRACING"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			getCommand(),
			createCommand(),
			deleteCommand(),
			toggleCommand(),
			executeCommand(),
			pullCommand(),
			pushCommand(),
			catalogsCommand(),
			draftsCommand(),
			sandboxCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
