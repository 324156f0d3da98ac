package main

import (
	"context"

	cli "github.com/urfave/cli/v3"

	"github.com/alecap92/fcrm-automations/internal/fakeapi"
	"github.com/alecap92/fcrm-automations/pkg/log"
)

const defaultSandboxPort = 9091

func sandboxCommand() *cli.Command {
	return &cli.Command{
		Name:  "sandbox",
		Usage: "Run a local in-memory automations API for development",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the sandbox API on",
				Value:   defaultSandboxPort,
				Sources: cli.EnvVars("PORT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("sandbox")

			logger.InfoContext(ctx, "starting sandbox API", "port", command.Int("port"))

			return fakeapi.NewServer().Start(command.Int("port"))
		},
	}
}
