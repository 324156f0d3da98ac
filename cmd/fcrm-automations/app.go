package main

import (
	"context"

	cli "github.com/urfave/cli/v3"

	"github.com/alecap92/fcrm-automations/pkg/automation"
	"github.com/alecap92/fcrm-automations/pkg/catalog"
	"github.com/alecap92/fcrm-automations/pkg/client"
	"github.com/alecap92/fcrm-automations/pkg/drafts"
	"github.com/alecap92/fcrm-automations/pkg/editor"
	"github.com/alecap92/fcrm-automations/pkg/log"
	"github.com/alecap92/fcrm-automations/pkg/notify"
	"github.com/alecap92/fcrm-automations/pkg/tracing"
)

// app bundles everything one CLI invocation needs: the sync facade, the
// raw API client for read-only commands, and the local draft store.
type app struct {
	service  *automation.Service
	client   *client.Client
	drafts   *drafts.Store
	shutdown func(context.Context) error
}

func newApp(ctx context.Context, command *cli.Command) (*app, error) {
	log.Setup(command.String("log-level"))
	logger := log.WithModule("cli")

	apiClient := client.New(command.String("api-url"), command.String("token"), logger)

	shutdown := func(context.Context) error { return nil }

	if command.Bool("tracing") {
		tracer, stop, err := tracing.NewTracer(ctx, "fcrm-automations")
		if err != nil {
			return nil, err
		}

		apiClient.SetTracer(tracer)
		shutdown = stop
	}

	session := catalog.NewSession(apiClient, logger)
	service := automation.NewService(
		apiClient,
		editor.New(logger),
		session,
		notify.NewSlog(logger),
		logger,
	)

	return &app{
		service:  service,
		client:   apiClient,
		drafts:   drafts.NewStore(command.String("drafts-dir")),
		shutdown: shutdown,
	}, nil
}

func (a *app) close(ctx context.Context) {
	_ = a.shutdown(ctx)
}
