package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/alecap92/fcrm-automations/pkg/drafts"
	"github.com/alecap92/fcrm-automations/pkg/models"
)

func pullCommand() *cli.Command {
	return &cli.Command{
		Name:      "pull",
		Usage:     "Fetch an automation and save it as a local draft",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, command *cli.Command) error {
			id := command.Args().First()
			if id == "" {
				return errors.New("automation id is required")
			}

			a, err := newApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			if err := a.service.LoadWorkflow(ctx, id); err != nil {
				return err
			}

			ed := a.service.Editor()
			draft := &drafts.Draft{
				Name:         ed.Name(),
				Description:  ed.Description(),
				AutomationID: ed.ID(),
				Nodes:        ed.Nodes(),
				Edges:        ed.Edges(),
				SavedAt:      time.Now().UTC(),
			}

			if err := a.drafts.Save(draft); err != nil {
				return err
			}

			fmt.Printf("draft %q saved\n", draft.Name)

			return nil
		},
	}
}

func pushCommand() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "Validate a local draft and save it to the backend",
		ArgsUsage: "<draft-name>",
		Action: func(ctx context.Context, command *cli.Command) error {
			name := command.Args().First()
			if name == "" {
				return errors.New("draft name is required")
			}

			a, err := newApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			draft, err := a.drafts.Get(name)
			if err != nil {
				return err
			}

			if err := a.service.InitializeCatalogs(ctx); err != nil {
				return err
			}

			ed := a.service.Editor()
			ed.Load(&models.Automation{
				ID:          draft.AutomationID,
				Name:        draft.Name,
				Description: draft.Description,
				Nodes:       draft.Nodes,
			})
			ed.SetEdges(draft.Edges)

			if err := a.service.SaveCurrentWorkflow(ctx); err != nil {
				return err
			}

			// Re-save so the draft remembers the server-issued id.
			if draft.AutomationID == "" {
				draft.AutomationID = ed.ID()
				draft.SavedAt = time.Now().UTC()

				if err := a.drafts.Save(draft); err != nil {
					return err
				}
			}

			fmt.Println(ed.ID())

			return nil
		},
	}
}

func draftsCommand() *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: "Manage local workflow drafts",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List local drafts",
				Action: func(ctx context.Context, command *cli.Command) error {
					a, err := newApp(ctx, command)
					if err != nil {
						return err
					}
					defer a.close(ctx)

					all, err := a.drafts.List()
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "NAME\tAUTOMATION\tNODES\tSAVED AT")

					for _, d := range all {
						remote := d.AutomationID
						if remote == "" {
							remote = "-"
						}

						fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.Name, remote, len(d.Nodes), d.SavedAt.Format(time.RFC3339))
					}

					return w.Flush()
				},
			},
			{
				Name:      "show",
				Usage:     "Print a draft as JSON",
				ArgsUsage: "<draft-name>",
				Action: func(ctx context.Context, command *cli.Command) error {
					name := command.Args().First()
					if name == "" {
						return errors.New("draft name is required")
					}

					a, err := newApp(ctx, command)
					if err != nil {
						return err
					}
					defer a.close(ctx)

					draft, err := a.drafts.Get(name)
					if err != nil {
						return err
					}

					return printJSON(draft)
				},
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a local draft",
				ArgsUsage: "<draft-name>",
				Action: func(ctx context.Context, command *cli.Command) error {
					name := command.Args().First()
					if name == "" {
						return errors.New("draft name is required")
					}

					a, err := newApp(ctx, command)
					if err != nil {
						return err
					}
					defer a.close(ctx)

					return a.drafts.Delete(name)
				},
			},
		},
	}
}
