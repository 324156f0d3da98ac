package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"

	"github.com/alecap92/fcrm-automations/pkg/client"
	"github.com/alecap92/fcrm-automations/pkg/models"
)

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List automations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "status",
				Usage: "Filter by status (active, inactive)",
			},
			&cli.StringFlag{
				Name:  "search",
				Usage: "Filter by name or description",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Page size",
				Value: 20,
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			a, err := newApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			opts := client.ListOptions{
				Status: models.AutomationStatus(command.String("status")),
				Search: command.String("search"),
				Page:   command.Int("page"),
				Limit:  command.Int("limit"),
			}

			if err := a.service.LoadAutomations(ctx, opts); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATUS\tNODES")

			for _, item := range a.service.Workflows() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", item.ID, item.Name, item.Status, len(item.Nodes))
			}

			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Printf("total: %d\n", a.service.Total())

			return nil
		},
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one automation as JSON",
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

			item, err := a.client.GetAutomation(ctx, id)
			if err != nil {
				return err
			}

			return printJSON(item)
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create an empty automation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Automation name",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Automation description",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			a, err := newApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			created, err := a.service.CreateAutomation(ctx, &models.Automation{
				Name:        command.String("name"),
				Description: command.String("description"),
			})
			if err != nil {
				return err
			}

			fmt.Println(created.ID)

			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete an automation",
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

			return a.service.DeleteAutomation(ctx, id)
		},
	}
}

func toggleCommand() *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "Flip an automation between active and inactive",
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

			return a.service.ToggleAutomationActive(ctx, id)
		},
	}
}

func executeCommand() *cli.Command {
	return &cli.Command{
		Name:      "execute",
		Aliases:   []string{"run"},
		Usage:     "Trigger a manual run of an automation",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Usage: "JSON payload passed to the trigger node",
				Value: "{}",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			id := command.Args().First()
			if id == "" {
				return errors.New("automation id is required")
			}

			var input map[string]any
			if err := json.Unmarshal([]byte(command.String("input")), &input); err != nil {
				return fmt.Errorf("invalid --input payload: %w", err)
			}

			a, err := newApp(ctx, command)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			executionID, err := a.service.ExecuteAutomation(ctx, id, input)
			if err != nil {
				return err
			}

			fmt.Println(executionID)

			return nil
		},
	}
}

func catalogsCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalogs",
		Usage: "Inspect the node-type and module catalogs",
		Commands: []*cli.Command{
			{
				Name:  "node-types",
				Usage: "List available node types",
				Action: func(ctx context.Context, command *cli.Command) error {
					a, err := newApp(ctx, command)
					if err != nil {
						return err
					}
					defer a.close(ctx)

					if err := a.service.InitializeCatalogs(ctx); err != nil {
						return err
					}

					nodeTypes, err := a.service.NodeTypes()
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "TYPE\tCATEGORY\tNAME")

					for _, nt := range nodeTypes {
						fmt.Fprintf(w, "%s\t%s\t%s\n", nt.Type, nt.Category, nt.Name)
					}

					return w.Flush()
				},
			},
			{
				Name:  "modules",
				Usage: "List trigger modules and their events",
				Action: func(ctx context.Context, command *cli.Command) error {
					a, err := newApp(ctx, command)
					if err != nil {
						return err
					}
					defer a.close(ctx)

					if err := a.service.InitializeCatalogs(ctx); err != nil {
						return err
					}

					modules, err := a.service.Modules()
					if err != nil {
						return err
					}

					w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "MODULE\tEVENT\tNAME")

					for _, m := range modules {
						fmt.Fprintf(w, "%s\t%s\t%s\n", m.Module, m.Event, m.Name)
					}

					return w.Flush()
				},
			},
		},
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))

	return nil
}
