// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
)

func cronCommand() *cli.Command {
	return &cli.Command{
		Name:    "cron",
		Summary: "manage the agent's scheduled jobs",
		Subcommands: []*cli.Command{
			cronListCommand(),
			cronAddCommand(),
			cronRemoveCommand(),
			cronRunCommand(),
		},
	}
}

func cronListCommand() *cli.Command {
	var session gatewaySession
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "list scheduled jobs with their next run times",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("cron list", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			return session.run("cron/list", func(ctx context.Context, c *console.Console) error {
				jobs, err := c.CronList(ctx)
				if err != nil {
					return err
				}

				if asJSON {
					return cli.WriteJSON(jobs)
				}

				writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
				fmt.Fprintln(writer, "ID\tNAME\tSCHEDULE\tENABLED\tNEXT RUN")
				now := time.Now()
				for _, job := range jobs {
					next := "-"
					if job.Enabled {
						if runs, err := job.NextRuns(now, 1); err == nil && len(runs) > 0 {
							next = runs[0].Format(time.RFC3339)
						}
					}
					fmt.Fprintf(writer, "%s\t%s\t%s\t%t\t%s\n",
						job.ID, job.Name, job.Schedule, job.Enabled, next)
				}
				return writer.Flush()
			})
		},
	}
}

func cronAddCommand() *cli.Command {
	var session gatewaySession
	var action string
	var disabled bool

	return &cli.Command{
		Name:    "add",
		Summary: "create a scheduled job",
		Usage:   "anteroom cron add <name> <schedule> [flags]",
		Description: "Create a scheduled job. The schedule is a five-field cron expression\n" +
			"or one of the @hourly/@daily/@weekly/@monthly/@yearly macros; it is\n" +
			"validated locally before the gateway is asked to store it.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("cron add", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			flagSet.StringVar(&action, "action", "", "job action as a JSON object")
			flagSet.BoolVar(&disabled, "disabled", false, "create the job switched off")
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "nightly digest at 03:30",
				Command:     `anteroom cron add digest "30 3 * * *" --action '{"task":"digest"}'`,
			},
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <name> and <schedule>, got %d args", len(args))
			}

			spec := console.CronJobSpec{
				Name:     args[0],
				Schedule: args[1],
				Enabled:  !disabled,
			}
			if action != "" {
				if !json.Valid([]byte(action)) {
					return fmt.Errorf("--action is not valid JSON")
				}
				spec.Action = json.RawMessage(action)
			}

			return session.run("cron/add", func(ctx context.Context, c *console.Console) error {
				job, err := c.CronAdd(ctx, spec)
				if err != nil {
					return err
				}
				fmt.Printf("created %s (%s)\n", job.ID, job.Name)
				return nil
			})
		},
	}
}

func cronRemoveCommand() *cli.Command {
	var session gatewaySession

	return &cli.Command{
		Name:    "remove",
		Summary: "delete a scheduled job",
		Usage:   "anteroom cron remove <job-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("cron remove", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <job-id>, got %d args", len(args))
			}
			return session.run("cron/remove", func(ctx context.Context, c *console.Console) error {
				if err := c.CronRemove(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("removed %s\n", args[0])
				return nil
			})
		},
	}
}

func cronRunCommand() *cli.Command {
	var session gatewaySession

	return &cli.Command{
		Name:    "run",
		Summary: "trigger a job immediately",
		Usage:   "anteroom cron run <job-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("cron run", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <job-id>, got %d args", len(args))
			}
			return session.run("cron/run", func(ctx context.Context, c *console.Console) error {
				receipt, err := c.CronRun(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("started %s at %s\n", receipt.JobID, receipt.StartedAt.Format(time.RFC3339))
				return nil
			})
		},
	}
}
