// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
)

func skillCommand() *cli.Command {
	return &cli.Command{
		Name:    "skill",
		Summary: "inspect and toggle the agent's skills",
		Subcommands: []*cli.Command{
			skillListCommand(),
			skillToggleCommand("enable", "switch a skill on"),
			skillToggleCommand("disable", "switch a skill off"),
		},
	}
}

func skillListCommand() *cli.Command {
	var session gatewaySession
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "list skills and whether each is enabled",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("skill list", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			return session.run("skill/list", func(ctx context.Context, c *console.Console) error {
				skills, err := c.SkillsStatus(ctx)
				if err != nil {
					return err
				}

				if asJSON {
					return cli.WriteJSON(skills)
				}

				writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
				fmt.Fprintln(writer, "NAME\tVERSION\tENABLED\tDESCRIPTION")
				for _, skill := range skills {
					fmt.Fprintf(writer, "%s\t%s\t%t\t%s\n",
						skill.Name, skill.Version, skill.Enabled, skill.Description)
				}
				return writer.Flush()
			})
		},
	}
}

func skillToggleCommand(name, summary string) *cli.Command {
	var session gatewaySession

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   "anteroom skill " + name + " <skill-name> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("skill "+name, pflag.ContinueOnError)
			session.registerFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <skill-name>, got %d args", len(args))
			}
			return session.run("skill/"+name, func(ctx context.Context, c *console.Console) error {
				var err error
				if name == "enable" {
					err = c.SkillEnable(ctx, args[0])
				} else {
					err = c.SkillDisable(ctx, args[0])
				}
				if err != nil {
					return err
				}
				fmt.Printf("%sd %s\n", name, args[0])
				return nil
			})
		},
	}
}
