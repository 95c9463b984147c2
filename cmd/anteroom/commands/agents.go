// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
)

func agentsCommand() *cli.Command {
	var session gatewaySession
	var asJSON bool

	return &cli.Command{
		Name:    "agents",
		Summary: "list the agents behind the gateway",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("agents", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			return session.run("agents", func(ctx context.Context, c *console.Console) error {
				agents, err := c.AgentsList(ctx)
				if err != nil {
					return err
				}

				if asJSON {
					return cli.WriteJSON(agents)
				}

				writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
				fmt.Fprintln(writer, "ID\tNAME\tSTATUS\tLAST SEEN")
				for _, agent := range agents {
					lastSeen := "-"
					if agent.LastSeen != nil {
						lastSeen = agent.LastSeen.Format(time.RFC3339)
					}
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
						agent.ID, agent.Name, agent.Status, lastSeen)
				}
				return writer.Flush()
			})
		},
	}
}
