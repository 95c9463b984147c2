// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
)

func pairCommand() *cli.Command {
	return &cli.Command{
		Name:    "pair",
		Summary: "approve or reject device pairing requests",
		Subcommands: []*cli.Command{
			pairListCommand(),
			pairDecideCommand("approve", "admit a pending device"),
			pairDecideCommand("reject", "refuse a pending device"),
		},
	}
}

func pairListCommand() *cli.Command {
	var session gatewaySession
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "list devices awaiting approval",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pair list", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			return session.run("pair/list", func(ctx context.Context, c *console.Console) error {
				requests, err := c.PairingList(ctx)
				if err != nil {
					return err
				}

				if asJSON {
					return cli.WriteJSON(requests)
				}

				if len(requests) == 0 {
					fmt.Println("no pending pairing requests")
					return nil
				}

				writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
				fmt.Fprintln(writer, "ID\tDEVICE\tPLATFORM\tREQUESTED")
				for _, request := range requests {
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
						request.ID, request.Device, request.Platform,
						request.RequestedAt.Format(time.RFC3339))
				}
				return writer.Flush()
			})
		},
	}
}

func pairDecideCommand(name, summary string) *cli.Command {
	var session gatewaySession

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   "anteroom pair " + name + " <request-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("pair "+name, pflag.ContinueOnError)
			session.registerFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <request-id>, got %d args", len(args))
			}
			return session.run("pair/"+name, func(ctx context.Context, c *console.Console) error {
				var err error
				if name == "approve" {
					err = c.PairingApprove(ctx, args[0])
				} else {
					err = c.PairingReject(ctx, args[0])
				}
				if err != nil {
					return err
				}
				past := name + "d"
				if !strings.HasSuffix(name, "e") {
					past = name + "ed"
				}
				fmt.Printf("%s %s\n", past, args[0])
				return nil
			})
		},
	}
}
