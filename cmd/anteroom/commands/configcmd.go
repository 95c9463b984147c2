// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "read and stage changes to the agent's configuration",
		Description: "Read and edit the gateway-held agent configuration. Changes made\n" +
			"with 'set' are staged against a revision and take effect only after\n" +
			"'apply'. A set against a stale revision is rejected by the gateway.",
		Subcommands: []*cli.Command{
			configGetCommand(),
			configSetCommand(),
			configApplyCommand(),
		},
	}
}

func configGetCommand() *cli.Command {
	var session gatewaySession

	return &cli.Command{
		Name:    "get",
		Summary: "print the current configuration document",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("config get", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			return session.run("config/get", func(ctx context.Context, c *console.Console) error {
				document, err := c.ConfigGet(ctx)
				if err != nil {
					return err
				}
				return cli.WriteJSON(document)
			})
		},
	}
}

func configSetCommand() *cli.Command {
	var session gatewaySession
	var revision int64

	return &cli.Command{
		Name:    "set",
		Summary: "stage one configuration change",
		Usage:   "anteroom config set <key> <value> [flags]",
		Description: "Stage a single key change. The value is parsed as JSON when it is\n" +
			"valid JSON and taken as a plain string otherwise. Without --revision\n" +
			"the document's current revision is fetched first.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("config set", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			flagSet.Int64Var(&revision, "revision", 0, "base revision for the change (default: current)")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "rename the agent", Command: `anteroom config set agent.name scribe`},
			{Description: "set a numeric limit", Command: `anteroom config set limits.maxJobs 20`},
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <key> and <value>, got %d args", len(args))
			}
			key := args[0]

			// JSON-looking values keep their type; everything else is
			// a string. `set k true` sets a bool, `set k '"true"'` a string.
			var value any
			if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
				value = args[1]
			}

			return session.run("config/set", func(ctx context.Context, c *console.Console) error {
				base := revision
				if base == 0 {
					document, err := c.ConfigGet(ctx)
					if err != nil {
						return err
					}
					base = document.Revision
				}

				next, err := c.ConfigSet(ctx, base, key, value)
				if err != nil {
					return err
				}
				fmt.Printf("staged %s at revision %d (apply with 'anteroom config apply --revision %d')\n",
					key, next, next)
				return nil
			})
		},
	}
}

func configApplyCommand() *cli.Command {
	var session gatewaySession
	var revision int64

	return &cli.Command{
		Name:    "apply",
		Summary: "apply staged configuration changes",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("config apply", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			flagSet.Int64Var(&revision, "revision", 0, "revision to apply (default: current)")
			return flagSet
		},
		Run: func(args []string) error {
			return session.run("config/apply", func(ctx context.Context, c *console.Console) error {
				target := revision
				if target == 0 {
					document, err := c.ConfigGet(ctx)
					if err != nil {
						return err
					}
					target = document.Revision
				}

				if err := c.ConfigApply(ctx, target); err != nil {
					return err
				}
				fmt.Printf("applied revision %d\n", target)
				return nil
			})
		},
	}
}
