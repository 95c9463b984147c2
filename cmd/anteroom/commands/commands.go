// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
)

// Version is the release version stamped at build time via
// -ldflags "-X .../commands.Version=...". The default marks local
// builds.
var Version = "dev"

// Root builds the complete anteroom command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:        "anteroom",
		Summary:     "operator console for remote agent gateways",
		Description: "Anteroom is an operator console for remote autonomous-agent gateways.\nIt speaks the gateway's frame protocol over a persistent connection and\nkeeps a small amount of local state (contacts, notes, snapshots).",
		Subcommands: []*cli.Command{
			statusCommand(),
			watchCommand(),
			snapshotCommand(),
			agentsCommand(),
			cronCommand(),
			skillCommand(),
			configCommand(),
			pairCommand(),
			contactCommand(),
			noteCommand(),
			pluginCommand(),
			{
				Name:    "version",
				Summary: "print the anteroom version",
				Run: func(args []string) error {
					fmt.Println("anteroom", Version)
					return nil
				},
			},
		},
	}
}
