// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
)

// snapshotCommand reads the locally cached gateway snapshot. Every
// successful handshake refreshes the cache, so this answers "what did
// the gateway last look like" without dialing.
func snapshotCommand() *cli.Command {
	var state localState
	var gatewayName string
	var asJSON bool

	return &cli.Command{
		Name:    "snapshot",
		Summary: "show the last cached gateway snapshot",
		Description: "Print the state snapshot captured during the most recent handshake\n" +
			"with the gateway. Works offline; connect with any gateway command\n" +
			"to refresh it.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("snapshot", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			flagSet.StringVar(&gatewayName, "gateway", "", "gateway profile name from the config file")
			flagSet.BoolVar(&asJSON, "json", false, "output the full cache entry as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			cfg, err := state.loadConfig()
			if err != nil {
				return err
			}
			profile, err := cfg.Gateway(gatewayName)
			if err != nil {
				return err
			}

			cache := console.OpenSnapshotCache(filepath.Join(cfg.Paths.State, "snapshots"))
			cached, err := cache.Load(profile.URL)
			if errors.Is(err, console.ErrNoSnapshot) {
				fmt.Fprintf(os.Stderr, "no snapshot cached for %s\n", profile.URL)
				return &cli.ExitError{Code: 1}
			}
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(cached)
			}

			fmt.Printf("gateway: %s\n", cached.Gateway)
			fmt.Printf("taken:   %s\n", cached.TakenAt.Format(time.RFC3339))
			fmt.Printf("digest:  %s\n", cached.Digest)
			fmt.Printf("%s\n", string(cached.Snapshot))
			return nil
		},
	}
}
