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

func pluginCommand() *cli.Command {
	return &cli.Command{
		Name:    "plugin",
		Summary: "browse and fetch plugins from the marketplace",
		Subcommands: []*cli.Command{
			pluginSearchCommand(),
			pluginInfoCommand(),
			pluginFetchCommand(),
		},
	}
}

func openMarketplace(state *localState) (*console.Marketplace, error) {
	cfg, err := state.loadConfig()
	if err != nil {
		return nil, err
	}
	return console.NewMarketplace(console.MarketplaceConfig{
		BaseURL: cfg.Marketplace.BaseURL,
		Timeout: cfg.Marketplace.Timeout,
		Logger:  cli.NewCommandLogger().With("command", "plugin"),
	})
}

func pluginSearchCommand() *cli.Command {
	var state localState
	var asJSON bool

	return &cli.Command{
		Name:    "search",
		Summary: "search the marketplace",
		Usage:   "anteroom plugin search <query> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("plugin search", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <query>, got %d args", len(args))
			}
			market, err := openMarketplace(&state)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			plugins, err := market.Search(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(plugins)
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "NAME\tVERSION\tDESCRIPTION")
			for _, plugin := range plugins {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", plugin.Name, plugin.Version, plugin.Description)
			}
			return writer.Flush()
		},
	}
}

func pluginInfoCommand() *cli.Command {
	var state localState
	var asJSON bool

	return &cli.Command{
		Name:    "info",
		Summary: "show a plugin's manifest",
		Usage:   "anteroom plugin info <name> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("plugin info", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <name>, got %d args", len(args))
			}
			market, err := openMarketplace(&state)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			manifest, err := market.Manifest(ctx, args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(manifest)
			}

			fmt.Printf("name:        %s\n", manifest.Name)
			fmt.Printf("version:     %s\n", manifest.Version)
			if manifest.Description != "" {
				fmt.Printf("description: %s\n", manifest.Description)
			}
			if manifest.Author != "" {
				fmt.Printf("author:      %s\n", manifest.Author)
			}
			if manifest.Homepage != "" {
				fmt.Printf("homepage:    %s\n", manifest.Homepage)
			}
			fmt.Printf("entry:       %s\n", manifest.Entry)
			for requirement, version := range manifest.Requires {
				fmt.Printf("requires:    %s %s\n", requirement, version)
			}
			return nil
		},
	}
}

func pluginFetchCommand() *cli.Command {
	var state localState
	var output string

	return &cli.Command{
		Name:    "fetch",
		Summary: "download a plugin archive",
		Usage:   "anteroom plugin fetch <name> <version> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("plugin fetch", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			flagSet.StringVar(&output, "output", "", "destination file (default <name>-<version>.tar.zst)")
			return flagSet
		},
		Examples: []cli.Example{
			{Command: "anteroom plugin fetch weather 1.4.0"},
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <name> and <version>, got %d args", len(args))
			}
			name, version := args[0], args[1]

			market, err := openMarketplace(&state)
			if err != nil {
				return err
			}

			destination := output
			if destination == "" {
				destination = fmt.Sprintf("%s-%s.tar.zst", name, version)
			}

			file, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err != nil {
				return fmt.Errorf("creating %s: %w", destination, err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			written, err := market.Download(ctx, name, version, file)
			if err != nil {
				file.Close()
				os.Remove(destination)
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}

			fmt.Printf("fetched %s (%d bytes) to %s\n", name, written, destination)
			return nil
		},
	}
}
