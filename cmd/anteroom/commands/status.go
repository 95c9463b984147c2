// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
)

func statusCommand() *cli.Command {
	var session gatewaySession
	var asJSON bool

	return &cli.Command{
		Name:    "status",
		Summary: "report gateway health",
		Description: "Connect to the gateway, run its health check, and report the result.\n" +
			"Exits 1 when the gateway reports unhealthy.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "check the default gateway", Command: "anteroom status"},
			{Description: "check a named profile", Command: "anteroom status --gateway lab"},
		},
		Run: func(args []string) error {
			live, err := session.open("status", nil)
			if err != nil {
				return err
			}
			defer live.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			health, err := live.Console.Health(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				if err := cli.WriteJSON(struct {
					Gateway string `json:"gateway"`
					console.Health
				}{live.Profile.URL, health}); err != nil {
					return err
				}
			} else {
				fmt.Printf("gateway:  %s\n", live.Profile.URL)
				if health.OK {
					fmt.Println("status:   ok")
				} else {
					fmt.Println("status:   unhealthy")
				}
				if health.Version != "" {
					fmt.Printf("version:  %s\n", health.Version)
				}
				if health.UptimeSeconds > 0 {
					fmt.Printf("uptime:   %s\n", (time.Duration(health.UptimeSeconds) * time.Second).String())
				}
			}

			if !health.OK {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
