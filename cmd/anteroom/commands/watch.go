// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
	"github.com/anteroom-foundation/anteroom/gateway"
)

func watchCommand() *cli.Command {
	var session gatewaySession
	var record bool

	return &cli.Command{
		Name:    "watch",
		Summary: "stream gateway events to the terminal",
		Description: "Stay connected and print every event the gateway pushes, one line\n" +
			"per event, until interrupted. With --record, events are also written\n" +
			"to a compressed transcript under the configured transcripts directory.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("watch", pflag.ContinueOnError)
			session.registerFlags(flagSet)
			flagSet.BoolVar(&record, "record", false, "write a transcript of the watched events")
			return flagSet
		},
		Examples: []cli.Example{
			{Description: "watch the default gateway", Command: "anteroom watch"},
			{Description: "watch and keep a transcript", Command: "anteroom watch --record"},
		},
		Run: func(args []string) error {
			// The recorder is created before the connection comes up
			// so the event callback never observes it mid-setup.
			var recorder *console.Recorder
			if record {
				cfg, err := session.loadConfig()
				if err != nil {
					return err
				}
				if err := cfg.EnsurePaths(); err != nil {
					return err
				}
				recorder, err = console.NewRecorder(cfg.Paths.Transcripts, cli.NewCommandLogger().With("command", "watch"))
				if err != nil {
					return err
				}
				defer recorder.Close()
				fmt.Fprintf(os.Stderr, "recording to %s\n", recorder.Path())
			}

			onEvent := func(event gateway.Event) {
				fmt.Printf("%s  seq=%d  %s  %s\n",
					time.Now().UTC().Format(time.RFC3339), event.Seq, event.Name, string(event.Payload))
				if recorder != nil {
					recorder.Record(event)
				}
			}

			live, err := session.open("watch", onEvent)
			if err != nil {
				return err
			}
			defer live.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			fmt.Fprintf(os.Stderr, "watching %s (interrupt to stop)\n", live.Profile.URL)
			<-ctx.Done()
			return nil
		},
	}
}
