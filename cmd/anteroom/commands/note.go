// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
)

func noteCommand() *cli.Command {
	return &cli.Command{
		Name:    "note",
		Summary: "keep local operator notes",
		Subcommands: []*cli.Command{
			noteListCommand(),
			noteAddCommand(),
			notePinCommand("pin", true, "pin a note to the top of the list"),
			notePinCommand("unpin", false, "unpin a note"),
			noteRemoveCommand(),
		},
	}
}

func openNotebook(state *localState) (*console.Notebook, error) {
	cfg, err := state.loadConfig()
	if err != nil {
		return nil, err
	}
	return console.OpenNotebook(filepath.Join(cfg.Paths.State, "notes.json")), nil
}

func noteListCommand() *cli.Command {
	var state localState
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "list notes, pinned first",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("note list", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			notebook, err := openNotebook(&state)
			if err != nil {
				return err
			}
			notes, err := notebook.List()
			if err != nil {
				return err
			}

			if asJSON {
				return cli.WriteJSON(notes)
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(writer, "ID\tPIN\tCREATED\tTEXT")
			for _, note := range notes {
				pin := ""
				if note.Pinned {
					pin = "*"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					note.ID, pin, note.CreatedAt.Format(time.RFC3339), note.Text)
			}
			return writer.Flush()
		},
	}
}

func noteAddCommand() *cli.Command {
	var state localState
	var pinned bool

	return &cli.Command{
		Name:    "add",
		Summary: "add a note",
		Usage:   "anteroom note add <text>... [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("note add", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			flagSet.BoolVar(&pinned, "pin", false, "pin the note immediately")
			return flagSet
		},
		Examples: []cli.Example{
			{Command: `anteroom note add "lab gateway token rotates on the 1st" --pin`},
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("note text is required")
			}
			notebook, err := openNotebook(&state)
			if err != nil {
				return err
			}
			note, err := notebook.Add(strings.Join(args, " "), pinned)
			if err != nil {
				return err
			}
			fmt.Printf("added %s\n", note.ID)
			return nil
		},
	}
}

func notePinCommand(name string, pinned bool, summary string) *cli.Command {
	var state localState

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   "anteroom note " + name + " <note-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("note "+name, pflag.ContinueOnError)
			state.registerFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <note-id>, got %d args", len(args))
			}
			notebook, err := openNotebook(&state)
			if err != nil {
				return err
			}
			if err := notebook.Pin(args[0], pinned); err != nil {
				return err
			}
			fmt.Printf("%sned %s\n", name, args[0])
			return nil
		},
	}
}

func noteRemoveCommand() *cli.Command {
	var state localState

	return &cli.Command{
		Name:    "remove",
		Summary: "remove a note by id",
		Usage:   "anteroom note remove <note-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("note remove", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <note-id>, got %d args", len(args))
			}
			notebook, err := openNotebook(&state)
			if err != nil {
				return err
			}
			if err := notebook.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		},
	}
}
