// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
	"github.com/anteroom-foundation/anteroom/console"
)

func contactCommand() *cli.Command {
	return &cli.Command{
		Name:    "contact",
		Summary: "manage the local address book",
		Description: "Manage the operator's address book. Contacts live in a local JSON\n" +
			"file under the console state directory and never leave the machine.",
		Subcommands: []*cli.Command{
			contactListCommand(),
			contactAddCommand(),
			contactRemoveCommand(),
			contactFindCommand(),
		},
	}
}

func openAddressBook(state *localState) (*console.AddressBook, error) {
	cfg, err := state.loadConfig()
	if err != nil {
		return nil, err
	}
	return console.OpenAddressBook(filepath.Join(cfg.Paths.State, "contacts.json")), nil
}

func printContacts(contacts []console.Contact, asJSON bool) error {
	if asJSON {
		return cli.WriteJSON(contacts)
	}
	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tADDRESS\tTAGS")
	for _, contact := range contacts {
		tags := ""
		for i, tag := range contact.Tags {
			if i > 0 {
				tags += ","
			}
			tags += tag
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", contact.ID, contact.Name, contact.Address, tags)
	}
	return writer.Flush()
}

func contactListCommand() *cli.Command {
	var state localState
	var asJSON bool

	return &cli.Command{
		Name:    "list",
		Summary: "list all contacts",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("contact list", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			book, err := openAddressBook(&state)
			if err != nil {
				return err
			}
			contacts, err := book.List()
			if err != nil {
				return err
			}
			return printContacts(contacts, asJSON)
		},
	}
}

func contactAddCommand() *cli.Command {
	var state localState
	var tags []string

	return &cli.Command{
		Name:    "add",
		Summary: "add a contact",
		Usage:   "anteroom contact add <name> <address> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("contact add", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			flagSet.StringSliceVar(&tags, "tag", nil, "tag to attach (repeatable)")
			return flagSet
		},
		Examples: []cli.Example{
			{Command: `anteroom contact add "Dana Oncall" dana@example.com --tag oncall`},
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <name> and <address>, got %d args", len(args))
			}
			book, err := openAddressBook(&state)
			if err != nil {
				return err
			}
			contact, err := book.Add(console.Contact{
				Name:    args[0],
				Address: args[1],
				Tags:    tags,
			})
			if err != nil {
				return err
			}
			fmt.Printf("added %s (%s)\n", contact.Name, contact.ID)
			return nil
		},
	}
}

func contactRemoveCommand() *cli.Command {
	var state localState

	return &cli.Command{
		Name:    "remove",
		Summary: "remove a contact by id",
		Usage:   "anteroom contact remove <contact-id> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("contact remove", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <contact-id>, got %d args", len(args))
			}
			book, err := openAddressBook(&state)
			if err != nil {
				return err
			}
			if err := book.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", args[0])
			return nil
		},
	}
}

func contactFindCommand() *cli.Command {
	var state localState
	var asJSON bool

	return &cli.Command{
		Name:    "find",
		Summary: "search contacts by name, address, or tag",
		Usage:   "anteroom contact find <query> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("contact find", pflag.ContinueOnError)
			state.registerFlags(flagSet)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected <query>, got %d args", len(args))
			}
			book, err := openAddressBook(&state)
			if err != nil {
				return err
			}
			contacts, err := book.Find(args[0])
			if err != nil {
				return err
			}
			return printContacts(contacts, asJSON)
		},
	}
}
