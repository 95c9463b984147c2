// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"testing"

	"github.com/anteroom-foundation/anteroom/cmd/anteroom/cli"
)

func TestRoot_SubcommandNamesAreUnique(t *testing.T) {
	var walk func(t *testing.T, command *cli.Command)
	walk = func(t *testing.T, command *cli.Command) {
		seen := map[string]bool{}
		for _, sub := range command.Subcommands {
			if seen[sub.Name] {
				t.Errorf("%s: duplicate subcommand %q", command.Name, sub.Name)
			}
			seen[sub.Name] = true
			walk(t, sub)
		}
	}
	walk(t, Root())
}

func TestRoot_EveryCommandIsRunnableOrGroup(t *testing.T) {
	var walk func(t *testing.T, path string, command *cli.Command)
	walk = func(t *testing.T, path string, command *cli.Command) {
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: neither Run nor Subcommands set", path)
		}
		if path != "anteroom" && command.Summary == "" {
			t.Errorf("%s: missing summary", path)
		}
		for _, sub := range command.Subcommands {
			walk(t, path+" "+sub.Name, sub)
		}
	}
	root := Root()
	walk(t, root.Name, root)
}

func TestRoot_IncludesCoreGroups(t *testing.T) {
	root := Root()
	want := []string{
		"status", "watch", "snapshot", "agents", "cron", "skill",
		"config", "pair", "contact", "note", "plugin", "version",
	}
	names := map[string]bool{}
	for _, sub := range root.Subcommands {
		names[sub.Name] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("root tree lacks %q", name)
		}
	}
}

func TestVersionCommandRuns(t *testing.T) {
	root := Root()
	if err := root.Execute([]string{"version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
}
