// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"cron", "", 4},
		{"", "cron", 4},
		{"cron", "cron", 0},
		{"cronn", "cron", 1},
		{"corn", "cron", 2},
		{"skil", "skill", 1},
		{"status", "notes", 5},
	}

	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "cron"},
		{Name: "skill"},
		{Name: "status"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"cronn", "cron"},
		{"skil", "skill"},
		{"stats", "status"},
		{"marketplace", ""},
	}

	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlags := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flagSet.String("gateway", "", "gateway profile name")
		flagSet.Bool("json", false, "output as JSON")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"typo double dash", []string{"--gatewya"}, "--gateway"},
		{"typo with value", []string{"--jsno=true"}, "--json"},
		{"defined flag skipped", []string{"--gateway", "home"}, ""},
		{"nothing close", []string{"--zzzzzzzz"}, ""},
		{"positional only", []string{"job-7"}, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, newFlags()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
