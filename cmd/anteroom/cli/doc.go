// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command tree, help rendering, and shared
// output helpers for the anteroom binary. Commands are plain structs
// dispatched by name; flag parsing uses pflag with typo suggestions
// for both unknown subcommands and unknown flags.
package cli
