// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates the structured logger commands hand to the
// gateway client and console. When stderr is a terminal it uses
// slog.TextHandler for human-readable output; when stderr is piped or
// redirected (scripts, CI) it switches to slog.JSONHandler so log
// lines stay machine-parseable.
//
// Commands scope the logger with per-command context via With():
//
//	logger := cli.NewCommandLogger().With("command", "cron/run")
func NewCommandLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
