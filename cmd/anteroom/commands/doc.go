// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the anteroom command tree. Each file
// contributes one command group; Root wires them together for main.
package commands
