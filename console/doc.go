// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package console is the operator-facing layer above the gateway
// client: typed wrappers for the gateway's RPC methods plus the local
// state the console keeps between sessions (address book, pinned
// notes, snapshot cache, event transcripts) and the plugin
// marketplace client.
//
// The RPC wrappers depend only on the Requester interface, so tests
// drive them against a scripted fake instead of a live gateway.
package console
