// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists console state files atomically. Every write
// goes to a temporary file in the target directory, is fsynced, and
// renamed into place, so a reader never observes a partial file and a
// crash mid-write leaves the previous version intact.
//
// JSON files (address book, pinned notes) are human-editable and use
// indented encoding with a trailing newline. CBOR files (snapshot
// cache entries) use lib/codec's deterministic encoding. All files
// are created with mode 0600 and parent directories with 0700; local
// console state can hold tokens and operator contact details.
package store
