// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Anteroom's standard CBOR encoding
// configuration.
//
// Anteroom uses two serialization formats with a clear boundary: JSON
// on the gateway wire and in CLI output, CBOR for local state the
// console persists between sessions (snapshot cache entries, event
// transcripts' index records). This package holds the shared CBOR
// modes so every package encodes identically.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Snapshot cache entries are content-addressed by a digest of
// their encoded bytes, so the same logical data must always produce
// identical bytes.
//
// For buffer-oriented use:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented use:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
package codec
