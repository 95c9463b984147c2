// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestIDIsValidAndUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := newRequestID()
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("id %q is not a UUID: %v", id, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestWeakRequestIDShape(t *testing.T) {
	// The fallback path must still produce well-formed version 4 UUIDs
	// so responses correlate identically whichever generator ran.
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := weakRequestID()
		parsed, err := uuid.Parse(id)
		if err != nil {
			t.Fatalf("fallback id %q is not a UUID: %v", id, err)
		}
		if parsed.Version() != 4 {
			t.Fatalf("fallback id %q has version %d, want 4", id, parsed.Version())
		}
		if parsed.Variant() != uuid.RFC4122 {
			t.Fatalf("fallback id %q has variant %v, want RFC4122", id, parsed.Variant())
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("fallback generator repeated id %q after %d draws", id, i)
		}
		seen[id] = struct{}{}
	}
}
