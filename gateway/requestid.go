// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"encoding/binary"
	mathrand "math/rand"

	"github.com/google/uuid"
)

// newRequestID generates the correlation id for an outgoing request.
// Ids are correlation tokens, not security tokens: collision within
// the pending table is the only concern. A random UUID from the
// crypto-strength source is preferred; if that source is unavailable
// the PRNG fallback keeps requests flowing rather than failing them.
func newRequestID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return weakRequestID()
}

// weakRequestID builds a UUID-shaped string from math/rand. The
// version and variant bits are set so the result is a syntactically
// valid version-4 UUID.
func weakRequestID() string {
	var raw [16]byte
	binary.BigEndian.PutUint64(raw[0:8], mathrand.Uint64())
	binary.BigEndian.PutUint64(raw[8:16], mathrand.Uint64())
	raw[6] = (raw[6] & 0x0f) | 0x40
	raw[8] = (raw[8] & 0x3f) | 0x80
	return uuid.UUID(raw).String()
}
