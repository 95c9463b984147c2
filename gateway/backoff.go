// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import "time"

// Reconnection backoff defaults. The delay before the n-th consecutive
// reconnect attempt is min(base·factor^n, max); a completed handshake
// resets the sequence.
const (
	defaultReconnectBase   = 800 * time.Millisecond
	defaultReconnectMax    = 15 * time.Second
	defaultReconnectFactor = 1.7
)

// backoff produces the reconnect delay sequence. Not safe for
// concurrent use; the client mutates it under its own lock.
type backoff struct {
	base   time.Duration
	max    time.Duration
	factor float64
	next   time.Duration
}

func newBackoff(base, max time.Duration, factor float64) backoff {
	return backoff{base: base, max: max, factor: factor, next: base}
}

// Next returns the delay to apply before the upcoming attempt and
// advances the sequence.
func (b *backoff) Next() time.Duration {
	delay := min(b.next, b.max)
	scaled := time.Duration(float64(b.next) * b.factor)
	b.next = min(scaled, b.max)
	return delay
}

// Reset returns the sequence to the base delay.
func (b *backoff) Reset() {
	b.next = b.base
}
