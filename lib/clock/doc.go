// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so reconnect
// backoff, handshake delays, and periodic flushes can be tested
// without real waits. Production code uses Real(); tests use Fake()
// and drive it with Advance.
package clock
