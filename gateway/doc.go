// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway implements the client side of the Anteroom gateway
// protocol: a long-lived, bidirectional RPC channel over a single
// persistent socket carrying JSON text frames.
//
// A [Client] owns one connection at a time. On connect it performs an
// authenticating handshake (one "connect" request answered by a
// hello-ok payload), then correlates concurrent [Client.Request] calls
// with their responses by id while forwarding unsolicited event frames
// to the configured observer. Any socket closure flushes all in-flight
// requests and schedules a reconnection attempt with exponential
// backoff; backoff resets once a handshake next succeeds.
//
// The client deliberately does not replay requests across a reconnect,
// impose per-request timeouts (cancel the caller's context instead),
// or order independent requests — only a request and its own response
// are ordered.
//
// All timers run on an injected lib/clock Clock, so reconnection and
// handshake scheduling are testable against a fake clock.
package gateway
