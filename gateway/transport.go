// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import "context"

// StatusCode is a connection close status. Values below 4000 follow
// the WebSocket registry; the 4000+ range is application-defined.
type StatusCode int

const (
	// StatusNormalClosure is a deliberate, clean shutdown.
	StatusNormalClosure StatusCode = 1000

	// StatusGoingAway signals the peer is shutting down.
	StatusGoingAway StatusCode = 1001

	// StatusHandshakeFailed is the private-range status the client
	// uses when it abandons a connection because the handshake was
	// rejected or produced no valid hello-ok. It distinguishes "we
	// rejected the gateway's hello" from "the gateway or network
	// closed on us" in close diagnostics; reconnection treats both
	// the same.
	StatusHandshakeFailed StatusCode = 4008
)

// Transport is one live full-duplex connection carrying JSON text
// frames. Implementations must support one concurrent reader and any
// number of concurrent writers, which is what the client produces.
type Transport interface {
	// WriteFrame sends one frame. The context bounds the send only.
	WriteFrame(ctx context.Context, data []byte) error

	// ReadFrame blocks until the next frame arrives. When the
	// connection closes it returns a *CloseError if the close status
	// is known, or the underlying error otherwise. After an error
	// the transport is dead; no further calls succeed.
	ReadFrame(ctx context.Context) ([]byte, error)

	// Close tears the connection down with the given status. Safe to
	// call more than once; only the first close takes effect.
	Close(code StatusCode, reason string) error
}

// Dialer opens transports. The client holds a Dialer rather than a
// Transport so it can redial after a closure.
type Dialer interface {
	Dial(ctx context.Context, url string) (Transport, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, url string) (Transport, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context, url string) (Transport, error) {
	return f(ctx, url)
}
