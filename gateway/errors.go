// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotConnected is returned by Request when no transport is open.
// The client never queues requests across a disconnect — callers see
// this immediately instead of waiting for a reconnect.
var ErrNotConnected = errors.New("gateway: not connected")

// ErrStopped is returned for requests issued after Stop, and settles
// any requests still pending when Stop is called.
var ErrStopped = errors.New("gateway: client stopped")

// ErrConnectionLost settles pending requests flushed by a disconnect:
// the answer can never arrive on this connection. It is distinct from
// a method-level failure, which surfaces as a *ServerError.
var ErrConnectionLost = errors.New("gateway: connection lost")

// ServerError is a failure reported by the gateway in an ok:false
// response. It affects only the request it answers; the connection
// stays up.
type ServerError struct {
	Code    string
	Message string
	Details json.RawMessage
}

func (e *ServerError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("gateway: request failed: %s", e.Message)
	}
	return fmt.Sprintf("gateway: request failed (%s): %s", e.Code, e.Message)
}

// CloseError reports that the connection closed, carrying the close
// status when the transport provides one. Transport implementations
// return it from ReadFrame so the lifecycle hooks can expose the raw
// close information.
type CloseError struct {
	Code   StatusCode
	Reason string
}

func (e *CloseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("gateway: connection closed (status %d)", e.Code)
	}
	return fmt.Sprintf("gateway: connection closed (status %d): %s", e.Code, e.Reason)
}
