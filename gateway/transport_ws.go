// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
)

// defaultReadLimit caps inbound frame size. Gateway snapshots can run
// well past the websocket library's 32KB default.
const defaultReadLimit = 4 << 20

// WebSocketDialer opens gateway connections over WebSocket. The zero
// value is usable.
type WebSocketDialer struct {
	// HTTPClient performs the opening handshake. Nil means
	// http.DefaultClient.
	HTTPClient *http.Client

	// Header is added to the opening handshake request. Useful for
	// reverse proxies that expect their own auth header in addition
	// to the protocol-level token.
	Header http.Header

	// ReadLimit overrides the maximum inbound frame size in bytes.
	// Zero means the 4MB default.
	ReadLimit int64
}

// Dial implements Dialer.
func (d *WebSocketDialer) Dial(ctx context.Context, url string) (Transport, error) {
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPClient: d.HTTPClient,
		HTTPHeader: d.Header,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: dialing %s: %w", url, err)
	}

	limit := d.ReadLimit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	conn.SetReadLimit(limit)

	return &webSocketTransport{conn: conn}, nil
}

type webSocketTransport struct {
	conn *websocket.Conn
}

func (t *webSocketTransport) WriteFrame(ctx context.Context, data []byte) error {
	return t.conn.Write(ctx, websocket.MessageText, data)
}

func (t *webSocketTransport) ReadFrame(ctx context.Context) ([]byte, error) {
	// Frame kind is ignored on read: the protocol is JSON text, but a
	// gateway that sends binary frames with JSON content still parses.
	_, data, err := t.conn.Read(ctx)
	if err != nil {
		var closeErr websocket.CloseError
		if errors.As(err, &closeErr) {
			return nil, &CloseError{Code: StatusCode(closeErr.Code), Reason: closeErr.Reason}
		}
		return nil, err
	}
	return data, nil
}

func (t *webSocketTransport) Close(code StatusCode, reason string) error {
	return t.conn.Close(websocket.StatusCode(code), reason)
}
