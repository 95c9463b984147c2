// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Requester issues one gateway RPC and returns the raw response
// payload. *gateway.Client satisfies it.
type Requester interface {
	Request(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// Console wraps a gateway connection with typed operations.
type Console struct {
	rpc    Requester
	logger *slog.Logger
}

// New creates a Console. A nil logger means slog.Default().
func New(rpc Requester, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{rpc: rpc, logger: logger}
}

// call issues method with params and decodes the response payload
// into T. An empty payload decodes to T's zero value.
func call[T any](ctx context.Context, c *Console, method string, params any) (T, error) {
	var out T
	payload, err := c.rpc.Request(ctx, method, params)
	if err != nil {
		return out, err
	}
	if len(payload) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("console: decoding %s response: %w", method, err)
	}
	return out, nil
}

// exec issues method with params and discards the response payload.
func (c *Console) exec(ctx context.Context, method string, params any) error {
	_, err := c.rpc.Request(ctx, method, params)
	return err
}

// Health reports the gateway's own health summary.
type Health struct {
	OK            bool   `json:"ok"`
	Version       string `json:"version,omitempty"`
	UptimeSeconds int64  `json:"uptimeSeconds,omitempty"`
}

// Health queries the gateway's health endpoint.
func (c *Console) Health(ctx context.Context) (Health, error) {
	return call[Health](ctx, c, "health", nil)
}
