// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"fmt"
	"time"
)

// PairingRequest is a device waiting for operator approval to join
// the gateway.
type PairingRequest struct {
	ID          string    `json:"id"`
	Device      string    `json:"device"`
	Platform    string    `json:"platform,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// PairingList fetches the devices currently awaiting approval.
func (c *Console) PairingList(ctx context.Context) ([]PairingRequest, error) {
	return call[[]PairingRequest](ctx, c, "device.pair.list", nil)
}

// PairingApprove admits the pending device.
func (c *Console) PairingApprove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("console: pairing request id is required")
	}
	return c.exec(ctx, "device.pair.approve", map[string]string{"id": id})
}

// PairingReject refuses the pending device.
func (c *Console) PairingReject(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("console: pairing request id is required")
	}
	return c.exec(ctx, "device.pair.reject", map[string]string{"id": id})
}
