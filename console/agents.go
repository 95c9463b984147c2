// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"time"
)

// Agent is one autonomous agent the gateway fronts.
type Agent struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Status   string     `json:"status"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// AgentsList fetches the agents registered with the gateway.
func (c *Console) AgentsList(ctx context.Context) ([]Agent, error) {
	return call[[]Agent](ctx, c, "agents.list", nil)
}
