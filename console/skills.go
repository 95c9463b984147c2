// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"fmt"
)

// Skill is one capability the gateway's agent can have switched on.
type Skill struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// SkillsStatus fetches every skill and its current state.
func (c *Console) SkillsStatus(ctx context.Context) ([]Skill, error) {
	return call[[]Skill](ctx, c, "skills.status", nil)
}

// SkillEnable switches a skill on.
func (c *Console) SkillEnable(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("console: skill name is required")
	}
	return c.exec(ctx, "skills.enable", map[string]string{"name": name})
}

// SkillDisable switches a skill off.
func (c *Console) SkillDisable(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("console: skill name is required")
	}
	return c.exec(ctx, "skills.disable", map[string]string{"name": name})
}
