// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"fmt"
)

// ConfigDocument is the gateway's configuration as a revisioned map.
// Set operations carry the revision they were based on so concurrent
// edits from two consoles conflict instead of clobbering each other.
type ConfigDocument struct {
	Revision int64          `json:"revision"`
	Values   map[string]any `json:"values"`
}

// ConfigGet fetches the gateway's current configuration document.
func (c *Console) ConfigGet(ctx context.Context) (ConfigDocument, error) {
	return call[ConfigDocument](ctx, c, "config.get", nil)
}

// ConfigSet stages one key change against the given base revision and
// returns the document's new revision. Staged changes take effect on
// ConfigApply.
func (c *Console) ConfigSet(ctx context.Context, revision int64, key string, value any) (int64, error) {
	if key == "" {
		return 0, fmt.Errorf("console: config key is required")
	}
	type setResult struct {
		Revision int64 `json:"revision"`
	}
	result, err := call[setResult](ctx, c, "config.set", map[string]any{
		"revision": revision,
		"key":      key,
		"value":    value,
	})
	if err != nil {
		return 0, err
	}
	return result.Revision, nil
}

// ConfigApply makes the staged changes at the given revision live.
func (c *Console) ConfigApply(ctx context.Context, revision int64) error {
	return c.exec(ctx, "config.apply", map[string]int64{"revision": revision})
}
