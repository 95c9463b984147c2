// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anteroom-foundation/anteroom/lib/cron"
)

// CronJob is one scheduled job as the gateway reports it.
type CronJob struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Schedule string          `json:"schedule"`
	Action   json.RawMessage `json:"action,omitempty"`
	Enabled  bool            `json:"enabled"`
	LastRun  *time.Time      `json:"lastRun,omitempty"`
}

// NextRuns previews the job's next count occurrences after now,
// computed locally from its schedule. The gateway stays authoritative
// for actual execution; this only serves display.
func (j CronJob) NextRuns(now time.Time, count int) ([]time.Time, error) {
	spec, err := cron.Parse(j.Schedule)
	if err != nil {
		return nil, err
	}
	return spec.Upcoming(now, count)
}

// CronJobSpec describes a job to create.
type CronJobSpec struct {
	Name     string          `json:"name"`
	Schedule string          `json:"schedule"`
	Action   json.RawMessage `json:"action,omitempty"`
	Enabled  bool            `json:"enabled"`
}

// CronList fetches all scheduled jobs.
func (c *Console) CronList(ctx context.Context) ([]CronJob, error) {
	return call[[]CronJob](ctx, c, "cron.list", nil)
}

// CronAdd creates a job and returns it with its gateway-assigned id.
// The schedule is validated locally before the request goes out, so a
// typo fails without a round trip.
func (c *Console) CronAdd(ctx context.Context, spec CronJobSpec) (CronJob, error) {
	if spec.Name == "" {
		return CronJob{}, fmt.Errorf("console: cron job needs a name")
	}
	if _, err := cron.Parse(spec.Schedule); err != nil {
		return CronJob{}, fmt.Errorf("console: invalid schedule: %w", err)
	}
	return call[CronJob](ctx, c, "cron.add", spec)
}

// CronRemove deletes the job with the given id.
func (c *Console) CronRemove(ctx context.Context, id string) error {
	return c.exec(ctx, "cron.remove", map[string]string{"id": id})
}

// CronRunReceipt acknowledges a manually triggered run.
type CronRunReceipt struct {
	JobID     string    `json:"jobId"`
	StartedAt time.Time `json:"startedAt"`
}

// CronRun triggers an immediate run of the job, outside its schedule.
func (c *Console) CronRun(ctx context.Context, id string) (CronRunReceipt, error) {
	return call[CronRunReceipt](ctx, c, "cron.run", map[string]string{"id": id})
}
