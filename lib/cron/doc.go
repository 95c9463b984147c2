// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

// Package cron parses 5-field cron expressions and computes upcoming
// occurrences. The console uses it to preview when a gateway-side
// scheduled job will fire next; the gateway remains the source of
// truth for actual execution.
//
// Field layout:
//
//	minute (0-59)  hour (0-23)  day-of-month (1-31)  month (1-12)  day-of-week (0-7, both 0 and 7 mean Sunday)
//
// Each field accepts single values, ranges (1-5), lists (1,3,5),
// steps (*/15, 1-30/5), and the wildcard. The macros @hourly, @daily,
// @weekly, @monthly, and @yearly expand to their conventional
// five-field forms. All computation is in UTC.
package cron
