// Copyright 2026 The Anteroom Authors
// SPDX-License-Identifier: Apache-2.0

package cron

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Spec is a parsed cron expression. The zero value matches nothing;
// build one with Parse.
type Spec struct {
	minute fieldMask
	hour   fieldMask
	dom    fieldMask
	month  fieldMask
	dow    fieldMask
}

// fieldMask packs a cron field's allowed values into a uint64 set.
// Every field's range fits in 64 bits.
type fieldMask uint64

func (m fieldMask) allows(v int) bool { return m&(1<<uint(v)) != 0 }
func (m *fieldMask) allow(v int)      { *m |= 1 << uint(v) }

// macros are the @-shortcuts accepted in place of a full expression.
var macros = map[string]string{
	"@hourly":  "0 * * * *",
	"@daily":   "0 0 * * *",
	"@weekly":  "0 0 * * 0",
	"@monthly": "0 0 1 * *",
	"@yearly":  "0 0 1 1 *",
}

// Parse parses a 5-field cron expression or a supported @macro.
func Parse(expression string) (Spec, error) {
	trimmed := strings.TrimSpace(expression)
	if expanded, ok := macros[trimmed]; ok {
		trimmed = expanded
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 5 {
		return Spec{}, fmt.Errorf("cron: expected 5 fields in %q, got %d", expression, len(fields))
	}

	minute, err := parseField(fields[0], 0, 59)
	if err != nil {
		return Spec{}, fmt.Errorf("cron: minute field: %w", err)
	}
	hour, err := parseField(fields[1], 0, 23)
	if err != nil {
		return Spec{}, fmt.Errorf("cron: hour field: %w", err)
	}
	dom, err := parseField(fields[2], 1, 31)
	if err != nil {
		return Spec{}, fmt.Errorf("cron: day-of-month field: %w", err)
	}
	month, err := parseField(fields[3], 1, 12)
	if err != nil {
		return Spec{}, fmt.Errorf("cron: month field: %w", err)
	}
	dow, err := parseField(fields[4], 0, 7)
	if err != nil {
		return Spec{}, fmt.Errorf("cron: day-of-week field: %w", err)
	}
	// 7 is an alias for Sunday; fold it onto 0 so matching only ever
	// consults 0-6.
	if dow.allows(7) {
		dow.allow(0)
	}

	return Spec{minute: minute, hour: hour, dom: dom, month: month, dow: dow}, nil
}

// Next returns the earliest time strictly after t that the spec
// matches, in UTC.
//
// The search stops after 4 years, which covers every leap cycle; an
// impossible spec such as minute 0 of Feb 30 returns an error instead
// of spinning forever.
func (s Spec) Next(t time.Time) (time.Time, error) {
	t = t.UTC().Truncate(time.Minute).Add(time.Minute)
	limit := t.AddDate(4, 0, 0)

	for t.Before(limit) {
		if !s.month.allows(int(t.Month())) {
			t = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
			continue
		}

		// Wildcard fields have every bit set, so checking both day
		// constraints gives AND-with-wildcard semantics without
		// tracking which fields were restricted.
		if !s.dom.allows(t.Day()) || !s.dow.allows(int(t.Weekday())) {
			t = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, time.UTC)
			continue
		}

		if !s.hour.allows(t.Hour()) {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, time.UTC)
			continue
		}

		if !s.minute.allows(t.Minute()) {
			t = t.Add(time.Minute)
			continue
		}

		return t, nil
	}

	return time.Time{}, fmt.Errorf("cron: no matching time within 4 years of %s", t.Format(time.RFC3339))
}

// Upcoming returns the next count occurrences strictly after t, in
// order. It stops short if the spec runs out of matches within the
// search horizon.
func (s Spec) Upcoming(t time.Time, count int) ([]time.Time, error) {
	times := make([]time.Time, 0, count)
	for len(times) < count {
		next, err := s.Next(t)
		if err != nil {
			if len(times) > 0 {
				return times, nil
			}
			return nil, err
		}
		times = append(times, next)
		t = next
	}
	return times, nil
}

// parseField parses one comma-separated cron field into a mask.
func parseField(field string, lo, hi int) (fieldMask, error) {
	var mask fieldMask
	for _, part := range strings.Split(field, ",") {
		bits, err := parsePart(part, lo, hi)
		if err != nil {
			return 0, err
		}
		mask |= bits
	}
	if mask == 0 {
		return 0, fmt.Errorf("field %q matches nothing", field)
	}
	return mask, nil
}

// parsePart parses one term of a field: *, */N, V, V-V, or V-V/N.
func parsePart(part string, lo, hi int) (fieldMask, error) {
	body, stepText, hasStep := strings.Cut(part, "/")
	step := 1
	if hasStep {
		parsed, err := strconv.Atoi(stepText)
		if err != nil {
			return 0, fmt.Errorf("invalid step %q: %w", stepText, err)
		}
		if parsed <= 0 {
			return 0, fmt.Errorf("step must be positive, got %d", parsed)
		}
		step = parsed
	}

	var first, last int
	switch {
	case body == "*":
		first, last = lo, hi
	case strings.Contains(body, "-"):
		fromText, toText, _ := strings.Cut(body, "-")
		var err error
		first, err = strconv.Atoi(fromText)
		if err != nil {
			return 0, fmt.Errorf("invalid range start %q: %w", fromText, err)
		}
		last, err = strconv.Atoi(toText)
		if err != nil {
			return 0, fmt.Errorf("invalid range end %q: %w", toText, err)
		}
		if first > last {
			return 0, fmt.Errorf("range start %d > end %d", first, last)
		}
	default:
		value, err := strconv.Atoi(body)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q: %w", body, err)
		}
		first, last = value, value
	}

	if first < lo || last > hi {
		return 0, fmt.Errorf("value out of range [%d-%d]: got %d-%d", lo, hi, first, last)
	}

	var mask fieldMask
	for v := first; v <= last; v += step {
		mask.allow(v)
	}
	return mask, nil
}
