// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// searchHorizon bounds NextRun. Any valid five-field expression matches at
// least once in four years (Feb 29 included).
const searchHorizon = 4 * 366 * 24 * time.Hour

// CronExpression is a parsed five-field cron expression:
// minute hour day-of-month month day-of-week.
type CronExpression struct {
	Minutes     []int // 0-59
	Hours       []int // 0-23
	DaysOfMonth []int // 1-31
	Months      []int // 1-12
	DaysOfWeek  []int // 0-6, Sunday is 0

	source string
}

// ParseCron parses a five-field cron expression. Each field accepts *, a
// value, a range (a-b), a list (a,b,c) and steps (*/n, a-b/n, a/n). Day of
// week 7 is treated as Sunday.
//
//   - "0 0 * * *"    midnight every day
//   - "30 2 * * 1-5" 02:30 on weekdays
//   - "*/15 * * * *" every 15 minutes
func ParseCron(expr string) (*CronExpression, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return nil, fmt.Errorf("cron expression %q must have 5 fields, got %d", expr, len(fields))
	}

	specs := []struct {
		name     string
		min, max int
	}{
		{"minute", 0, 59},
		{"hour", 0, 23},
		{"day-of-month", 1, 31},
		{"month", 1, 12},
		{"day-of-week", 0, 7},
	}

	parsed := make([][]int, len(fields))
	for i, spec := range specs {
		values, err := parseField(fields[i], spec.min, spec.max)
		if err != nil {
			return nil, fmt.Errorf("invalid %s field: %w", spec.name, err)
		}
		parsed[i] = values
	}

	dow := parsed[4][:0:0]
	for _, d := range parsed[4] {
		dow = append(dow, d%7)
	}

	return &CronExpression{
		Minutes:     parsed[0],
		Hours:       parsed[1],
		DaysOfMonth: parsed[2],
		Months:      parsed[3],
		DaysOfWeek:  normalize(dow),
		source:      strings.Join(fields, " "),
	}, nil
}

// String returns the normalized expression text.
func (c *CronExpression) String() string { return c.source }

// NextRun returns the first matching minute strictly after the given time,
// evaluated as wall-clock time in loc (UTC when nil). It returns the zero
// time if nothing matches within the search horizon.
func (c *CronExpression) NextRun(after time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	t := after.In(loc).Truncate(time.Minute).Add(time.Minute)
	deadline := t.Add(searchHorizon)
	for t.Before(deadline) {
		if c.matches(t) {
			return t
		}
		t = t.Add(time.Minute)
	}
	return time.Time{}
}

func (c *CronExpression) matches(t time.Time) bool {
	if !contains(c.Minutes, t.Minute()) || !contains(c.Hours, t.Hour()) || !contains(c.Months, int(t.Month())) {
		return false
	}

	// Classic cron: when both day fields are restricted either may match.
	domAny := len(c.DaysOfMonth) == 31
	dowAny := len(c.DaysOfWeek) == 7
	domHit := contains(c.DaysOfMonth, t.Day())
	dowHit := contains(c.DaysOfWeek, int(t.Weekday()))

	switch {
	case domAny && dowAny:
		return true
	case domAny:
		return dowHit
	case dowAny:
		return domHit
	default:
		return domHit || dowHit
	}
}

func parseField(field string, lo, hi int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(field, ",") {
		values, err := parsePart(part, lo, hi)
		if err != nil {
			return nil, err
		}
		out = append(out, values...)
	}
	return normalize(out), nil
}

func parsePart(part string, lo, hi int) ([]int, error) {
	rangeText, step := part, 1
	if base, stepText, ok := strings.Cut(part, "/"); ok {
		n, err := strconv.Atoi(stepText)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid step %q", stepText)
		}
		rangeText, step = base, n
	}

	start, end := lo, hi
	switch {
	case rangeText == "*":
	case strings.Contains(rangeText, "-"):
		a, b, _ := strings.Cut(rangeText, "-")
		var err error
		if start, err = atoiInRange(a, lo, hi); err != nil {
			return nil, err
		}
		if end, err = atoiInRange(b, lo, hi); err != nil {
			return nil, err
		}
		if start > end {
			return nil, fmt.Errorf("invalid range %q", rangeText)
		}
	default:
		v, err := atoiInRange(rangeText, lo, hi)
		if err != nil {
			return nil, err
		}
		start = v
		if step == 1 {
			end = v
		}
	}

	var out []int
	for v := start; v <= end; v += step {
		out = append(out, v)
	}
	return out, nil
}

func atoiInRange(s string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("value %d out of range %d-%d", v, lo, hi)
	}
	return v, nil
}

func contains(values []int, v int) bool {
	i := sort.SearchInts(values, v)
	return i < len(values) && values[i] == v
}

// normalize sorts values and drops duplicates.
func normalize(values []int) []int {
	sort.Ints(values)
	out := values[:0]
	for _, v := range values {
		if len(out) == 0 || out[len(out)-1] != v {
			out = append(out, v)
		}
	}
	return out
}
