// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package animation

import (
	"time"

	"golang.org/x/time/rate"
)

// Config holds playback timings and prefetch limits.
type Config struct {
	FocusZoom    float64
	FlyDuration  time.Duration
	ReadyTimeout time.Duration
	HoldDuration time.Duration

	// PrefetchAhead is how many queued entries after the current one are
	// prefetched. 0 disables prefetching.
	PrefetchAhead       int
	PrefetchDedupWindow time.Duration
	PrefetchRate        rate.Limit
	PrefetchBurst       int
}

// DefaultConfig returns the standard playback timings.
func DefaultConfig() Config {
	return Config{
		FocusZoom:           6,
		FlyDuration:         2 * time.Second,
		ReadyTimeout:        3 * time.Second,
		HoldDuration:        3 * time.Second,
		PrefetchAhead:       3,
		PrefetchDedupWindow: 5 * time.Minute,
		PrefetchRate:        2,
		PrefetchBurst:       1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FocusZoom <= 0 {
		c.FocusZoom = d.FocusZoom
	}
	if c.FlyDuration < 0 {
		c.FlyDuration = 0
	}
	if c.HoldDuration < 0 {
		c.HoldDuration = 0
	}
	if c.PrefetchAhead < 0 {
		c.PrefetchAhead = 0
	}
	if c.PrefetchAhead > 3 {
		c.PrefetchAhead = 3
	}
	if c.PrefetchDedupWindow <= 0 {
		c.PrefetchDedupWindow = d.PrefetchDedupWindow
	}
	if c.PrefetchRate <= 0 {
		c.PrefetchRate = d.PrefetchRate
	}
	if c.PrefetchBurst <= 0 {
		c.PrefetchBurst = d.PrefetchBurst
	}
	return c
}
