// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package clock abstracts time so the reset scheduler and the animation
// player can be driven deterministically in tests.
//
// Production code takes a Clock and is handed Real(); tests hand in
// Fake(start) and call Advance.
package clock

import (
	"context"
	"time"
)

// Clock is the subset of the time package used by BookingPulse.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTimer creates a Timer that fires once after d.
	NewTimer(d time.Duration) *Timer

	// NewTicker creates a Ticker that fires every d. Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Timer is a single scheduled event. Read from C; call Stop to cancel.
type Timer struct {
	C <-chan time.Time

	stopFunc func() bool
}

// Stop prevents the timer from firing. It reports whether the call stopped
// a pending timer.
func (t *Timer) Stop() bool { return t.stopFunc() }

// Ticker delivers ticks on C until stopped. C has capacity 1; slow readers
// miss ticks rather than queueing them.
type Ticker struct {
	C <-chan time.Time

	stopFunc func()
}

// Stop turns the ticker off. C is not closed.
func (t *Ticker) Stop() { t.stopFunc() }

// Sleep waits for d on c or until ctx is done, whichever comes first. The
// underlying timer is always stopped, so a cancelled wait leaves nothing
// pending.
func Sleep(ctx context.Context, c Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := c.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
