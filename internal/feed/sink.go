// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package feed consumes the server's live booking feed: a poller over
// /api/bookings/recent and a push stream over /ws. Both hand each booking
// id to the sink at most once per window, so running them together is
// idempotent.
package feed

import (
	"github.com/tomtom215/bookingpulse/internal/metrics"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// Sink receives new bookings. animation.Processor implements it.
type Sink interface {
	Enqueue(booking models.BookingNotice) bool
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(models.BookingNotice) bool

// Enqueue calls f.
func (f SinkFunc) Enqueue(b models.BookingNotice) bool { return f(b) }

// deliver hands b to sink unless window has seen it. It reports whether
// the booking was new.
func deliver(source string, window *ProcessedIDWindow, sink Sink, b models.BookingNotice) bool {
	if b.ID == "" || !window.Observe(b.ID) {
		metrics.RecordFeedBooking(source, true)
		return false
	}
	metrics.RecordFeedBooking(source, false)
	sink.Enqueue(b)
	return true
}
