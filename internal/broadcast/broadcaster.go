// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package broadcast distributes accepted bookings to observers.
//
// Two channels are offered. The poll store keeps a bounded window of recent
// notices with monotonically increasing sequence numbers, which pollers
// page through with a since cursor; delivery is at-least-once and pollers
// deduplicate by booking id. The hub pushes each notice to the subscribers
// registered at the time, with no replay for late joiners and immediate
// removal of any subscriber that cannot keep up.
package broadcast

import (
	"context"

	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// Broadcaster appends accepted bookings to the poll store and pushes them
// to the hub.
type Broadcaster struct {
	polls *PollStore
	hub   *Hub
}

// New creates a Broadcaster over the given poll store and hub.
func New(polls *PollStore, hub *Hub) *Broadcaster {
	return &Broadcaster{polls: polls, hub: hub}
}

// Publish distributes b. A slow or disconnected subscriber never causes an
// error here; the returned notice carries the assigned sequence number.
func (b *Broadcaster) Publish(ctx context.Context, booking models.NormalizedBooking) models.BookingNotice {
	notice := b.polls.Append(&booking)

	pushed := b.hub.Broadcast(models.PushMessage{Type: models.PushTypeNewBooking, Booking: &notice})
	logging.Ctx(ctx).Debug().
		Uint64("seq", notice.Seq).
		Str("airport", notice.Airport).
		Bool("pushed", pushed).
		Msg("Booking broadcast")
	return notice
}

// Polls returns the poll store.
func (b *Broadcaster) Polls() *PollStore { return b.polls }

// Hub returns the push registry.
func (b *Broadcaster) Hub() *Hub { return b.hub }
