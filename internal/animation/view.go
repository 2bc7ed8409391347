// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package animation

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/bookingpulse/internal/models"
)

// Camera is a map viewpoint.
type Camera struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

// Key returns the coordinate key of the camera position.
func (c Camera) Key() string { return CoordinateKey(c.Lat, c.Lng) }

// MapView is the rendering surface the processor drives. Implementations
// must honor ctx: a cancelled call returns promptly.
type MapView interface {
	// Camera returns the current viewpoint.
	Camera() Camera

	// FlyTo starts an animated transition and returns without waiting for
	// it to finish.
	FlyTo(ctx context.Context, target Camera, duration time.Duration) error

	// WaitReady blocks until the surface has finished loading at the
	// current viewpoint.
	WaitReady(ctx context.Context) error

	ShowMarker(ctx context.Context, booking models.BookingNotice) error
	HideMarker(ctx context.Context, booking models.BookingNotice) error

	// Prefetch warms the tiles around target without a visible change and
	// leaves the camera where it was.
	Prefetch(ctx context.Context, target Camera) error
}

// Entry is one queued arrival.
type Entry struct {
	Booking    models.BookingNotice
	EnqueuedAt time.Time
}

// Key returns the coordinate key of the entry's airport.
func (e Entry) Key() string { return CoordinateKey(e.Booking.Lat(), e.Booking.Lng()) }

// CoordinateKey identifies a location for prefetch deduplication. Four
// decimals is about 11 m, far below one tile at any zoom used here.
func CoordinateKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}
