// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package animation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// LogView is a MapView that renders nothing and logs every command. It is
// what the headless arrivals client drives.
type LogView struct {
	mu     sync.Mutex
	camera Camera
	logger zerolog.Logger
}

// NewLogView creates a LogView starting at home.
func NewLogView(home Camera) *LogView {
	return &LogView{
		camera: home,
		logger: logging.With().Str("component", "map-view").Logger(),
	}
}

func (v *LogView) Camera() Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera
}

func (v *LogView) FlyTo(_ context.Context, target Camera, duration time.Duration) error {
	v.mu.Lock()
	v.camera = target
	v.mu.Unlock()
	v.logger.Info().
		Float64("lat", target.Lat).
		Float64("lng", target.Lng).
		Float64("zoom", target.Zoom).
		Dur("duration", duration).
		Msg("Fly")
	return nil
}

func (v *LogView) WaitReady(ctx context.Context) error {
	return ctx.Err()
}

func (v *LogView) ShowMarker(_ context.Context, b models.BookingNotice) error {
	v.logger.Info().
		Str("booking_id", b.ID).
		Str("airport", b.Airport).
		Str("name", b.AirportName).
		Str("country", b.Country).
		Msg("Arrival")
	return nil
}

func (v *LogView) HideMarker(_ context.Context, b models.BookingNotice) error {
	v.logger.Debug().Str("booking_id", b.ID).Msg("Marker hidden")
	return nil
}

func (v *LogView) Prefetch(ctx context.Context, target Camera) error {
	v.logger.Debug().Str("key", target.Key()).Msg("Prefetch")
	return ctx.Err()
}
