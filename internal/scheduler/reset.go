// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package scheduler runs the daily aggregate reset.
//
// The reset boundary is a cron expression evaluated in a fixed time zone,
// so the day closes at the same wall-clock moment regardless of the host's
// local zone. ResetService is a suture.Service: it sleeps on the injected
// clock until the next boundary, swaps the aggregate, and repeats.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookingpulse/internal/aggregate"
	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/metrics"
)

// DefaultResetCron closes the day at midnight.
const DefaultResetCron = "0 0 * * *"

// Resetter swaps the current aggregate for an empty one.
type Resetter interface {
	ResetAtBoundary() *aggregate.DailyAggregate
}

// ResetFunc observes a completed reset. closed is the aggregate that was
// replaced.
type ResetFunc func(boundary time.Time, closed *aggregate.DailyAggregate)

// ResetService resets the aggregate once per cron boundary.
type ResetService struct {
	cron     *CronExpression
	location *time.Location
	store    Resetter
	clock    clock.Clock
	onReset  []ResetFunc
	logger   zerolog.Logger
}

// NewResetService creates a reset service. A nil location means UTC and a
// nil clock means the real clock.
func NewResetService(cronExpr string, loc *time.Location, store Resetter, clk clock.Clock) (*ResetService, error) {
	if store == nil {
		return nil, errors.New("reset service requires a store")
	}
	expr, err := ParseCron(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse reset schedule: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &ResetService{
		cron:     expr,
		location: loc,
		store:    store,
		clock:    clk,
		logger:   logging.With().Str("component", "reset-scheduler").Logger(),
	}, nil
}

// OnReset registers fn to run after every reset.
func (s *ResetService) OnReset(fn ResetFunc) {
	s.onReset = append(s.onReset, fn)
}

// NextBoundary returns the first boundary after t.
func (s *ResetService) NextBoundary(t time.Time) time.Time {
	return s.cron.NextRun(t, s.location)
}

// Serve implements suture.Service. It returns ctx.Err() on shutdown.
func (s *ResetService) Serve(ctx context.Context) error {
	s.logger.Info().
		Str("schedule", s.cron.String()).
		Str("timezone", s.location.String()).
		Time("next_reset", s.NextBoundary(s.clock.Now())).
		Msg("Reset scheduler started")

	var last time.Time
	for {
		from := s.clock.Now()
		if from.Before(last) {
			from = last
		}
		next := s.NextBoundary(from)
		if next.IsZero() {
			return fmt.Errorf("reset schedule %q never fires", s.cron.String())
		}

		if err := clock.Sleep(ctx, s.clock, next.Sub(s.clock.Now())); err != nil {
			return err
		}

		s.reset(next)
		last = next
	}
}

// String implements fmt.Stringer for suture logging.
func (s *ResetService) String() string {
	return "reset-scheduler"
}

func (s *ResetService) reset(boundary time.Time) {
	closed := s.store.ResetAtBoundary()
	metrics.RecordReset(boundary)

	event := s.logger.Info().Time("boundary", boundary)
	if closed != nil {
		event = event.
			Int("total", closed.TotalCount).
			Int("airports", len(closed.CountByAirport)).
			Int("countries", len(closed.CountByCountry)).
			Time("started_at", closed.StartedAt)
	}
	event.Msg("Daily aggregate reset")

	for _, fn := range s.onReset {
		fn(boundary, closed)
	}
}
