// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package aggregate owns the daily booking aggregate.
//
// The Store follows a single-writer discipline: Mutate and ResetAtBoundary
// are serialized by one mutex, and each of them publishes a complete new
// DailyAggregate through an atomic pointer swap. Readers call Snapshot and
// receive an immutable value, so they never block the writer and can never
// observe a half-applied mutation or a partial reset.
package aggregate

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// DailyAggregate is one day's counters and accepted-booking log. Values
// returned by Snapshot must be treated as read-only.
//
// Invariant: TotalCount == sum(CountByAirport) == len(AcceptedLog).
type DailyAggregate struct {
	TotalCount       int
	CountByAirport   map[string]int
	CountByCountry   map[string]int
	CountByContinent map[string]int
	AcceptedLog      []models.NormalizedBooking
	LastUpdatedAt    time.Time
	StartedAt        time.Time
}

func newDailyAggregate(startedAt time.Time) *DailyAggregate {
	return &DailyAggregate{
		CountByAirport:   make(map[string]int),
		CountByCountry:   make(map[string]int),
		CountByContinent: make(map[string]int),
		LastUpdatedAt:    startedAt,
		StartedAt:        startedAt,
	}
}

// with returns a copy of a with booking applied. The receiver is untouched;
// the log shares its backing array with a, which is safe because entries
// below len(a.AcceptedLog) are never written again.
func (a *DailyAggregate) with(booking *models.NormalizedBooking, at time.Time) *DailyAggregate {
	next := &DailyAggregate{
		TotalCount:       a.TotalCount + 1,
		CountByAirport:   copyCounts(a.CountByAirport),
		CountByCountry:   copyCounts(a.CountByCountry),
		CountByContinent: copyCounts(a.CountByContinent),
		AcceptedLog:      append(a.AcceptedLog, *booking),
		LastUpdatedAt:    at,
		StartedAt:        a.StartedAt,
	}
	next.CountByAirport[booking.AirportCode]++
	next.CountByCountry[booking.Country]++
	next.CountByContinent[booking.Continent]++
	return next
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// MutateResult describes the outcome of one Mutate call.
type MutateResult struct {
	// Booking is the booking as recorded, with AcceptedAt set.
	Booking models.NormalizedBooking

	// TotalCount is the day's total after the mutation.
	TotalCount int

	// Repeated is true when the booking ID was already counted today. The
	// booking is still counted; ingestion does not deduplicate.
	Repeated bool
}

// Store holds the current DailyAggregate.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[DailyAggregate]
	seenIDs map[string]struct{}
	clock   clock.Clock
}

// NewStore creates a store holding an empty aggregate.
func NewStore(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	s := &Store{clock: clk, seenIDs: make(map[string]struct{})}
	s.current.Store(newDailyAggregate(clk.Now()))
	return s
}

// Mutate records an accepted booking. It is the only write path for
// counters and must only be called for validated bookings.
func (s *Store) Mutate(booking models.NormalizedBooking) MutateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	booking.AcceptedAt = now

	next := s.current.Load().with(&booking, now)

	_, repeated := s.seenIDs[booking.ID]
	s.seenIDs[booking.ID] = struct{}{}

	s.current.Store(next)
	return MutateResult{Booking: booking, TotalCount: next.TotalCount, Repeated: repeated}
}

// Snapshot returns the current aggregate. The result is immutable.
func (s *Store) Snapshot() *DailyAggregate {
	return s.current.Load()
}

// ResetAtBoundary replaces the aggregate with a fresh empty one in a single
// swap and returns the aggregate that was replaced.
func (s *Store) ResetAtBoundary() *DailyAggregate {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seenIDs = make(map[string]struct{})
	return s.current.Swap(newDailyAggregate(s.clock.Now()))
}
