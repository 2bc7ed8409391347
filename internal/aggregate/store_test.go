// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package aggregate

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/models"
)

var epoch = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func booking(id, code, country, continent string) models.NormalizedBooking {
	return models.NormalizedBooking{
		ID:          id,
		AirportCode: code,
		AirportName: code + " Airport",
		Country:     country,
		Continent:   continent,
		Date:        "2026-03-10",
		Status:      models.StatusConfirmed,
	}
}

func checkInvariant(t *testing.T, a *DailyAggregate) {
	t.Helper()
	sum := 0
	for _, c := range a.CountByAirport {
		sum += c
	}
	if a.TotalCount != sum || a.TotalCount != len(a.AcceptedLog) {
		t.Fatalf("invariant broken: total=%d sum(airports)=%d len(log)=%d", a.TotalCount, sum, len(a.AcceptedLog))
	}
}

func TestStore_MutateIncrementsEveryBucket(t *testing.T) {
	t.Parallel()

	clk := clock.Fake(epoch)
	s := NewStore(clk)

	clk.Advance(time.Minute)
	res := s.Mutate(booking("B1", "JFK", "United States", "North America"))

	if res.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", res.TotalCount)
	}
	if !res.Booking.AcceptedAt.Equal(epoch.Add(time.Minute)) {
		t.Errorf("AcceptedAt = %v", res.Booking.AcceptedAt)
	}

	snap := s.Snapshot()
	checkInvariant(t, snap)
	if snap.CountByAirport["JFK"] != 1 || snap.CountByCountry["United States"] != 1 || snap.CountByContinent["North America"] != 1 {
		t.Errorf("counts = %v %v %v", snap.CountByAirport, snap.CountByCountry, snap.CountByContinent)
	}
	if !snap.LastUpdatedAt.Equal(epoch.Add(time.Minute)) {
		t.Errorf("LastUpdatedAt = %v", snap.LastUpdatedAt)
	}
}

func TestStore_SnapshotIsImmutable(t *testing.T) {
	t.Parallel()

	s := NewStore(clock.Fake(epoch))
	s.Mutate(booking("B1", "JFK", "United States", "North America"))
	before := s.Snapshot()

	s.Mutate(booking("B2", "JFK", "United States", "North America"))
	s.Mutate(booking("B3", "LHR", "United Kingdom", "Europe"))

	if before.TotalCount != 1 || before.CountByAirport["JFK"] != 1 || len(before.AcceptedLog) != 1 {
		t.Errorf("earlier snapshot changed: %+v", before)
	}
	checkInvariant(t, s.Snapshot())
}

func TestStore_RepeatedIDIsCountedAndFlagged(t *testing.T) {
	t.Parallel()

	s := NewStore(clock.Fake(epoch))
	first := s.Mutate(booking("B1", "JFK", "United States", "North America"))
	second := s.Mutate(booking("B1", "JFK", "United States", "North America"))

	if first.Repeated {
		t.Error("first occurrence flagged as repeated")
	}
	if !second.Repeated {
		t.Error("second occurrence not flagged as repeated")
	}
	if second.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", second.TotalCount)
	}
}

func TestStore_ResetAtBoundary(t *testing.T) {
	t.Parallel()

	clk := clock.Fake(epoch)
	s := NewStore(clk)
	s.Mutate(booking("B1", "JFK", "United States", "North America"))
	s.Mutate(booking("B2", "LHR", "United Kingdom", "Europe"))

	clk.Advance(16 * time.Hour)
	closed := s.ResetAtBoundary()

	if closed.TotalCount != 2 {
		t.Errorf("closed TotalCount = %d, want 2", closed.TotalCount)
	}
	snap := s.Snapshot()
	if snap.TotalCount != 0 || len(snap.CountByAirport) != 0 || len(snap.CountByCountry) != 0 ||
		len(snap.CountByContinent) != 0 || len(snap.AcceptedLog) != 0 {
		t.Errorf("aggregate not empty after reset: %+v", snap)
	}
	if !snap.StartedAt.Equal(epoch.Add(16 * time.Hour)) {
		t.Errorf("StartedAt = %v", snap.StartedAt)
	}

	if res := s.Mutate(booking("B1", "JFK", "United States", "North America")); res.Repeated {
		t.Error("booking ids should not carry across a reset")
	}
}

func TestStore_ConcurrentReadersSeeConsistentState(t *testing.T) {
	t.Parallel()

	s := NewStore(clock.Real())
	codes := []string{"JFK", "LHR", "CDG", "SIN"}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan string, 1)

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				a := s.Snapshot()
				sum := 0
				for _, c := range a.CountByAirport {
					sum += c
				}
				if sum != a.TotalCount || len(a.AcceptedLog) != a.TotalCount {
					select {
					case errs <- fmt.Sprintf("torn read: total=%d sum=%d log=%d", a.TotalCount, sum, len(a.AcceptedLog)):
					default:
					}
					return
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		code := codes[i%len(codes)]
		s.Mutate(booking(fmt.Sprintf("B%d", i), code, code+"-land", "Somewhere"))
		if i == 250 {
			s.ResetAtBoundary()
		}
	}
	close(stop)
	wg.Wait()

	select {
	case msg := <-errs:
		t.Fatal(msg)
	default:
	}
	if got := s.Snapshot().TotalCount; got != 249 {
		t.Errorf("TotalCount = %d, want 249", got)
	}
}
