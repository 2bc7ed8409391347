// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package broadcast

import (
	"fmt"
	"io"
	"testing"

	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

func testBooking(id string) *models.NormalizedBooking {
	return &models.NormalizedBooking{
		ID:          id,
		AirportCode: "JFK",
		AirportName: "John F. Kennedy International Airport",
		Country:     "United States",
		Continent:   "North America",
		Latitude:    40.6413,
		Longitude:   -73.7781,
		Date:        "2026-03-10",
	}
}

func TestPollStore_SequenceAndSince(t *testing.T) {
	t.Parallel()

	p := NewPollStore(10)
	for i := 1; i <= 3; i++ {
		n := p.Append(testBooking(fmt.Sprintf("B%d", i)))
		if n.Seq != uint64(i) {
			t.Errorf("Append #%d Seq = %d", i, n.Seq)
		}
	}

	all, latest := p.Since(0)
	if len(all) != 3 || latest != 3 {
		t.Fatalf("Since(0) = %d entries, latest %d", len(all), latest)
	}
	if all[0].ID != "B1" || all[2].ID != "B3" {
		t.Errorf("Since(0) order = %s..%s", all[0].ID, all[2].ID)
	}
	if all[0].Coordinates != [2]float64{40.6413, -73.7781} {
		t.Errorf("Coordinates = %v", all[0].Coordinates)
	}

	tail, _ := p.Since(2)
	if len(tail) != 1 || tail[0].ID != "B3" {
		t.Errorf("Since(2) = %+v", tail)
	}

	none, latest := p.Since(3)
	if none == nil || len(none) != 0 || latest != 3 {
		t.Errorf("Since(3) = %v, %d; want empty non-nil, 3", none, latest)
	}
}

func TestPollStore_BoundedRing(t *testing.T) {
	t.Parallel()

	p := NewPollStore(3)
	for i := 1; i <= 7; i++ {
		p.Append(testBooking(fmt.Sprintf("B%d", i)))
	}

	if p.Len() != 3 {
		t.Errorf("Len() = %d, want 3", p.Len())
	}
	got, latest := p.Since(0)
	if latest != 7 {
		t.Errorf("latest = %d, want 7", latest)
	}
	want := []uint64{5, 6, 7}
	if len(got) != len(want) {
		t.Fatalf("Since(0) returned %d entries, want %d", len(got), len(want))
	}
	for i, n := range got {
		if n.Seq != want[i] {
			t.Errorf("entry %d Seq = %d, want %d", i, n.Seq, want[i])
		}
	}

	// A cursor older than the window returns what is left.
	if got, _ := p.Since(2); len(got) != 3 {
		t.Errorf("Since(2) = %d entries, want 3", len(got))
	}
}

func TestPollStore_DefaultCapacity(t *testing.T) {
	t.Parallel()

	p := NewPollStore(0)
	for i := 0; i < DefaultPollCapacity+5; i++ {
		p.Append(testBooking("B"))
	}
	if p.Len() != DefaultPollCapacity {
		t.Errorf("Len() = %d, want %d", p.Len(), DefaultPollCapacity)
	}
	if p.LatestSeq() != DefaultPollCapacity+5 {
		t.Errorf("LatestSeq() = %d", p.LatestSeq())
	}
}
