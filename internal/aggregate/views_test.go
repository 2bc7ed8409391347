// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package aggregate

import (
	"fmt"
	"testing"

	"github.com/tomtom215/bookingpulse/internal/clock"
)

func TestTopAirports_DescendingWithFirstSeenTies(t *testing.T) {
	t.Parallel()

	s := NewStore(clock.Fake(epoch))
	// LHR first seen, then CDG, then JFK. JFK gets 3, LHR and CDG tie at 2.
	s.Mutate(booking("1", "LHR", "United Kingdom", "Europe"))
	s.Mutate(booking("2", "CDG", "France", "Europe"))
	s.Mutate(booking("3", "JFK", "United States", "North America"))
	s.Mutate(booking("4", "JFK", "United States", "North America"))
	s.Mutate(booking("5", "CDG", "France", "Europe"))
	s.Mutate(booking("6", "LHR", "United Kingdom", "Europe"))
	s.Mutate(booking("7", "JFK", "United States", "North America"))
	s.Mutate(booking("8", "SIN", "Singapore", "Asia"))

	got := s.Snapshot().TopAirports(10)
	want := []struct {
		iata  string
		count int
	}{{"JFK", 3}, {"LHR", 2}, {"CDG", 2}, {"SIN", 1}}

	if len(got) != len(want) {
		t.Fatalf("TopAirports() len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].IATA != w.iata || got[i].Count != w.count {
			t.Errorf("TopAirports()[%d] = %s/%d, want %s/%d", i, got[i].IATA, got[i].Count, w.iata, w.count)
		}
	}
	if got[0].Airport != "JFK Airport" || got[0].Country != "United States" {
		t.Errorf("airport metadata = %+v", got[0])
	}
}

func TestTopAirports_Limit(t *testing.T) {
	t.Parallel()

	s := NewStore(clock.Fake(epoch))
	for i := 0; i < 15; i++ {
		code := fmt.Sprintf("A%02d", i)
		s.Mutate(booking(code, code, "C"+code, "Europe"))
	}

	a := s.Snapshot()
	if got := len(a.TopAirports(DefaultTopN)); got != DefaultTopN {
		t.Errorf("len(TopAirports(10)) = %d", got)
	}
	if got := a.TopAirports(DefaultTopN)[0].IATA; got != "A00" {
		t.Errorf("first tie = %s, want A00 (first seen)", got)
	}
	if got := len(a.TopCountries(3)); got != 3 {
		t.Errorf("len(TopCountries(3)) = %d", got)
	}
	if got := len(a.MapPoints()); got != 15 {
		t.Errorf("len(MapPoints()) = %d, want 15", got)
	}
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	clk := clock.Fake(epoch)
	s := NewStore(clk)
	s.Mutate(booking("1", "JFK", "United States", "North America"))
	s.Mutate(booking("2", "LHR", "United Kingdom", "Europe"))
	s.Mutate(booking("3", "CDG", "France", "Europe"))

	d := s.Snapshot().Dashboard(DefaultTopN)
	if d.TotalBookings != 3 {
		t.Errorf("TotalBookings = %d", d.TotalBookings)
	}
	if len(d.ContinentData) != 2 || d.ContinentData[0].Continent != "Europe" || d.ContinentData[0].Count != 2 {
		t.Errorf("ContinentData = %+v", d.ContinentData)
	}
	if len(d.TopCountries) != 3 || d.TopCountries[0].Country != "United States" {
		t.Errorf("TopCountries = %+v", d.TopCountries)
	}
	if !d.LastUpdated.Equal(epoch) {
		t.Errorf("LastUpdated = %v", d.LastUpdated)
	}
}

func TestViews_EmptyAggregate(t *testing.T) {
	t.Parallel()

	a := NewStore(clock.Fake(epoch)).Snapshot()
	d := a.Dashboard(DefaultTopN)
	if d.TotalBookings != 0 || len(d.TopAirports) != 0 || len(d.TopCountries) != 0 || len(d.ContinentData) != 0 {
		t.Errorf("non-empty dashboard for empty aggregate: %+v", d)
	}
	if d.TopAirports == nil || d.ContinentData == nil {
		t.Error("empty lists should encode as [] not null")
	}
	if points := a.MapPoints(); points == nil || len(points) != 0 {
		t.Errorf("MapPoints() = %v", points)
	}
}

func TestMapPoints_CarryCoordinates(t *testing.T) {
	t.Parallel()

	s := NewStore(clock.Fake(epoch))
	b := booking("1", "JFK", "United States", "North America")
	b.Latitude, b.Longitude = 40.6413, -73.7781
	s.Mutate(b)

	points := s.Snapshot().MapPoints()
	if len(points) != 1 {
		t.Fatalf("len = %d", len(points))
	}
	p := points[0]
	if p.Lat != 40.6413 || p.Lng != -73.7781 || p.Continent != "North America" || p.Count != 1 {
		t.Errorf("MapPoints()[0] = %+v", p)
	}
}
