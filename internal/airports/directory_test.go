// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package airports

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

func TestBundled(t *testing.T) {
	t.Parallel()

	d, err := Bundled()
	if err != nil {
		t.Fatalf("Bundled() error = %v", err)
	}
	if d.Len() < 50 {
		t.Errorf("Len() = %d, want at least 50", d.Len())
	}

	jfk, ok := d.Lookup("JFK")
	if !ok {
		t.Fatal("JFK missing from bundled dataset")
	}
	if jfk.Country != "United States" || jfk.Continent != "North America" {
		t.Errorf("JFK = %+v", jfk)
	}
	if _, ok := d.Lookup("ZZZ"); ok {
		t.Error("Lookup(ZZZ) should miss")
	}
}

func TestParse_KeyedObject(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"jfk": {"airport": "John F. Kennedy", "country": "United States", "continent": "North America", "lat": 40.64, "lng": -73.77},
		"LHR": {"iata": "LHR", "airport": "Heathrow", "country": "United Kingdom", "continent": "Europe", "lat": 51.47, "lng": -0.45}
	}`)

	d, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", d.Len())
	}
	if _, ok := d.Lookup("JFK"); !ok {
		t.Error("key from object map should be normalized to JFK")
	}
	if got := d.Codes(); got[0] != "JFK" || got[1] != "LHR" {
		t.Errorf("Codes() = %v", got)
	}
}

func TestNew_SkipsInvalidRecords(t *testing.T) {
	t.Parallel()

	d, err := New([]models.AirportRecord{
		{Code: "JFK", Name: "JFK", Country: "US", Continent: "North America", Latitude: 40, Longitude: -73},
		{Code: "", Name: "Nameless", Country: "US", Continent: "North America"},
		{Code: "BAD", Name: "Bad Lat", Country: "US", Continent: "North America", Latitude: 123},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"scalar", `"JFK"`},
		{"broken list", `[{"iata": "JFK"`},
		{"only invalid", `[{"iata": ""}]`},
	}
	for _, tt := range tests {
		if _, err := Parse([]byte(tt.data)); err == nil {
			t.Errorf("%s: Parse() error = nil, want error", tt.name)
		}
	}

	if _, err := Parse([]byte(`[]`)); !errors.Is(err, ErrEmptyDirectory) {
		t.Errorf("Parse([]) error = %v, want ErrEmptyDirectory", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "airports.json")
	content := `[{"iata": "CDG", "airport": "Charles de Gaulle", "country": "France", "continent": "Europe", "lat": 49.0, "lng": 2.5}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load(missing) error = nil")
	}

	bundled, err := Load("")
	if err != nil || bundled.Len() == 0 {
		t.Errorf("Load(\"\") = %v, %v", bundled, err)
	}
}
