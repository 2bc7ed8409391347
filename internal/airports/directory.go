// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package airports provides the static airport directory used to resolve
// arrival codes into display names, countries, continents and coordinates.
//
// The directory is loaded once at startup and is read-only afterwards, so
// lookups need no locking. A bundled dataset of major airports is embedded;
// a larger dataset can be supplied as a JSON file in either of two shapes:
//
//	[{"iata": "JFK", "airport": "...", "country": "...", "continent": "...", "lat": 40.6, "lng": -73.7}]
//	{"JFK": {"airport": "...", "country": "...", "continent": "...", "lat": 40.6, "lng": -73.7}}
package airports

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-json"

	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/models"
	"github.com/tomtom215/bookingpulse/internal/validation"
)

//go:embed data/airports.json
var bundledAirports []byte

// ErrEmptyDirectory is returned when a dataset contains no usable records.
var ErrEmptyDirectory = errors.New("airport directory is empty")

// Directory maps IATA codes to airport records.
type Directory struct {
	records map[string]models.AirportRecord
}

// New builds a directory from records. Codes are normalized to upper case.
// Records failing validation are skipped with a warning; a later duplicate
// replaces an earlier one.
func New(records []models.AirportRecord) (*Directory, error) {
	d := &Directory{records: make(map[string]models.AirportRecord, len(records))}
	skipped := 0

	for i := range records {
		rec := records[i]
		rec.Code = validation.NormalizeAirportCode(rec.Code)
		if err := validation.ValidateStruct(&rec); err != nil {
			skipped++
			logging.Warn().Str("iata", rec.Code).Str("reason", err.Error()).Msg("Skipping invalid airport record")
			continue
		}
		if _, dup := d.records[rec.Code]; dup {
			logging.Debug().Str("iata", rec.Code).Msg("Duplicate airport record replaced")
		}
		d.records[rec.Code] = rec
	}

	if len(d.records) == 0 {
		return nil, ErrEmptyDirectory
	}
	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Int("loaded", len(d.records)).Msg("Airport directory loaded with invalid records")
	}
	return d, nil
}

// Parse decodes a dataset in list or keyed-object form.
func Parse(data []byte) (*Directory, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDirectory
	}

	switch trimmed[0] {
	case '[':
		var records []models.AirportRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode airport list: %w", err)
		}
		return New(records)
	case '{':
		var keyed map[string]models.AirportRecord
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, fmt.Errorf("decode airport map: %w", err)
		}
		records := make([]models.AirportRecord, 0, len(keyed))
		for code, rec := range keyed {
			if rec.Code == "" {
				rec.Code = code
			}
			records = append(records, rec)
		}
		sort.Slice(records, func(i, j int) bool { return records[i].Code < records[j].Code })
		return New(records)
	default:
		return nil, errors.New("airport dataset must be a JSON array or object")
	}
}

// Load reads the dataset at path, or the bundled dataset when path is empty.
func Load(path string) (*Directory, error) {
	if path == "" {
		return Bundled()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read airport dataset %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load airport dataset %s: %w", path, err)
	}
	return d, nil
}

// Bundled returns the embedded dataset of major airports.
func Bundled() (*Directory, error) {
	return Parse(bundledAirports)
}

// Lookup resolves code. The code is expected in normalized (upper) form.
func (d *Directory) Lookup(code string) (models.AirportRecord, bool) {
	rec, ok := d.records[code]
	return rec, ok
}

// Len returns the number of airports loaded.
func (d *Directory) Len() int {
	return len(d.records)
}

// Codes returns every code in sorted order.
func (d *Directory) Codes() []string {
	codes := make([]string, 0, len(d.records))
	for code := range d.records {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
