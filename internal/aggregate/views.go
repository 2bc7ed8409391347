// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package aggregate

import (
	"sort"

	"github.com/tomtom215/bookingpulse/internal/models"
)

// DefaultTopN is the number of rows in the top airports and countries lists.
const DefaultTopN = 10

// rankedKey is a count bucket.
type rankedKey struct {
	key   string
	count int
	// sample is the first booking that hit this bucket; it carries the
	// denormalized airport metadata for display.
	sample *models.NormalizedBooking
}

// rank orders buckets by count descending, breaking ties by first-seen
// order in the accepted log.
func rank(log []models.NormalizedBooking, counts map[string]int, keyOf func(*models.NormalizedBooking) string) []rankedKey {
	ranked := make([]rankedKey, 0, len(counts))
	seen := make(map[string]struct{}, len(counts))

	for i := range log {
		key := keyOf(&log[i])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ranked = append(ranked, rankedKey{key: key, count: counts[key], sample: &log[i]})
	}

	// ranked is in first-seen order, so a stable sort keeps ties in it.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	return ranked
}

func limit(ranked []rankedKey, n int) []rankedKey {
	if n > 0 && len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}

func airportKey(b *models.NormalizedBooking) string   { return b.AirportCode }
func countryKey(b *models.NormalizedBooking) string   { return b.Country }
func continentKey(b *models.NormalizedBooking) string { return b.Continent }

// TopAirports returns up to n airports by count.
func (a *DailyAggregate) TopAirports(n int) []models.AirportCount {
	ranked := limit(rank(a.AcceptedLog, a.CountByAirport, airportKey), n)
	out := make([]models.AirportCount, len(ranked))
	for i, r := range ranked {
		out[i] = models.AirportCount{
			IATA:    r.key,
			Airport: r.sample.AirportName,
			Country: r.sample.Country,
			Count:   r.count,
		}
	}
	return out
}

// TopCountries returns up to n countries by count.
func (a *DailyAggregate) TopCountries(n int) []models.CountryCount {
	ranked := limit(rank(a.AcceptedLog, a.CountByCountry, countryKey), n)
	out := make([]models.CountryCount, len(ranked))
	for i, r := range ranked {
		out[i] = models.CountryCount{Country: r.key, Count: r.count}
	}
	return out
}

// Continents returns every continent by count.
func (a *DailyAggregate) Continents() []models.ContinentCount {
	ranked := rank(a.AcceptedLog, a.CountByContinent, continentKey)
	out := make([]models.ContinentCount, len(ranked))
	for i, r := range ranked {
		out[i] = models.ContinentCount{Continent: r.key, Count: r.count}
	}
	return out
}

// Dashboard builds the dashboard snapshot with topN rows per list.
func (a *DailyAggregate) Dashboard(topN int) models.DashboardResponse {
	return models.DashboardResponse{
		TotalBookings: a.TotalCount,
		TopAirports:   a.TopAirports(topN),
		TopCountries:  a.TopCountries(topN),
		ContinentData: a.Continents(),
		LastUpdated:   a.LastUpdatedAt,
	}
}

// MapPoints returns one point per airport with bookings, ordered like the
// top airports list.
func (a *DailyAggregate) MapPoints() []models.MapPoint {
	ranked := rank(a.AcceptedLog, a.CountByAirport, airportKey)
	out := make([]models.MapPoint, len(ranked))
	for i, r := range ranked {
		out[i] = models.MapPoint{
			IATA:      r.key,
			Airport:   r.sample.AirportName,
			Country:   r.sample.Country,
			Continent: r.sample.Continent,
			Lat:       r.sample.Latitude,
			Lng:       r.sample.Longitude,
			Count:     r.count,
		}
	}
	return out
}
