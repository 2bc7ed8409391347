// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package models

// AirportRecord is one entry of the airport directory, keyed by IATA code.
type AirportRecord struct {
	Code      string  `json:"iata" validate:"required,alphanum,min=3,max=4"`
	Name      string  `json:"airport" validate:"required"`
	Country   string  `json:"country" validate:"required"`
	Continent string  `json:"continent" validate:"required"`
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lng" validate:"longitude"`
}
