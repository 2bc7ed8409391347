// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package models

import (
	"time"
)

// APIResponse is the error envelope used by non-ingestion routes.
//
//	{
//	  "status": "error",
//	  "error": {"code": "INVALID_PARAMETER", "message": "since must be a non-negative integer"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error code plus a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// AirportCount is one row of the top airports list.
type AirportCount struct {
	IATA    string `json:"iata"`
	Airport string `json:"airport"`
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// CountryCount is one row of the top countries list.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// ContinentCount is one row of the continent breakdown.
type ContinentCount struct {
	Continent string `json:"continent"`
	Count     int    `json:"count"`
}

// DashboardResponse is the dashboard snapshot.
type DashboardResponse struct {
	TotalBookings int              `json:"totalBookings"`
	TopAirports   []AirportCount   `json:"topAirports"`
	TopCountries  []CountryCount   `json:"topCountries"`
	ContinentData []ContinentCount `json:"continentData"`
	LastUpdated   time.Time        `json:"lastUpdated"`
}

// MapPoint is one airport marker with its booking count.
type MapPoint struct {
	IATA      string  `json:"iata"`
	Airport   string  `json:"airport"`
	Country   string  `json:"country"`
	Continent string  `json:"continent"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Count     int     `json:"count"`
}

// RecentBookingsResponse is the poll feed reply. LastID is the highest
// sequence id the server has assigned, to be sent back as ?since=.
type RecentBookingsResponse struct {
	Bookings []BookingNotice `json:"bookings"`
	LastID   uint64          `json:"lastId"`
}

// Push stream message types.
const (
	PushTypeNewBooking = "new_booking"
	PushTypePing       = "ping"
	PushTypePong       = "pong"
)

// PushMessage is one message on the push stream.
type PushMessage struct {
	Type    string         `json:"type"`
	Booking *BookingNotice `json:"booking,omitempty"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status         string  `json:"status"`
	AirportsLoaded int     `json:"airportsLoaded"`
	TotalBookings  int     `json:"totalBookings"`
	Subscribers    int     `json:"subscribers"`
	UptimeSeconds  float64 `json:"uptime"`
}
