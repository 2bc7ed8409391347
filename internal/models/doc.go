// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package models defines the data types shared across BookingPulse: airport
// records, inbound webhook envelopes, normalized bookings, and the JSON wire
// shapes served to dashboards, map widgets and live feed consumers.
//
// JSON field names follow the wire contract consumed by the existing UI
// (camelCase for read APIs, snake_case for the inbound booking payload).
package models
