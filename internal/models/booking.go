// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package models

import "time"

// StatusConfirmed is the only booking status that is counted.
const StatusConfirmed = "confirmed"

// RawBooking is the booking object embedded in an inbound message, before
// validation. Only the fields below are read; anything else is ignored.
type RawBooking struct {
	BookingID string       `json:"booking_id" validate:"required"`
	Arrival   *ArrivalInfo `json:"arrival" validate:"required"`
	Date      string       `json:"date" validate:"required"`
	Status    string       `json:"status" validate:"required"`
}

// ArrivalInfo is the arrival leg of a raw booking.
type ArrivalInfo struct {
	Airport string `json:"airport" validate:"required"`
}

// ArrivalCode returns the arrival airport code or "" when absent.
func (r *RawBooking) ArrivalCode() string {
	if r == nil || r.Arrival == nil {
		return ""
	}
	return r.Arrival.Airport
}

// NormalizedBooking is a validated, confirmed booking with airport metadata
// denormalized onto it. It is immutable once created.
type NormalizedBooking struct {
	ID          string    `json:"booking_id"`
	AirportCode string    `json:"airport"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	AirportName string    `json:"airportName"`
	Country     string    `json:"country"`
	Continent   string    `json:"continent"`
	Latitude    float64   `json:"lat"`
	Longitude   float64   `json:"lng"`
	AcceptedAt  time.Time `json:"acceptedAt"`
}

// Destination renders the "<IATA> - <name>" label used in webhook replies.
func (b *NormalizedBooking) Destination() string {
	return b.AirportCode + " - " + b.AirportName
}

// BookingNotice is the wire shape of one accepted booking on the poll and
// push feeds.
type BookingNotice struct {
	ID          string     `json:"id"`
	Seq         uint64     `json:"seq"`
	Airport     string     `json:"airport"`
	AirportName string     `json:"airportName"`
	Country     string     `json:"country"`
	Continent   string     `json:"continent"`
	Coordinates [2]float64 `json:"coordinates"`
	Date        string     `json:"date"`
	AcceptedAt  time.Time  `json:"acceptedAt"`
}

// NewBookingNotice builds the feed representation of b with sequence seq.
func NewBookingNotice(seq uint64, b *NormalizedBooking) BookingNotice {
	return BookingNotice{
		ID:          b.ID,
		Seq:         seq,
		Airport:     b.AirportCode,
		AirportName: b.AirportName,
		Country:     b.Country,
		Continent:   b.Continent,
		Coordinates: [2]float64{b.Latitude, b.Longitude},
		Date:        b.Date,
		AcceptedAt:  b.AcceptedAt,
	}
}

// Lat returns the latitude component of the notice coordinates.
func (n *BookingNotice) Lat() float64 { return n.Coordinates[0] }

// Lng returns the longitude component of the notice coordinates.
func (n *BookingNotice) Lng() float64 { return n.Coordinates[1] }
