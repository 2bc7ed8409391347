// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// Reason is a stable rejection code. The zero value means accepted.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonMalformedPayload Reason = "malformed_payload"
	ReasonNotConfirmed     Reason = "not_confirmed"
	ReasonOutOfWindow      Reason = "out_of_window"
	ReasonUnknownAirport   Reason = "unknown_airport"
)

// Message returns the human-readable description of r.
func (r Reason) Message() string {
	switch r {
	case ReasonNone:
		return "accepted"
	case ReasonMalformedPayload:
		return "booking payload is missing required fields"
	case ReasonNotConfirmed:
		return "booking status is not confirmed"
	case ReasonOutOfWindow:
		return "booking date is outside the accepted window"
	case ReasonUnknownAirport:
		return "arrival airport is not in the directory"
	default:
		return string(r)
	}
}

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// AirportLookup resolves an IATA code to its directory record.
type AirportLookup interface {
	Lookup(code string) (models.AirportRecord, bool)
}

// DateWindow is the trailing set of calendar days accepted, ending today in
// Location. DaysBack 0 accepts today only; 1 accepts yesterday and today.
type DateWindow struct {
	DaysBack int
	Location *time.Location
}

// Contains reports whether day falls within the window anchored on now.
// Both instants are compared as calendar days in the window's location.
func (w DateWindow) Contains(day, now time.Time) bool {
	diff := civilDaysBetween(day.In(w.location()), now.In(w.location()))
	return diff >= 0 && diff <= w.DaysBack
}

func (w DateWindow) location() *time.Location {
	if w.Location == nil {
		return time.Local
	}
	return w.Location
}

// civilDaysBetween returns the number of calendar days from a to b. It is
// immune to DST because both dates are projected onto UTC midnight.
func civilDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// Result is the outcome of validating one raw booking.
type Result struct {
	Booking models.NormalizedBooking
	Reason  Reason
	Detail  string
}

// Accepted reports whether the booking passed every check.
func (r Result) Accepted() bool { return r.Reason == ReasonNone }

func reject(reason Reason, detail string) Result {
	return Result{Reason: reason, Detail: detail}
}

// BookingValidator turns raw bookings into normalized ones. It holds no
// mutable state and is safe for concurrent use.
type BookingValidator struct {
	airports AirportLookup
	window   DateWindow
	clock    clock.Clock
}

// NewBookingValidator creates a validator over the given directory.
func NewBookingValidator(airports AirportLookup, window DateWindow, clk clock.Clock) *BookingValidator {
	if clk == nil {
		clk = clock.Real()
	}
	return &BookingValidator{airports: airports, window: window, clock: clk}
}

// Window returns the configured date window.
func (v *BookingValidator) Window() DateWindow { return v.window }

// Validate runs the structural, status, date window and airport checks in
// that order and stops at the first failure.
func (v *BookingValidator) Validate(raw *models.RawBooking) Result {
	if raw == nil {
		return reject(ReasonMalformedPayload, "booking is empty")
	}
	if err := ValidateStruct(raw); err != nil {
		return reject(ReasonMalformedPayload, err.Error())
	}
	if strings.TrimSpace(raw.BookingID) == "" || strings.TrimSpace(raw.ArrivalCode()) == "" {
		return reject(ReasonMalformedPayload, "booking_id and arrival.airport must not be blank")
	}

	if raw.Status != models.StatusConfirmed {
		return reject(ReasonNotConfirmed, fmt.Sprintf("status %q", raw.Status))
	}

	day, err := ParseBookingDate(raw.Date, v.window.location())
	if err != nil {
		return reject(ReasonMalformedPayload, err.Error())
	}

	if !v.window.Contains(day, v.clock.Now()) {
		return reject(ReasonOutOfWindow, fmt.Sprintf("date %s is outside the last %d day(s)", day.Format(DateLayout), v.window.DaysBack+1))
	}

	code := NormalizeAirportCode(raw.ArrivalCode())
	airport, ok := v.airports.Lookup(code)
	if !ok {
		return reject(ReasonUnknownAirport, fmt.Sprintf("airport %q", code))
	}

	return Result{Booking: models.NormalizedBooking{
		ID:          strings.TrimSpace(raw.BookingID),
		AirportCode: airport.Code,
		Date:        day.Format(DateLayout),
		Status:      models.StatusConfirmed,
		AirportName: airport.Name,
		Country:     airport.Country,
		Continent:   airport.Continent,
		Latitude:    airport.Latitude,
		Longitude:   airport.Longitude,
	}}
}

// ParseBookingDate parses a calendar date (2006-01-02) or an RFC 3339
// timestamp and returns it as an instant in loc.
func ParseBookingDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD or RFC 3339", value)
}

// NormalizeAirportCode trims and upper-cases an airport code.
func NormalizeAirportCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
