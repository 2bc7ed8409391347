// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordIngestion(t *testing.T) {
	before := testutil.ToFloat64(IngestionOutcomes.WithLabelValues("not_processed", "unknown_airport"))
	RecordIngestion("not_processed", "unknown_airport")
	after := testutil.ToFloat64(IngestionOutcomes.WithLabelValues("not_processed", "unknown_airport"))

	if after-before != 1 {
		t.Errorf("counter delta = %v, want 1", after-before)
	}
}

func TestRecordReset(t *testing.T) {
	SetBookingsToday(42)
	at := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	RecordReset(at)

	if got := testutil.ToFloat64(BookingsToday); got != 0 {
		t.Errorf("BookingsToday = %v, want 0", got)
	}
	if got := testutil.ToFloat64(AggregateLastReset); got != float64(at.Unix()) {
		t.Errorf("AggregateLastReset = %v, want %v", got, at.Unix())
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/dashboard", "200"))
	RecordAPIRequest("GET", "/api/dashboard", 200, 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/dashboard", "200"))
	if after-before != 1 {
		t.Errorf("counter delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("active = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("active = %v, want %v", got, before)
	}
}

func TestRecordCircuitBreakerTransition(t *testing.T) {
	RecordCircuitBreakerTransition("nats-publish", "closed", "open", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("nats-publish")); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}
}

func TestRecordFeedBooking(t *testing.T) {
	before := testutil.ToFloat64(FeedBookingsReceived.WithLabelValues("poll", "duplicate"))
	RecordFeedBooking("poll", true)
	if got := testutil.ToFloat64(FeedBookingsReceived.WithLabelValues("poll", "duplicate")); got != before+1 {
		t.Errorf("duplicate count = %v, want %v", got, before+1)
	}
}
