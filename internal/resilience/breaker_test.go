// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package resilience

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/metrics"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

func TestNewCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{Name: "test-open", FailureThreshold: 3, Timeout: time.Minute})
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(func() (interface{}, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d error = %v, want boom", i, err)
		}
	}

	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", cb.State())
	}
	if _, err := cb.Execute(func() (interface{}, error) { return nil, nil }); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Execute on open breaker error = %v, want ErrOpenState", err)
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerTransitions.WithLabelValues("test-open", "closed", "open")); got != 1 {
		t.Errorf("transition counter = %v, want 1", got)
	}
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(BreakerConfig{Name: "test-defaults"})
	boom := errors.New("boom")
	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("State() after 4 failures = %v, want closed", cb.State())
	}
	_, _ = cb.Execute(func() (interface{}, error) { return nil, boom })
	if cb.State() != gobreaker.StateOpen {
		t.Errorf("State() after 5 failures = %v, want open", cb.State())
	}
}

func TestStateCode(t *testing.T) {
	t.Parallel()

	tests := map[gobreaker.State]int{
		gobreaker.StateClosed:   0,
		gobreaker.StateHalfOpen: 1,
		gobreaker.StateOpen:     2,
	}
	for state, want := range tests {
		if got := StateCode(state); got != want {
			t.Errorf("StateCode(%v) = %d, want %d", state, got, want)
		}
	}
}
