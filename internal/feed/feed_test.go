// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package feed

import (
	"io"
	"sync"
	"testing"

	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

// recordingSink collects delivered bookings.
type recordingSink struct {
	mu  sync.Mutex
	ids []string
	got chan models.BookingNotice
}

func newRecordingSink() *recordingSink {
	return &recordingSink{got: make(chan models.BookingNotice, 64)}
}

func (s *recordingSink) Enqueue(b models.BookingNotice) bool {
	s.mu.Lock()
	s.ids = append(s.ids, b.ID)
	s.mu.Unlock()
	s.got <- b
	return true
}

func (s *recordingSink) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.ids...)
}

func notice(id string, seq uint64) models.BookingNotice {
	return models.BookingNotice{ID: id, Seq: seq, Airport: "JFK", Coordinates: [2]float64{40.6413, -73.7781}}
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProcessedIDWindow_Observe(t *testing.T) {
	t.Parallel()

	w := NewProcessedIDWindow(10, 5)
	if !w.Observe("A") {
		t.Error("first Observe(A) = false, want true")
	}
	if w.Observe("A") {
		t.Error("second Observe(A) = true, want false")
	}
	if !w.Contains("A") || w.Contains("B") {
		t.Error("Contains mismatch")
	}
}

func TestProcessedIDWindow_TrimsToRetainAboveCeiling(t *testing.T) {
	t.Parallel()

	w := NewProcessedIDWindow(10, 5)
	for i := 0; i < 10; i++ {
		w.Observe(string(rune('a' + i)))
	}
	if w.Len() != 10 {
		t.Fatalf("Len() = %d at ceiling, want 10", w.Len())
	}

	w.Observe("k")
	if w.Len() != 5 {
		t.Fatalf("Len() = %d after exceeding ceiling, want 5", w.Len())
	}
	// The newest ids survive.
	for _, id := range []string{"g", "h", "i", "j", "k"} {
		if !w.Contains(id) {
			t.Errorf("Contains(%q) = false after trim", id)
		}
	}
	if w.Contains("a") {
		t.Error("oldest id survived the trim")
	}
}

func TestProcessedIDWindow_Defaults(t *testing.T) {
	t.Parallel()

	w := NewProcessedIDWindow(0, 0)
	if w.ceiling != DefaultWindowCeiling || w.retain != DefaultWindowRetain {
		t.Errorf("bounds = %d/%d, want %d/%d", w.ceiling, w.retain, DefaultWindowCeiling, DefaultWindowRetain)
	}
	w = NewProcessedIDWindow(10, 50)
	if w.retain != 10 {
		t.Errorf("retain = %d, want capped at 10", w.retain)
	}
}

func TestDeliver_SkipsEmptyAndRepeatedIDs(t *testing.T) {
	t.Parallel()

	sink := newRecordingSink()
	w := NewProcessedIDWindow(0, 0)
	deliver("test", w, sink, notice("A", 1))
	deliver("test", w, sink, notice("", 2))
	deliver("test", w, sink, notice("A", 3))
	deliver("test", w, sink, notice("B", 4))

	if got := sink.IDs(); !equalIDs(got, []string{"A", "B"}) {
		t.Errorf("delivered %v, want [A B]", got)
	}
}
