// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/bookingpulse/internal/clock"
)

func TestTTLSet_SeenRecordsFirstOccurrence(t *testing.T) {
	t.Parallel()

	s := NewTTLSet(0, time.Minute, clock.Fake(time.Now()))

	if s.Seen("a") {
		t.Error("first Seen(a) = true, want false")
	}
	if !s.Seen("a") {
		t.Error("second Seen(a) = false, want true")
	}
	if s.Seen("b") {
		t.Error("first Seen(b) = true, want false")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestTTLSet_Expiry(t *testing.T) {
	t.Parallel()

	clk := clock.Fake(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	s := NewTTLSet(0, 5*time.Minute, clk)

	s.Add("40.64,-73.78")
	clk.Advance(4*time.Minute + 59*time.Second)
	if !s.Contains("40.64,-73.78") {
		t.Error("key expired before its TTL")
	}

	clk.Advance(time.Second)
	if s.Contains("40.64,-73.78") {
		t.Error("key still present at its TTL")
	}
	if s.Seen("40.64,-73.78") {
		t.Error("Seen() on an expired key = true, want false")
	}
	if !s.Contains("40.64,-73.78") {
		t.Error("Seen() did not re-record the expired key")
	}
}

func TestTTLSet_NoTTLNeverExpires(t *testing.T) {
	t.Parallel()

	clk := clock.Fake(time.Now())
	s := NewTTLSet(0, 0, clk)
	s.Add("k")
	clk.Advance(1000 * time.Hour)
	if !s.Contains("k") {
		t.Error("key without TTL expired")
	}
	if !s.Seen("k") {
		t.Error("Seen() on a key without TTL = false, want true")
	}
}

func TestTTLSet_CapacityEvictsLeastRecent(t *testing.T) {
	t.Parallel()

	s := NewTTLSet(3, time.Minute, clock.Fake(time.Now()))
	s.Add("a")
	s.Add("b")
	s.Add("c")
	s.Seen("a") // a becomes most recent
	s.Add("d")

	if s.Contains("b") {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if !s.Contains(k) {
			t.Errorf("%s should be present", k)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestTTLSet_TrimToKeepsNewest(t *testing.T) {
	t.Parallel()

	s := NewTTLSet(0, 0, clock.Fake(time.Now()))
	for i := 0; i < 10; i++ {
		s.Add(fmt.Sprintf("id-%d", i))
	}

	if removed := s.TrimTo(4); removed != 6 {
		t.Errorf("TrimTo(4) removed %d, want 6", removed)
	}
	for i := 0; i < 10; i++ {
		want := i >= 6
		if got := s.Contains(fmt.Sprintf("id-%d", i)); got != want {
			t.Errorf("Contains(id-%d) = %v, want %v", i, got, want)
		}
	}
}

func TestTTLSet_ConcurrentSeen(t *testing.T) {
	t.Parallel()

	s := NewTTLSet(0, time.Minute, clock.Fake(time.Now()))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !s.Seen("same") {
				mu.Lock()
				first++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if first != 1 {
		t.Errorf("%d goroutines saw the key first, want 1", first)
	}
}
