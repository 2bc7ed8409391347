// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package clock

import (
	"context"
	"errors"
	"testing"
	"time"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestFakeClock_TimerFiresOnAdvance(t *testing.T) {
	t.Parallel()

	c := Fake(epoch)
	timer := c.NewTimer(3 * time.Second)

	c.Advance(2 * time.Second)
	select {
	case <-timer.C:
		t.Fatal("timer fired before deadline")
	default:
	}

	c.Advance(time.Second)
	select {
	case got := <-timer.C:
		if !got.Equal(epoch.Add(3 * time.Second)) {
			t.Errorf("fire time = %v, want %v", got, epoch.Add(3*time.Second))
		}
	default:
		t.Fatal("timer did not fire at deadline")
	}
	if c.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0", c.PendingCount())
	}
}

func TestFakeClock_StopRemovesWaiter(t *testing.T) {
	t.Parallel()

	c := Fake(epoch)
	timer := c.NewTimer(time.Second)
	if c.PendingCount() != 1 {
		t.Fatalf("PendingCount() = %d, want 1", c.PendingCount())
	}
	if !timer.Stop() {
		t.Error("Stop() = false, want true for pending timer")
	}
	if timer.Stop() {
		t.Error("second Stop() = true, want false")
	}
	if c.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0", c.PendingCount())
	}

	c.Advance(time.Minute)
	select {
	case <-timer.C:
		t.Fatal("stopped timer fired")
	default:
	}
}

func TestFakeClock_ZeroTimerFiresImmediately(t *testing.T) {
	t.Parallel()

	c := Fake(epoch)
	timer := c.NewTimer(0)
	select {
	case <-timer.C:
	default:
		t.Fatal("NewTimer(0) should fire immediately")
	}
}

func TestFakeClock_Ticker(t *testing.T) {
	t.Parallel()

	c := Fake(epoch)
	ticker := c.NewTicker(time.Second)
	defer ticker.Stop()

	for i := 0; i < 3; i++ {
		c.Advance(time.Second)
		select {
		case <-ticker.C:
		default:
			t.Fatalf("tick %d not delivered", i)
		}
	}
}

func TestSleep_CancelledLeavesNoTimer(t *testing.T) {
	t.Parallel()

	c := Fake(epoch)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Sleep(ctx, c, time.Hour) }()

	c.WaitForTimers(1)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Sleep() error = %v, want context.Canceled", err)
	}
	if c.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d after cancel, want 0", c.PendingCount())
	}
}

func TestSleep_Completes(t *testing.T) {
	t.Parallel()

	c := Fake(epoch)
	done := make(chan error, 1)
	go func() { done <- Sleep(context.Background(), c, 5*time.Second) }()

	c.WaitForTimers(1)
	c.Advance(5 * time.Second)

	if err := <-done; err != nil {
		t.Errorf("Sleep() error = %v, want nil", err)
	}
}
