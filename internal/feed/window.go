// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package feed

import (
	"sync"

	"github.com/tomtom215/bookingpulse/internal/cache"
)

// Default ProcessedIDWindow bounds.
const (
	DefaultWindowCeiling = 1000
	DefaultWindowRetain  = 500
)

// ProcessedIDWindow remembers the booking ids already handed to the sink.
// Once more than ceiling ids are held, the oldest are evicted until only
// retain remain.
type ProcessedIDWindow struct {
	mu      sync.Mutex
	ids     *cache.TTLSet
	ceiling int
	retain  int
}

// NewProcessedIDWindow creates a window. Non-positive bounds use the
// defaults; retain is capped at ceiling.
func NewProcessedIDWindow(ceiling, retain int) *ProcessedIDWindow {
	if ceiling <= 0 {
		ceiling = DefaultWindowCeiling
	}
	if retain <= 0 {
		retain = DefaultWindowRetain
	}
	if retain > ceiling {
		retain = ceiling
	}
	return &ProcessedIDWindow{
		ids:     cache.NewTTLSet(0, 0, nil),
		ceiling: ceiling,
		retain:  retain,
	}
}

// Observe records id and reports whether it was new.
func (w *ProcessedIDWindow) Observe(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ids.Seen(id) {
		return false
	}
	if w.ids.Len() > w.ceiling {
		w.ids.TrimTo(w.retain)
	}
	return true
}

// Contains reports whether id is in the window.
func (w *ProcessedIDWindow) Contains(id string) bool {
	return w.ids.Contains(id)
}

// Len returns the number of ids held.
func (w *ProcessedIDWindow) Len() int {
	return w.ids.Len()
}
