// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package broadcast

import (
	"sync"

	"github.com/tomtom215/bookingpulse/internal/metrics"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// DefaultPollCapacity is the number of notices retained for pollers.
const DefaultPollCapacity = 200

// PollStore is a bounded ring of recent booking notices. Every appended
// notice gets the next sequence number, starting at 1, and sequence numbers
// are never reused. A poller that falls more than the capacity behind
// silently misses the overwritten notices.
type PollStore struct {
	mu       sync.RWMutex
	ring     []models.BookingNotice
	next     int // ring index of the next write
	size     int
	lastSeq  uint64
	capacity int
}

// NewPollStore creates a store holding at most capacity notices.
func NewPollStore(capacity int) *PollStore {
	if capacity <= 0 {
		capacity = DefaultPollCapacity
	}
	return &PollStore{
		ring:     make([]models.BookingNotice, capacity),
		capacity: capacity,
	}
}

// Append stores b under the next sequence number and returns its notice.
func (p *PollStore) Append(b *models.NormalizedBooking) models.BookingNotice {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastSeq++
	notice := models.NewBookingNotice(p.lastSeq, b)
	p.ring[p.next] = notice
	p.next = (p.next + 1) % p.capacity
	if p.size < p.capacity {
		p.size++
	}
	metrics.PollStoreEntries.Set(float64(p.size))
	return notice
}

// Since returns the retained notices with Seq > seq in sequence order, and
// the latest sequence number assigned so far. since=0 returns everything
// retained.
func (p *PollStore) Since(seq uint64) ([]models.BookingNotice, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]models.BookingNotice, 0)
	if seq >= p.lastSeq {
		return out, p.lastSeq
	}

	oldest := (p.next - p.size + p.capacity) % p.capacity
	for i := 0; i < p.size; i++ {
		n := p.ring[(oldest+i)%p.capacity]
		if n.Seq > seq {
			out = append(out, n)
		}
	}
	return out, p.lastSeq
}

// LatestSeq returns the last assigned sequence number, 0 if none.
func (p *PollStore) LatestSeq() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastSeq
}

// Len returns the number of retained notices.
func (p *PollStore) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.size
}
