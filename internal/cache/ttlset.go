// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package cache provides small recency-ordered key sets used for
// deduplication on the consumer side: prefetch requests keyed by map
// coordinates, and booking ids already handed to the animation queue.
package cache

import (
	"sync"
	"time"

	"github.com/tomtom215/bookingpulse/internal/clock"
)

type entry struct {
	key       string
	seenAt    time.Time
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// TTLSet is a thread-safe set of keys ordered by recency, with optional
// expiry and an optional capacity. When the capacity is exceeded the least
// recently seen key is evicted.
//
// Lookups, inserts and evictions are O(1): a map indexes the nodes of a
// doubly linked list whose front is the most recently seen key.
type TTLSet struct {
	mu sync.Mutex

	capacity int           // <= 0 means unbounded
	ttl      time.Duration // <= 0 means keys never expire
	clock    clock.Clock

	items map[string]*entry
	head  *entry // sentinel; head.next is newest
	tail  *entry // sentinel; tail.prev is oldest
}

// NewTTLSet creates a set. A nil clock uses the real clock.
func NewTTLSet(capacity int, ttl time.Duration, clk clock.Clock) *TTLSet {
	if clk == nil {
		clk = clock.Real()
	}
	s := &TTLSet{
		capacity: capacity,
		ttl:      ttl,
		clock:    clk,
		items:    make(map[string]*entry),
		head:     &entry{},
		tail:     &entry{},
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Seen reports whether key is present and unexpired. If it is not, key is
// recorded, so the first call for a key returns false and later calls
// within the TTL return true.
func (s *TTLSet) Seen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if e, ok := s.items[key]; ok {
		if !s.expired(e, now) {
			s.moveToFront(e)
			return true
		}
		s.remove(e)
	}

	s.insert(key, now)
	return false
}

// Contains reports whether key is present and unexpired without touching
// its recency.
func (s *TTLSet) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	return ok && !s.expired(e, s.clock.Now())
}

// Add records key, refreshing its expiry and recency if already present.
func (s *TTLSet) Add(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	if e, ok := s.items[key]; ok {
		e.seenAt = now
		e.expiresAt = s.expiry(now)
		s.moveToFront(e)
		return
	}
	s.insert(key, now)
}

// Len returns the number of stored keys, expired ones included until they
// are looked up again or evicted.
func (s *TTLSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TrimTo evicts the oldest keys until at most n remain and returns how many
// were evicted.
func (s *TTLSet) TrimTo(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 0 {
		n = 0
	}
	removed := 0
	for len(s.items) > n {
		s.remove(s.tail.prev)
		removed++
	}
	return removed
}

// Callers of the helpers below hold s.mu.

func (s *TTLSet) expiry(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}

func (s *TTLSet) expired(e *entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

func (s *TTLSet) insert(key string, now time.Time) {
	e := &entry{key: key, seenAt: now, expiresAt: s.expiry(now)}
	s.pushFront(e)
	s.items[key] = e

	for s.capacity > 0 && len(s.items) > s.capacity {
		s.remove(s.tail.prev)
	}
}

func (s *TTLSet) pushFront(e *entry) {
	e.prev = s.head
	e.next = s.head.next
	s.head.next.prev = e
	s.head.next = e
}

func (s *TTLSet) moveToFront(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	s.pushFront(e)
}

func (s *TTLSet) remove(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	delete(s.items, e.key)
}
