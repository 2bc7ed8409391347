// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package broadcast

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/metrics"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// Reasons a subscriber leaves the registry.
const (
	DropReasonSlow         = "slow_consumer"
	DropReasonDisconnected = "disconnected"
	DropReasonShutdown     = "shutdown"
)

const (
	defaultQueueSize        = 256
	defaultSubscriberBuffer = 64
)

var subscriberIDs atomic.Uint64

// Subscriber is one registered push stream consumer. Its channel is closed
// when the hub removes it.
type Subscriber struct {
	id     uint64
	name   string
	joined uint64 // hub sequence at registration
	send   chan models.PushMessage
}

// ID returns the subscriber's unique id.
func (s *Subscriber) ID() uint64 { return s.id }

// Name returns the label given at registration.
func (s *Subscriber) Name() string { return s.name }

// Messages returns the subscriber's delivery channel.
func (s *Subscriber) Messages() <-chan models.PushMessage { return s.send }

type envelope struct {
	seq uint64
	msg models.PushMessage
}

// Hub is the push registry. Broadcast queues a message; the run loop fans
// it out to every subscriber registered before the message was queued.
// Delivery never blocks: a subscriber whose buffer is full is removed and
// its channel closed. There is no retry and no replay.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint64]*Subscriber
	seq         uint64
	queue       chan envelope
	bufferSize  int
}

// NewHub creates a hub. Non-positive sizes select the defaults.
func NewHub(queueSize, subscriberBuffer int) *Hub {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if subscriberBuffer <= 0 {
		subscriberBuffer = defaultSubscriberBuffer
	}
	return &Hub{
		subscribers: make(map[uint64]*Subscriber),
		queue:       make(chan envelope, queueSize),
		bufferSize:  subscriberBuffer,
	}
}

// Subscribe registers a new subscriber. It only receives messages
// broadcast after this call returns.
func (h *Hub) Subscribe(name string) *Subscriber {
	h.mu.Lock()
	sub := &Subscriber{
		id:     subscriberIDs.Add(1),
		name:   name,
		joined: h.seq,
		send:   make(chan models.PushMessage, h.bufferSize),
	}
	h.subscribers[sub.id] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(count))
	logging.Debug().Uint64("subscriber", sub.id).Str("name", name).Int("total_subscribers", count).Msg("Subscriber registered")
	return sub
}

// Unsubscribe removes sub and closes its channel. It is safe to call more
// than once.
func (h *Hub) Unsubscribe(sub *Subscriber, reason string) {
	h.mu.Lock()
	removed := h.removeLocked(sub.id, reason)
	count := len(h.subscribers)
	h.mu.Unlock()

	if removed {
		logging.Debug().Uint64("subscriber", sub.id).Str("reason", reason).Int("total_subscribers", count).Msg("Subscriber removed")
	}
}

// Broadcast queues msg for delivery and reports whether it was accepted.
// It never blocks; when the queue is full the message is dropped.
func (h *Hub) Broadcast(msg models.PushMessage) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	select {
	case h.queue <- envelope{seq: h.seq, msg: msg}:
		return true
	default:
		logging.Warn().Str("message_type", msg.Type).Msg("Broadcast queue full, dropping message")
		return false
	}
}

// SubscriberCount returns the number of registered subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// RunWithContext fans out queued messages until ctx is done, then removes
// every subscriber and returns ctx.Err(). Shutdown takes priority over
// pending messages.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		default:
		}

		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case env := <-h.queue:
			h.deliver(env)
		}
	}
}

// deliver sends env to each eligible subscriber in id order.
func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.sortedLocked() {
		if env.seq <= sub.joined {
			continue
		}
		select {
		case sub.send <- env.msg:
			metrics.WSMessagesSent.Inc()
		default:
			h.removeLocked(sub.id, DropReasonSlow)
			logging.Warn().Uint64("subscriber", sub.id).Str("name", sub.name).Msg("Subscriber too slow, removed")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	subs := h.sortedLocked()
	for _, sub := range subs {
		h.removeLocked(sub.id, DropReasonShutdown)
	}
	h.mu.Unlock()

	logging.Info().
		Str("component", "push-hub").
		Int("subscribers_closed", len(subs)).
		Msg("Push hub stopped")
}

func (h *Hub) sortedLocked() []*Subscriber {
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	return subs
}

func (h *Hub) removeLocked(id uint64, reason string) bool {
	sub, ok := h.subscribers[id]
	if !ok {
		return false
	}
	delete(h.subscribers, id)
	close(sub.send)
	metrics.WSSubscribersDropped.WithLabelValues(reason).Inc()
	metrics.WSConnections.Set(float64(len(h.subscribers)))
	return true
}
