// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/metrics"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// Metadata keys set on every booking message.
const (
	MetadataBookingID = "booking_id"
	MetadataAirport   = "airport"
	MetadataRequestID = "request_id"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// Publisher publishes accepted bookings to the bus.
type Publisher struct {
	publisher message.Publisher
	topic     string
	breaker   *gobreaker.CircuitBreaker[interface{}]

	mu     sync.RWMutex
	closed bool
}

// NewPublisher creates a publisher on TopicBookingsAccepted. breaker may be
// nil.
func NewPublisher(pub message.Publisher, breaker *gobreaker.CircuitBreaker[interface{}]) *Publisher {
	return &Publisher{publisher: pub, topic: TopicBookingsAccepted, breaker: breaker}
}

// Publish marshals booking into a message and publishes it.
func (p *Publisher) Publish(ctx context.Context, booking models.NormalizedBooking) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg, err := NewBookingMessage(ctx, booking)
	if err != nil {
		return err
	}

	publish := func() (interface{}, error) {
		return nil, p.publisher.Publish(p.topic, msg)
	}
	if p.breaker != nil {
		_, err = p.breaker.Execute(publish)
	} else {
		_, err = publish()
	}
	if err != nil {
		return fmt.Errorf("publish booking %s: %w", booking.ID, err)
	}

	metrics.BusMessages.WithLabelValues("out").Inc()
	return nil
}

// Close stops further publishing. The underlying publisher is owned by the
// Bus and is not closed here.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// NewBookingMessage builds the bus message for booking.
func NewBookingMessage(ctx context.Context, booking models.NormalizedBooking) (*message.Message, error) {
	payload, err := json.Marshal(booking)
	if err != nil {
		return nil, fmt.Errorf("marshal booking %s: %w", booking.ID, err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(MetadataBookingID, booking.ID)
	msg.Metadata.Set(MetadataAirport, booking.AirportCode)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataRequestID, id)
	}
	return msg, nil
}

// DecodeBookingMessage is the inverse of NewBookingMessage.
func DecodeBookingMessage(msg *message.Message) (models.NormalizedBooking, error) {
	var booking models.NormalizedBooking
	if err := json.Unmarshal(msg.Payload, &booking); err != nil {
		return booking, fmt.Errorf("decode booking message %s: %w", msg.UUID, err)
	}
	return booking, nil
}
