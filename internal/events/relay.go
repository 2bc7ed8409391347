// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/bookingpulse/internal/cache"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/metrics"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// Sink receives every booking consumed from the bus.
type Sink interface {
	Publish(ctx context.Context, booking models.NormalizedBooking) models.BookingNotice
}

// RelayConfig configures the relay router.
type RelayConfig struct {
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	CloseTimeout         time.Duration

	// DedupTTL is how long message UUIDs are remembered to drop
	// redeliveries of the same message.
	DedupTTL time.Duration
}

// DefaultRelayConfig returns the relay defaults.
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		CloseTimeout:         10 * time.Second,
		DedupTTL:             10 * time.Minute,
	}
}

// Relay consumes TopicBookingsAccepted and hands each booking to the sink.
// It implements suture.Service; every Serve call builds a fresh Watermill
// router, since a router cannot be restarted once closed.
type Relay struct {
	subscriber message.Subscriber
	sink       Sink
	config     RelayConfig
	logger     watermill.LoggerAdapter
	seen       *cache.TTLSet

	readyOnce sync.Once
	ready     chan struct{}
}

// NewRelay creates a relay from subscriber to sink.
func NewRelay(subscriber message.Subscriber, sink Sink, cfg RelayConfig, logger watermill.LoggerAdapter) *Relay {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg.DedupTTL <= 0 {
		cfg.DedupTTL = DefaultRelayConfig().DedupTTL
	}
	return &Relay{
		subscriber: subscriber,
		sink:       sink,
		config:     cfg,
		logger:     logger,
		seen:       cache.NewTTLSet(10000, cfg.DedupTTL, nil),
		ready:      make(chan struct{}),
	}
}

// Ready is closed once the first router has subscribed to the topic.
func (r *Relay) Ready() <-chan struct{} { return r.ready }

// Serve runs the router until ctx is done.
func (r *Relay) Serve(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: r.config.CloseTimeout}, r.logger)
	if err != nil {
		return fmt.Errorf("create relay router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)

	dedup := middleware.Deduplicator{
		KeyFactory: func(msg *message.Message) (string, error) { return msg.UUID, nil },
		Repository: dedupRepository{r.seen},
		Timeout:    time.Second,
	}
	router.AddMiddleware(dedup.Middleware)

	retry := middleware.Retry{
		MaxRetries:      r.config.RetryMaxRetries,
		InitialInterval: r.config.RetryInitialInterval,
		Logger:          r.logger,
	}
	router.AddMiddleware(retry.Middleware)

	router.AddConsumerHandler("booking-relay", TopicBookingsAccepted, r.subscriber, r.handle)

	go func() {
		select {
		case <-router.Running():
			r.readyOnce.Do(func() { close(r.ready) })
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("relay router: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture logging.
func (r *Relay) String() string { return "booking-relay" }

func (r *Relay) handle(msg *message.Message) error {
	metrics.BusMessages.WithLabelValues("in").Inc()

	booking, err := DecodeBookingMessage(msg)
	if err != nil {
		// Retrying cannot fix a payload that does not decode.
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping undecodable booking message")
		return nil
	}

	ctx := msg.Context()
	if id := msg.Metadata.Get(MetadataRequestID); id != "" {
		ctx = logging.ContextWithRequestID(ctx, id)
	}
	r.sink.Publish(logging.ContextWithBookingID(ctx, booking.ID), booking)
	return nil
}

// dedupRepository adapts a TTLSet to Watermill's deduplicator.
type dedupRepository struct {
	set *cache.TTLSet
}

func (d dedupRepository) IsDuplicate(_ context.Context, key string) (bool, error) {
	return d.set.Seen(key), nil
}
