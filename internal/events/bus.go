// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package events carries accepted bookings from ingestion to the
// broadcaster over a Watermill topic.
//
// The transport is chosen at startup: an in-process Go channel, an
// external NATS server, or a NATS server embedded in this process. With
// NATS, several instances behind a load balancer share one topic, so a
// booking accepted by any instance reaches the subscribers of all of them.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
)

// TopicBookingsAccepted is the topic accepted bookings are published on.
const TopicBookingsAccepted = "bookings.accepted"

// Mode selects the bus transport.
type Mode string

const (
	ModeMemory   Mode = "memory"
	ModeNATS     Mode = "nats"
	ModeEmbedded Mode = "embedded"
)

// Config configures the bus.
type Config struct {
	Mode Mode

	// NATSURL is the server URL in ModeNATS.
	NATSURL string

	// EmbeddedHost and EmbeddedPort are the listen address in ModeEmbedded.
	EmbeddedHost string
	EmbeddedPort int

	MaxReconnects int
	ReconnectWait time.Duration

	// BufferSize is the per-subscriber buffer in ModeMemory.
	BufferSize int64

	CloseTimeout time.Duration
}

// DefaultConfig returns an in-memory bus configuration.
func DefaultConfig() Config {
	return Config{
		Mode:          ModeMemory,
		NATSURL:       natsgo.DefaultURL,
		EmbeddedHost:  "127.0.0.1",
		EmbeddedPort:  4222,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		BufferSize:    256,
		CloseTimeout:  10 * time.Second,
	}
}

// Bus holds the Watermill publisher and subscriber for the chosen mode.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber

	mode     Mode
	embedded *EmbeddedServer
	logger   watermill.LoggerAdapter
}

// Open creates the transport described by cfg.
func Open(cfg Config, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeMemory
	}

	switch cfg.Mode {
	case ModeMemory:
		ps := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger)
		return &Bus{Publisher: ps, Subscriber: ps, mode: cfg.Mode, logger: logger}, nil

	case ModeNATS:
		return openNATS(cfg, cfg.NATSURL, nil, logger)

	case ModeEmbedded:
		srv, err := StartEmbeddedServer(cfg.EmbeddedHost, cfg.EmbeddedPort, 0)
		if err != nil {
			return nil, err
		}
		logger.Info("Embedded NATS server started", watermill.LogFields{"url": srv.ClientURL()})
		return openNATS(cfg, srv.ClientURL(), srv, logger)

	default:
		return nil, fmt.Errorf("unknown bus mode %q", cfg.Mode)
	}
}

func openNATS(cfg Config, url string, srv *EmbeddedServer, logger watermill.LoggerAdapter) (*Bus, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("bookingpulse"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	jetStream := wmNats.JetStreamConfig{Disabled: true}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   jetStream,
	}, logger)
	if err != nil {
		shutdownEmbedded(srv)
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		AckWaitTimeout:   30 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        jetStream,
	}, logger)
	if err != nil {
		_ = pub.Close()
		shutdownEmbedded(srv)
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}

	return &Bus{Publisher: pub, Subscriber: sub, mode: cfg.Mode, embedded: srv, logger: logger}, nil
}

// Mode returns the transport in use.
func (b *Bus) Mode() Mode { return b.mode }

// Embedded returns the embedded server, nil unless the mode is embedded.
func (b *Bus) Embedded() *EmbeddedServer { return b.embedded }

// Close closes the publisher and subscriber and stops an embedded server.
func (b *Bus) Close() error {
	var errs []error
	if err := b.Publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	// gochannel uses one value for both sides.
	if b.mode != ModeMemory {
		if err := b.Subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.embedded != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.embedded.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown embedded NATS: %w", err))
		}
	}
	return errors.Join(errs...)
}

func shutdownEmbedded(srv *EmbeddedServer) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
