// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package main

import (
	"fmt"

	"github.com/tomtom215/bookingpulse/internal/broadcast"
	"github.com/tomtom215/bookingpulse/internal/config"
	"github.com/tomtom215/bookingpulse/internal/events"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/resilience"
)

// pipeline is the distribution path from ingestion to the broadcaster:
// ingest publishes to the bus, the relay consumes the topic and feeds the
// broadcaster.
type pipeline struct {
	bus       *events.Bus
	publisher *events.Publisher
	relay     *events.Relay
}

func openPipeline(cfg *config.Config, broadcaster *broadcast.Broadcaster) (*pipeline, error) {
	busCfg := events.DefaultConfig()
	busCfg.Mode = events.Mode(cfg.Bus.Mode)
	busCfg.NATSURL = cfg.Bus.NATSURL
	busCfg.EmbeddedHost = cfg.Bus.EmbeddedHost
	busCfg.EmbeddedPort = cfg.Bus.EmbeddedPort
	busCfg.MaxReconnects = cfg.Bus.MaxReconnects
	if cfg.Bus.ReconnectWait > 0 {
		busCfg.ReconnectWait = cfg.Bus.ReconnectWait
	}
	if cfg.Bus.BufferSize > 0 {
		busCfg.BufferSize = cfg.Bus.BufferSize
	}
	if cfg.Bus.CloseTimeout > 0 {
		busCfg.CloseTimeout = cfg.Bus.CloseTimeout
	}

	logger := logging.NewWatermillAdapter()
	bus, err := events.Open(busCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s bus: %w", busCfg.Mode, err)
	}

	relayCfg := events.DefaultRelayConfig()
	relayCfg.RetryMaxRetries = cfg.Bus.RetryCount
	if cfg.Bus.CloseTimeout > 0 {
		relayCfg.CloseTimeout = cfg.Bus.CloseTimeout
	}

	return &pipeline{
		bus:       bus,
		publisher: events.NewPublisher(bus.Publisher, resilience.NewCircuitBreaker(resilience.DefaultBreakerConfig("event-publisher"))),
		relay:     events.NewRelay(bus.Subscriber, broadcaster, relayCfg, logger),
	}, nil
}

// Close stops publishing and closes the bus.
func (p *pipeline) Close() {
	if err := p.publisher.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing event publisher")
	}
	if err := p.bus.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing event bus")
	}
}
