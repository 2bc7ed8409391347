// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package main is the entry point for the BookingPulse server.
//
// BookingPulse receives booking-confirmed messages from a chat-ops webhook,
// validates them against an airport directory and a date window, keeps
// today's counts in memory and publishes every accepted booking to live
// map clients over a poll feed and a WebSocket push stream.
//
// # Startup order
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging
//  3. Airport directory (bundled or AIRPORTS_FILE)
//  4. Validator, aggregate store, poll store, push hub
//  5. Event bus (memory, external NATS or embedded NATS) with publisher and relay
//  6. Ingestion service and HTTP router
//  7. Supervisor tree: push hub and relay (messaging layer), HTTP server
//     and daily reset (api layer). The HTTP server listens only after the
//     relay has subscribed.
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains for
// server.shutdown_timeout, the hub disconnects subscribers, then the bus
// is closed.
//
// # Example Usage
//
//	export HTTP_PORT=3000
//	export TIMEZONE=Europe/London
//	export BUS_MODE=embedded
//	./bookingpulse
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/bookingpulse/docs" // Import generated swagger docs
	"github.com/tomtom215/bookingpulse/internal/aggregate"
	"github.com/tomtom215/bookingpulse/internal/airports"
	"github.com/tomtom215/bookingpulse/internal/api"
	"github.com/tomtom215/bookingpulse/internal/broadcast"
	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/config"
	"github.com/tomtom215/bookingpulse/internal/ingest"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/scheduler"
	"github.com/tomtom215/bookingpulse/internal/supervisor"
	"github.com/tomtom215/bookingpulse/internal/supervisor/services"
	"github.com/tomtom215/bookingpulse/internal/validation"
)

const relayReadyTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	loc, err := cfg.Bookings.Location()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid timezone")
	}

	directory, err := airports.Load(cfg.Airports.File)
	if err != nil {
		logging.Fatal().Err(err).Str("file", cfg.Airports.File).Msg("Failed to load airport directory")
	}

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("timezone", loc.String()).
		Int("window_days_back", cfg.Bookings.WindowDaysBack).
		Int("airports", directory.Len()).
		Str("bus_mode", cfg.Bus.Mode).
		Msg("Starting BookingPulse")

	if len(cfg.Security.CORSOrigins) == 1 && cfg.Security.CORSOrigins[0] == "*" {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	clk := clock.Real()
	store := aggregate.NewStore(clk)
	validator := validation.NewBookingValidator(directory, validation.DateWindow{
		DaysBack: cfg.Bookings.WindowDaysBack,
		Location: loc,
	}, clk)
	broadcaster := broadcast.New(
		broadcast.NewPollStore(cfg.Broadcast.PollCapacity),
		broadcast.NewHub(cfg.Broadcast.PushQueueSize, cfg.Broadcast.SubscriberBuffer),
	)

	pipeline, err := openPipeline(cfg, broadcaster)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open event bus")
	}
	defer pipeline.Close()

	svc := ingest.NewService(validator, store, pipeline.publisher)

	resetSvc, err := scheduler.NewResetService(cfg.Scheduler.ResetCron, loc, store, clk)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create reset scheduler")
	}

	handler := api.NewHandler(svc, store, broadcaster, directory, cfg)
	router := api.NewRouter(handler, cfg)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMessagingService(services.NewHubService(broadcaster.Hub()))
	tree.AddMessagingService(pipeline.relay)
	// The relay must be subscribed before the webhook accepts bookings; the
	// memory bus drops messages that have no subscriber.
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout).
		WaitFor(pipeline.relay.Ready(), relayReadyTimeout))
	tree.AddAPIService(resetSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().
		Time("next_reset", resetSvc.NextBoundary(clk.Now())).
		Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("BookingPulse stopped")
}
