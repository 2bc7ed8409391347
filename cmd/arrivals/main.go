// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package main is the headless live arrivals client.
//
// It follows a BookingPulse server over the poll feed, the push stream or
// both, and plays each new booking through the animation processor: fly to
// the arrival airport, show its marker, hold, hide it. The map surface is a
// LogView that records each camera move as a structured log line, which is
// enough to watch the live sequence from a terminal or ship it to a log
// pipeline.
//
//	export FEED_SERVER_URL=http://localhost:3000
//	export FEED_MODE=both
//	./bookingpulse-arrivals
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/tomtom215/bookingpulse/internal/animation"
	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/config"
	"github.com/tomtom215/bookingpulse/internal/feed"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/supervisor"
)

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

	clk := clock.Real()
	home := animation.Camera{Lat: cfg.Player.HomeLat, Lng: cfg.Player.HomeLng, Zoom: cfg.Player.HomeZoom}
	processor := animation.NewProcessor(animation.NewLogView(home), playerConfig(cfg.Player), clk)

	// Poll and push share one window so a booking seen on both is played once.
	window := feed.NewProcessedIDWindow(cfg.Feed.WindowCeiling, cfg.Feed.WindowRetain)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddPlaybackService(processor)

	if cfg.Feed.UsesPoll() {
		pollCfg := feed.DefaultPollerConfig(cfg.Feed.ServerURL)
		pollCfg.Interval = cfg.Feed.PollInterval
		if cfg.Feed.RequestTimeout > 0 {
			pollCfg.RequestTimeout = cfg.Feed.RequestTimeout
		}
		pollCfg.SkipBacklog = cfg.Feed.SkipBacklog

		poller, err := feed.NewPoller(pollCfg, processor, window, clk)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create feed poller")
		}
		tree.AddPlaybackService(poller)
	}

	if cfg.Feed.UsesPush() {
		streamURL, err := feed.StreamURL(cfg.Feed.ServerURL)
		if err != nil {
			logging.Fatal().Err(err).Msg("Invalid feed server URL")
		}
		streamCfg := feed.DefaultStreamConfig(streamURL)
		if cfg.Feed.MinBackoff > 0 {
			streamCfg.MinBackoff = cfg.Feed.MinBackoff
		}
		if cfg.Feed.MaxBackoff > 0 {
			streamCfg.MaxBackoff = cfg.Feed.MaxBackoff
		}

		stream, err := feed.NewStream(streamCfg, processor, window, clk)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create feed stream")
		}
		tree.AddPlaybackService(stream)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		// Close cancels any in-flight playback and discards the queue.
		processor.Close()
		cancel()
	}()

	logging.Info().
		Str("server", cfg.Feed.ServerURL).
		Str("mode", cfg.Feed.Mode).
		Msg("Following live arrivals")

	for err := range tree.ServeBackground(ctx) {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	logging.Info().Msg("Arrivals client stopped")
}

func playerConfig(p config.PlayerConfig) animation.Config {
	return animation.Config{
		FocusZoom:           p.FocusZoom,
		FlyDuration:         p.FlyDuration,
		ReadyTimeout:        p.ReadyTimeout,
		HoldDuration:        p.HoldDuration,
		PrefetchAhead:       p.PrefetchAhead,
		PrefetchDedupWindow: p.PrefetchDedupWindow,
		PrefetchRate:        rate.Limit(p.PrefetchRate),
		PrefetchBurst:       p.PrefetchBurst,
	}
}
