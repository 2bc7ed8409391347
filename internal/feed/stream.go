// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// StreamPath is the push endpoint relative to the server base URL.
const StreamPath = "/ws"

// StreamConfig configures a Stream.
type StreamConfig struct {
	// URL is the ws:// or wss:// endpoint.
	URL              string
	HandshakeTimeout time.Duration

	// ReadTimeout closes a connection that has been silent this long. The
	// server pings well within it.
	ReadTimeout time.Duration

	MinBackoff time.Duration
	MaxBackoff time.Duration

	// Origin is sent with the handshake. Empty derives it from URL.
	Origin string
}

// DefaultStreamConfig returns the standard stream settings for url.
func DefaultStreamConfig(url string) StreamConfig {
	return StreamConfig{
		URL:              url,
		HandshakeTimeout: 10 * time.Second,
		ReadTimeout:      90 * time.Second,
		MinBackoff:       time.Second,
		MaxBackoff:       32 * time.Second,
	}
}

// StreamURL derives the push endpoint from an http(s) base URL.
func StreamURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + StreamPath
	u.RawQuery = ""
	return u.String(), nil
}

// Stream receives pushed bookings and reconnects with exponential backoff
// until its context ends.
type Stream struct {
	cfg    StreamConfig
	dialer websocket.Dialer
	header http.Header
	window *ProcessedIDWindow
	sink   Sink
	clock  clock.Clock
	logger zerolog.Logger

	connected atomic.Bool
	sessions  atomic.Int64
}

// NewStream creates a stream. A nil window gets a private default window;
// a nil clock uses the real clock.
func NewStream(cfg StreamConfig, sink Sink, window *ProcessedIDWindow, clk clock.Clock) (*Stream, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return nil, fmt.Errorf("invalid stream URL %q", cfg.URL)
	}
	d := DefaultStreamConfig(cfg.URL)
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = d.HandshakeTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = d.ReadTimeout
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = d.MinBackoff
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = cfg.MinBackoff
	}
	if cfg.Origin == "" {
		scheme := "http"
		if u.Scheme == "wss" {
			scheme = "https"
		}
		cfg.Origin = scheme + "://" + u.Host
	}
	if window == nil {
		window = NewProcessedIDWindow(0, 0)
	}
	if clk == nil {
		clk = clock.Real()
	}

	return &Stream{
		cfg:    cfg,
		dialer: websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		header: http.Header{"Origin": []string{cfg.Origin}},
		window: window,
		sink:   sink,
		clock:  clk,
		logger: logging.WithComponent("feed-stream"),
	}, nil
}

// Connected reports whether a connection is currently open.
func (s *Stream) Connected() bool { return s.connected.Load() }

// Sessions returns how many connections have been established.
func (s *Stream) Sessions() int64 { return s.sessions.Load() }

// Serve connects and reads until ctx is done. Every failure, including a
// clean close by the server, leads to a reconnect after the current
// backoff. The backoff doubles up to MaxBackoff and resets once a
// connection has been established.
func (s *Stream) Serve(ctx context.Context) error {
	backoff := s.cfg.MinBackoff
	for {
		established, err := s.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if established {
			backoff = s.cfg.MinBackoff
		}
		s.logger.Info().Err(err).Dur("delay", backoff).Msg("Stream disconnected, reconnecting")

		if err := clock.Sleep(ctx, s.clock, backoff); err != nil {
			return err
		}
		backoff *= 2
		if backoff > s.cfg.MaxBackoff {
			backoff = s.cfg.MaxBackoff
		}
	}
}

// session runs one connection. It reports whether the dial succeeded.
func (s *Stream) session(ctx context.Context) (bool, error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.cfg.URL, s.header)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return false, fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	s.connected.Store(true)
	s.sessions.Add(1)
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer func() {
		stop()
		s.connected.Store(false)
		_ = conn.Close()
	}()
	s.logger.Info().Str("url", s.cfg.URL).Msg("Stream connected")

	conn.SetPingHandler(func(data string) error {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return err
		}
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(10*time.Second))
	})

	for {
		if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return true, err
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		s.handle(data)
	}
}

func (s *Stream) handle(data []byte) {
	var msg models.PushMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.Debug().Err(err).Msg("Failed to parse push message")
		return
	}
	if msg.Type != models.PushTypeNewBooking || msg.Booking == nil {
		return
	}
	deliver("push", s.window, s.sink, *msg.Booking)
}

// String implements fmt.Stringer for suture logging.
func (s *Stream) String() string { return "feed-stream" }
