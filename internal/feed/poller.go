// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/models"
	"github.com/tomtom215/bookingpulse/internal/resilience"
)

// RecentPath is the poll endpoint relative to the server base URL.
const RecentPath = "/api/bookings/recent"

// maxResponseBytes bounds a poll response body.
const maxResponseBytes = 4 << 20

// PollerConfig configures a Poller.
type PollerConfig struct {
	// BaseURL is the server root, e.g. http://localhost:3000.
	BaseURL        string
	Interval       time.Duration
	RequestTimeout time.Duration

	// SkipBacklog marks the bookings returned by the first successful poll
	// as seen without delivering them, so a fresh client starts with new
	// arrivals only.
	SkipBacklog bool

	Breaker resilience.BreakerConfig
}

// DefaultPollerConfig returns the standard polling settings.
func DefaultPollerConfig(baseURL string) PollerConfig {
	return PollerConfig{
		BaseURL:        baseURL,
		Interval:       5 * time.Second,
		RequestTimeout: 10 * time.Second,
		SkipBacklog:    true,
		Breaker:        resilience.DefaultBreakerConfig("feed-poller"),
	}
}

// Poller fetches new bookings on a fixed interval.
type Poller struct {
	cfg     PollerConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[interface{}]
	window  *ProcessedIDWindow
	sink    Sink
	clock   clock.Clock
	logger  zerolog.Logger

	mu      sync.Mutex
	since   uint64
	primed  bool
	backlog bool
}

// NewPoller creates a poller. A nil window gets a private default window;
// a nil clock uses the real clock.
func NewPoller(cfg PollerConfig, sink Sink, window *ProcessedIDWindow, clk clock.Clock) (*Poller, error) {
	if _, err := url.Parse(cfg.BaseURL); err != nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid feed base URL %q", cfg.BaseURL)
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", cfg.Interval)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = resilience.DefaultBreakerConfig("feed-poller")
	}
	if window == nil {
		window = NewProcessedIDWindow(0, 0)
	}
	if clk == nil {
		clk = clock.Real()
	}

	return &Poller{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		breaker: resilience.NewCircuitBreaker(cfg.Breaker),
		window:  window,
		sink:    sink,
		clock:   clk,
		logger:  logging.WithComponent("feed-poller"),
		backlog: cfg.SkipBacklog,
	}, nil
}

// Since returns the high-water mark sent with the next request.
func (p *Poller) Since() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.since
}

// Poll performs one request and delivers new bookings. It returns how many
// were delivered. The high-water mark only moves when the request succeeds.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	since := p.Since()

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetch(ctx, since)
	})
	if err != nil {
		return 0, err
	}
	resp, ok := result.(*models.RecentBookingsResponse)
	if !ok {
		return 0, errors.New("unexpected poll result type")
	}

	p.mu.Lock()
	skip := p.backlog && !p.primed
	p.primed = true
	switch {
	case resp.LastID < since:
		// The server restarted and its sequence began again.
		p.logger.Info().Uint64("since", since).Uint64("last_id", resp.LastID).Msg("Feed sequence went backwards, resyncing")
		p.since = 0
	default:
		p.since = resp.LastID
	}
	p.mu.Unlock()

	delivered := 0
	for _, b := range resp.Bookings {
		if skip {
			p.window.Observe(b.ID)
			continue
		}
		if deliver("poll", p.window, p.sink, b) {
			delivered++
		}
	}
	if skip && len(resp.Bookings) > 0 {
		p.logger.Debug().Int("count", len(resp.Bookings)).Msg("Skipped backlog on first poll")
	}
	return delivered, nil
}

func (p *Poller) fetch(ctx context.Context, since uint64) (*models.RecentBookingsResponse, error) {
	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + RecentPath + "?since=" + strconv.FormatUint(since, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll request: %w", err)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			p.logger.Debug().Err(cerr).Msg("Failed to close poll response body")
		}
	}()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll request: unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read poll response: %w", err)
	}
	var out models.RecentBookingsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &out, nil
}

// Serve polls immediately and then every Interval until ctx is done.
// Failed polls are logged and retried on the next tick.
func (p *Poller) Serve(ctx context.Context) error {
	p.logger.Info().Str("url", p.cfg.BaseURL).Dur("interval", p.cfg.Interval).Msg("Starting feed poller")

	p.pollOnce(ctx)

	ticker := p.clock.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	n, err := p.Poll(ctx)
	switch {
	case err == nil:
		if n > 0 {
			p.logger.Debug().Int("delivered", n).Uint64("since", p.Since()).Msg("Poll delivered bookings")
		}
	case ctx.Err() != nil:
	case errors.Is(err, gobreaker.ErrOpenState):
		p.logger.Debug().Msg("Poll skipped, circuit open")
	default:
		p.logger.Warn().Err(err).Msg("Poll failed")
	}
}

// String implements fmt.Stringer for suture logging.
func (p *Poller) String() string { return "feed-poller" }
