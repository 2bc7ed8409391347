// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package animation plays booking arrivals on a map, one at a time.
//
// The Processor is a two-state machine (Idle, Animating) draining a FIFO
// queue. Each playback is three timed phases: fly to the airport and wait
// for the map to settle, hold a marker, fly back to where the camera was.
// Producers only ever append; a playback in progress is never interrupted.
// All waiting goes through the injected clock and stops when the
// processor's context ends, after which no further view command is issued.
package animation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/metrics"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// State is the processor state.
type State int32

const (
	StateIdle State = iota
	StateAnimating
)

func (s State) String() string {
	switch s {
	case StateAnimating:
		return "animating"
	default:
		return "idle"
	}
}

// Processor drains the animation queue.
type Processor struct {
	view     MapView
	clock    clock.Clock
	cfg      Config
	prefetch *prefetcher
	logger   zerolog.Logger

	// lease serializes view changes between playback and prefetch.
	lease sync.Mutex

	mu     sync.Mutex
	queue  []Entry
	state  State
	closed bool
	wake   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// NewProcessor creates an idle processor. A nil clock uses the real clock.
func NewProcessor(view MapView, cfg Config, clk clock.Clock) *Processor {
	if clk == nil {
		clk = clock.Real()
	}
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	p := &Processor{
		view:   view,
		clock:  clk,
		cfg:    cfg,
		logger: logging.With().Str("component", "animation").Logger(),
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
	p.prefetch = newPrefetcher(view, &p.lease, cfg, clk)
	return p
}

// Enqueue appends booking to the tail of the queue. It returns false once
// the processor is closed.
func (p *Processor) Enqueue(booking models.BookingNotice) bool {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	p.queue = append(p.queue, Entry{Booking: booking, EnqueuedAt: p.clock.Now()})
	depth := len(p.queue)
	p.mu.Unlock()

	metrics.AnimationQueueDepth.Set(float64(depth))
	select {
	case p.wake <- struct{}{}:
	default:
	}
	return true
}

// State returns the current state.
func (p *Processor) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Len returns the number of entries waiting, excluding the one playing.
func (p *Processor) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Close cancels playback and discards the queue. Run returns soon after.
func (p *Processor) Close() {
	p.mu.Lock()
	p.closed = true
	p.queue = nil
	p.mu.Unlock()

	metrics.AnimationQueueDepth.Set(0)
	p.cancel()
}

// Run plays queued entries until ctx is done or Close is called. Only one
// Run may be active at a time.
func (p *Processor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(p.ctx, cancel)
	defer stop()

	p.prefetch.bind(ctx)
	defer func() {
		cancel()
		p.prefetch.wait()
	}()

	for {
		entry, ok := p.next(ctx)
		if !ok {
			p.setState(StateIdle)
			return ctx.Err()
		}
		p.play(ctx, entry)
	}
}

// String implements fmt.Stringer for suture logging.
func (p *Processor) String() string { return "animation-processor" }

// Serve implements suture.Service. A processor stopped by Close is not
// restarted.
func (p *Processor) Serve(ctx context.Context) error {
	err := p.Run(ctx)
	if ctx.Err() == nil && p.ctx.Err() != nil {
		return suture.ErrDoNotRestart
	}
	return err
}

// next blocks until an entry is available and moves to Animating.
func (p *Processor) next(ctx context.Context) (Entry, bool) {
	for {
		if ctx.Err() != nil {
			return Entry{}, false
		}

		p.mu.Lock()
		if len(p.queue) > 0 {
			e := p.queue[0]
			p.queue[0] = Entry{}
			p.queue = p.queue[1:]
			p.state = StateAnimating
			depth := len(p.queue)
			p.mu.Unlock()
			metrics.AnimationQueueDepth.Set(float64(depth))
			return e, true
		}
		p.state = StateIdle
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return Entry{}, false
		case <-p.wake:
		}
	}
}

func (p *Processor) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// upcoming returns up to n entries after the one just dequeued.
func (p *Processor) upcoming(n int) []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > len(p.queue) {
		n = len(p.queue)
	}
	return append([]Entry(nil), p.queue[:n]...)
}

func (p *Processor) play(ctx context.Context, e Entry) {
	log := p.logger.With().Str("booking_id", e.Booking.ID).Str("airport", e.Booking.Airport).Logger()
	log.Debug().Dur("queued_for", p.clock.Now().Sub(e.EnqueuedAt)).Msg("Playback started")

	if p.cfg.PrefetchAhead > 0 {
		p.prefetch.submit(e, p.upcoming(p.cfg.PrefetchAhead))
	}

	completed := p.playPhases(ctx, e, &log)
	metrics.RecordPlayback(completed)
	if completed {
		log.Debug().Msg("Playback completed")
	} else {
		log.Debug().Msg("Playback cancelled")
	}
}

func (p *Processor) playPhases(ctx context.Context, e Entry, log *zerolog.Logger) bool {
	origin := p.view.Camera()
	target := Camera{Lat: e.Booking.Lat(), Lng: e.Booking.Lng(), Zoom: p.cfg.FocusZoom}

	// Phase 1: fly to the airport.
	p.lease.Lock()
	err := p.fly(ctx, target, "fly_to", log)
	p.lease.Unlock()
	if err != nil {
		return false
	}

	// Phase 2: hold the marker. The view is free for prefetching meanwhile.
	if ctx.Err() != nil {
		return false
	}
	if err := p.view.ShowMarker(ctx, e.Booking); err != nil {
		log.Warn().Err(err).Msg("Show marker failed")
	}
	p.prefetch.openWindow()
	err = clock.Sleep(ctx, p.clock, p.cfg.HoldDuration)
	p.prefetch.closeWindow()

	p.lease.Lock()
	defer p.lease.Unlock()
	if err != nil || ctx.Err() != nil {
		return false
	}
	if err := p.view.HideMarker(ctx, e.Booking); err != nil {
		log.Warn().Err(err).Msg("Hide marker failed")
	}

	// Phase 3: fly back.
	return p.fly(ctx, origin, "fly_back", log) == nil
}

// fly starts a transition, waits for its duration and then for the view to
// settle. Only cancellation is an error.
func (p *Processor) fly(ctx context.Context, target Camera, phase string, log *zerolog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.view.FlyTo(ctx, target, p.cfg.FlyDuration); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Str("phase", phase).Msg("Fly transition failed")
	}
	if err := clock.Sleep(ctx, p.clock, p.cfg.FlyDuration); err != nil {
		return err
	}
	return p.awaitReady(ctx, phase, log)
}

// awaitReady waits for the view to settle, giving up after ReadyTimeout.
func (p *Processor) awaitReady(ctx context.Context, phase string, log *zerolog.Logger) error {
	if p.cfg.ReadyTimeout <= 0 {
		return ctx.Err()
	}

	readyCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	result := make(chan error, 1)
	go func() { result <- p.view.WaitReady(readyCtx) }()

	timer := p.clock.NewTimer(p.cfg.ReadyTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-result:
		if err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Str("phase", phase).Msg("Wait for view failed")
		}
		return ctx.Err()
	case <-timer.C:
		metrics.TileLoadTimeouts.Inc()
		log.Debug().Str("phase", phase).Dur("timeout", p.cfg.ReadyTimeout).Msg("View not ready, continuing")
		return nil
	}
}
