// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package animation

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/tomtom215/bookingpulse/internal/cache"
	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/metrics"
)

// Prefetch outcomes, used as the metric label.
const (
	prefetchDone           = "done"
	prefetchDeduplicated   = "deduplicated"
	prefetchSkippedCurrent = "skipped_current"
	prefetchPreempted      = "preempted"
	prefetchFailed         = "failed"
)

type prefetchTarget struct {
	key    string
	camera Camera
}

// prefetcher warms tiles for upcoming entries in a single background
// worker. It only touches the view while the primary playback has opened
// the hold window and it holds the view lease; closing the window cancels
// the attempt in flight.
type prefetcher struct {
	view    MapView
	lease   *sync.Mutex
	seen    *cache.TTLSet
	limiter *rate.Limiter

	mu       sync.Mutex
	ctx      context.Context
	pending  []prefetchTarget
	current  string // key of the entry being played
	running  bool
	open     bool
	opened   chan struct{} // closed when the window opens
	inflight context.CancelFunc
	wg       sync.WaitGroup
}

func newPrefetcher(view MapView, lease *sync.Mutex, cfg Config, clk clock.Clock) *prefetcher {
	return &prefetcher{
		view:    view,
		lease:   lease,
		seen:    cache.NewTTLSet(256, cfg.PrefetchDedupWindow, clk),
		limiter: rate.NewLimiter(cfg.PrefetchRate, cfg.PrefetchBurst),
		opened:  make(chan struct{}),
	}
}

// bind sets the context the worker runs under.
func (p *prefetcher) bind(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mu.Unlock()
}

// submit replaces the pending targets with the upcoming entries that are
// neither the current entry's location nor recently prefetched. It never
// blocks.
func (p *prefetcher) submit(current Entry, upcoming []Entry) {
	currentKey := current.Key()
	// The primary playback loads this location itself.
	p.seen.Add(currentKey)

	targets := make([]prefetchTarget, 0, len(upcoming))
	queued := make(map[string]bool, len(upcoming))
	for _, e := range upcoming {
		key := e.Key()
		switch {
		case key == currentKey:
			metrics.RecordPrefetch(prefetchSkippedCurrent)
		case queued[key] || p.seen.Contains(key):
			metrics.RecordPrefetch(prefetchDeduplicated)
		default:
			queued[key] = true
			targets = append(targets, prefetchTarget{key: key, camera: Camera{Lat: e.Booking.Lat(), Lng: e.Booking.Lng()}})
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = currentKey
	p.pending = targets
	if len(targets) == 0 || p.running || p.ctx == nil {
		return
	}
	p.running = true
	p.wg.Add(1)
	go p.work(p.ctx)
}

// openWindow lets the worker use the view.
func (p *prefetcher) openWindow() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		p.open = true
		close(p.opened)
	}
}

// closeWindow revokes access and cancels the attempt in flight. The caller
// then takes the lease, which waits for the worker to let go of the view.
func (p *prefetcher) closeWindow() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open {
		p.open = false
		p.opened = make(chan struct{})
	}
	if p.inflight != nil {
		p.inflight()
		p.inflight = nil
	}
}

// wait blocks until the worker has exited. The bound context must be done.
func (p *prefetcher) wait() {
	p.wg.Wait()
}

func (p *prefetcher) work(ctx context.Context) {
	defer p.wg.Done()

	for {
		target, ok := p.next()
		if !ok {
			return
		}
		if err := p.limiter.Wait(ctx); err != nil {
			p.stop()
			return
		}
		attempt, cancel, ok := p.awaitWindow(ctx)
		if !ok {
			p.stop()
			return
		}
		p.run(attempt, target)
		cancel()
	}
}

func (p *prefetcher) next() (prefetchTarget, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		p.running = false
		return prefetchTarget{}, false
	}
	t := p.pending[0]
	p.pending = p.pending[1:]
	return t, true
}

func (p *prefetcher) requeue(t prefetchTarget) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = append([]prefetchTarget{t}, p.pending...)
}

func (p *prefetcher) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	p.pending = nil
}

// awaitWindow blocks until the hold window is open and returns a context
// that closeWindow cancels.
func (p *prefetcher) awaitWindow(ctx context.Context) (context.Context, context.CancelFunc, bool) {
	for {
		p.mu.Lock()
		if p.open {
			attempt, cancel := context.WithCancel(ctx)
			p.inflight = cancel
			p.mu.Unlock()
			return attempt, cancel, true
		}
		opened := p.opened
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, nil, false
		case <-opened:
		}
	}
}

func (p *prefetcher) run(attempt context.Context, t prefetchTarget) {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()
	if t.key == current {
		metrics.RecordPrefetch(prefetchSkippedCurrent)
		return
	}

	if !p.lease.TryLock() {
		// The primary took the view back; try again next window.
		p.requeue(t)
		return
	}
	defer p.lease.Unlock()

	if attempt.Err() != nil {
		p.requeue(t)
		metrics.RecordPrefetch(prefetchPreempted)
		return
	}

	err := p.view.Prefetch(attempt, t.camera)
	switch {
	case attempt.Err() != nil:
		p.requeue(t)
		metrics.RecordPrefetch(prefetchPreempted)
	case err != nil:
		metrics.RecordPrefetch(prefetchFailed)
		logging.Debug().Err(err).Str("key", t.key).Msg("Tile prefetch failed")
	default:
		p.seen.Add(t.key)
		metrics.RecordPrefetch(prefetchDone)
	}
}
