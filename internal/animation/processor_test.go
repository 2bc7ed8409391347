// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package animation

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thejerf/suture/v4"
	"golang.org/x/time/rate"

	"github.com/tomtom215/bookingpulse/internal/clock"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/metrics"
	"github.com/tomtom215/bookingpulse/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

var home = Camera{Lat: 20, Lng: 0, Zoom: 2}

type viewEvent struct {
	kind   string // fly, show, hide, prefetch, prefetch_end
	camera Camera
	id     string
}

// fakeView records commands. Primary commands are also sent on events so
// tests can step through phases.
type fakeView struct {
	mu     sync.Mutex
	camera Camera
	log    []viewEvent
	events chan viewEvent

	readyBlocks    bool
	prefetchBlocks bool
	prefetchStart  chan struct{}
}

func newFakeView() *fakeView {
	return &fakeView{camera: home, events: make(chan viewEvent, 64), prefetchStart: make(chan struct{}, 16)}
}

func (v *fakeView) record(ev viewEvent, primary bool) {
	v.mu.Lock()
	v.log = append(v.log, ev)
	v.mu.Unlock()
	if primary {
		v.events <- ev
	}
}

func (v *fakeView) Camera() Camera {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera
}

func (v *fakeView) FlyTo(_ context.Context, target Camera, _ time.Duration) error {
	v.mu.Lock()
	v.camera = target
	v.mu.Unlock()
	v.record(viewEvent{kind: "fly", camera: target}, true)
	return nil
}

func (v *fakeView) WaitReady(ctx context.Context) error {
	if v.readyBlocks {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (v *fakeView) ShowMarker(_ context.Context, b models.BookingNotice) error {
	v.record(viewEvent{kind: "show", id: b.ID}, true)
	return nil
}

func (v *fakeView) HideMarker(_ context.Context, b models.BookingNotice) error {
	v.record(viewEvent{kind: "hide", id: b.ID}, true)
	return nil
}

func (v *fakeView) Prefetch(ctx context.Context, target Camera) error {
	v.record(viewEvent{kind: "prefetch", camera: target}, false)
	v.prefetchStart <- struct{}{}
	var err error
	if v.prefetchBlocks {
		<-ctx.Done()
		err = ctx.Err()
	}
	v.record(viewEvent{kind: "prefetch_end", camera: target}, false)
	return err
}

func (v *fakeView) snapshot() []viewEvent {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]viewEvent(nil), v.log...)
}

func (v *fakeView) count(kind string) int {
	n := 0
	for _, ev := range v.snapshot() {
		if ev.kind == kind {
			n++
		}
	}
	return n
}

type harness struct {
	t    *testing.T
	clk  *clock.FakeClock
	view *fakeView
	proc *Processor
	done chan error
	stop context.CancelFunc
	cfg  Config
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PrefetchAhead = 0
	cfg.PrefetchRate = rate.Inf
	return cfg
}

func newHarness(t *testing.T, cfg Config, view *fakeView) *harness {
	t.Helper()
	clk := clock.Fake(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	h := &harness{t: t, clk: clk, view: view, cfg: cfg.withDefaults()}
	h.proc = NewProcessor(view, cfg, clk)
	return h
}

func (h *harness) start() {
	ctx, cancel := context.WithCancel(context.Background())
	h.stop = cancel
	h.done = make(chan error, 1)
	go func() { h.done <- h.proc.Run(ctx) }()
	h.t.Cleanup(func() {
		h.proc.Close()
		cancel()
	})
}

func (h *harness) expect(kind string) viewEvent {
	h.t.Helper()
	select {
	case ev := <-h.view.events:
		if ev.kind != kind {
			h.t.Fatalf("view command = %s, want %s", ev.kind, kind)
		}
		return ev
	case <-time.After(5 * time.Second):
		h.t.Fatalf("timed out waiting for %s", kind)
		return viewEvent{}
	}
}

func (h *harness) advance(d time.Duration) {
	h.clk.WaitForTimers(1)
	h.clk.Advance(d)
}

// playOne steps through one full playback and returns its fly target.
func (h *harness) playOne(id string) Camera {
	h.t.Helper()
	to := h.expect("fly")
	h.advance(h.cfg.FlyDuration)
	if ev := h.expect("show"); ev.id != id {
		h.t.Fatalf("showing %s, want %s", ev.id, id)
	}
	h.advance(h.cfg.HoldDuration)
	if ev := h.expect("hide"); ev.id != id {
		h.t.Fatalf("hiding %s, want %s", ev.id, id)
	}
	if back := h.expect("fly"); back.camera != home {
		h.t.Fatalf("fly back to %+v, want %+v", back.camera, home)
	}
	h.advance(h.cfg.FlyDuration)
	return to.camera
}

func (h *harness) waitIdle() {
	h.t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for h.proc.State() != StateIdle || h.proc.Len() != 0 {
		if time.Now().After(deadline) {
			h.t.Fatalf("processor state %s with %d queued, want idle and empty", h.proc.State(), h.proc.Len())
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func (h *harness) waitStopped() error {
	h.t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(5 * time.Second):
		h.t.Fatal("Run did not return")
		return nil
	}
}

func booking(id string, lat, lng float64) models.BookingNotice {
	return models.BookingNotice{ID: id, Airport: id, Coordinates: [2]float64{lat, lng}}
}

var (
	jfk = booking("JFK", 40.6413, -73.7781)
	lhr = booking("LHR", 51.47, -0.4543)
	nrt = booking("NRT", 35.772, 140.3929)
)

func TestProcessor_PlaysFIFOOneAtATime(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), newFakeView())
	h.proc.Enqueue(jfk)
	h.proc.Enqueue(lhr)
	if h.proc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.proc.Len())
	}
	h.start()

	first := h.playOne("JFK")
	if first != (Camera{Lat: 40.6413, Lng: -73.7781, Zoom: 6}) {
		t.Errorf("first target = %+v", first)
	}
	second := h.playOne("LHR")
	if second.Lat != 51.47 {
		t.Errorf("second target = %+v", second)
	}
	h.waitIdle()

	var kinds []string
	for _, ev := range h.view.snapshot() {
		kinds = append(kinds, ev.kind+":"+ev.id)
	}
	want := []string{"fly:", "show:JFK", "hide:JFK", "fly:", "fly:", "show:LHR", "hide:LHR", "fly:"}
	if len(kinds) != len(want) {
		t.Fatalf("commands = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("command %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestProcessor_EnqueueDuringPlaybackDoesNotInterrupt(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), newFakeView())
	h.proc.Enqueue(jfk)
	h.start()

	h.expect("fly")
	if h.proc.State() != StateAnimating {
		t.Errorf("State() = %s, want animating", h.proc.State())
	}
	h.advance(h.cfg.FlyDuration)
	h.expect("show")

	h.proc.Enqueue(lhr)
	if h.proc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.proc.Len())
	}

	h.advance(h.cfg.HoldDuration)
	if ev := h.expect("hide"); ev.id != "JFK" {
		t.Fatalf("hide %s, want JFK", ev.id)
	}
	h.expect("fly")
	h.advance(h.cfg.FlyDuration)

	h.playOne("LHR")
	h.waitIdle()
}

func TestProcessor_ReadyTimeoutIsNonFatal(t *testing.T) {
	view := newFakeView()
	view.readyBlocks = true
	h := newHarness(t, testConfig(), view)
	before := testutil.ToFloat64(metrics.TileLoadTimeouts)

	h.proc.Enqueue(jfk)
	h.start()

	h.expect("fly")
	h.advance(h.cfg.FlyDuration)
	h.advance(h.cfg.ReadyTimeout)
	h.expect("show")

	if got := testutil.ToFloat64(metrics.TileLoadTimeouts) - before; got != 1 {
		t.Errorf("tile load timeouts = %v, want 1", got)
	}
}

func TestProcessor_CloseMidPlaybackIsTotal(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testConfig(), newFakeView())
	h.proc.Enqueue(jfk)
	h.proc.Enqueue(lhr)
	h.start()

	h.expect("fly")
	h.advance(h.cfg.FlyDuration)
	h.expect("show")

	h.proc.Close()
	if err := h.waitStopped(); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if n := h.clk.PendingCount(); n != 0 {
		t.Errorf("PendingCount() = %d after Close, want 0", n)
	}

	commands := len(h.view.snapshot())
	h.clk.Advance(time.Hour)
	time.Sleep(20 * time.Millisecond)
	if got := len(h.view.snapshot()); got != commands {
		t.Errorf("view received %d commands after Close", got-commands)
	}

	if h.proc.Enqueue(nrt) {
		t.Error("Enqueue() after Close = true")
	}
	if h.proc.Len() != 0 || h.proc.State() != StateIdle {
		t.Errorf("after Close: Len %d, State %s", h.proc.Len(), h.proc.State())
	}
}

func TestProcessor_ContextCancelDuringFly(t *testing.T) {
	t.Parallel()

	view := newFakeView()
	view.readyBlocks = true
	h := newHarness(t, testConfig(), view)
	h.proc.Enqueue(jfk)
	h.start()

	h.expect("fly")
	h.advance(h.cfg.FlyDuration)
	h.clk.WaitForTimers(1) // ready timer armed

	h.stop()
	if err := h.waitStopped(); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if n := h.clk.PendingCount(); n != 0 {
		t.Errorf("PendingCount() = %d, want 0", n)
	}
	if n := view.count("show"); n != 0 {
		t.Errorf("marker shown %d times after cancel", n)
	}
}

func TestProcessor_PrefetchesUpcomingOnlyDuringHold(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.PrefetchAhead = 3
	view := newFakeView()
	h := newHarness(t, cfg, view)

	jfkAgain := booking("JFK-2", 40.6413, -73.7781)
	h.proc.Enqueue(jfk)
	h.proc.Enqueue(lhr)
	h.proc.Enqueue(jfkAgain)
	h.proc.Enqueue(nrt)
	h.start()

	h.expect("fly")
	h.advance(h.cfg.FlyDuration)
	h.expect("show")

	deadline := time.Now().Add(5 * time.Second)
	for view.count("prefetch_end") < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("prefetched %d locations, want 2", view.count("prefetch_end"))
		}
		time.Sleep(2 * time.Millisecond)
	}

	h.advance(h.cfg.HoldDuration)
	h.expect("hide")
	h.expect("fly")
	h.advance(h.cfg.FlyDuration)

	h.playOne("LHR")
	h.playOne("JFK-2")
	h.playOne("NRT")
	h.waitIdle()

	var prefetched []string
	inHold := false
	for _, ev := range view.snapshot() {
		switch ev.kind {
		case "show":
			inHold = true
		case "hide":
			inHold = false
		case "prefetch":
			if !inHold {
				t.Errorf("prefetch of %s outside the hold phase", ev.camera.Key())
			}
			prefetched = append(prefetched, ev.camera.Key())
		}
	}

	want := []string{CoordinateKey(51.47, -0.4543), CoordinateKey(35.772, 140.3929)}
	if len(prefetched) != len(want) {
		t.Fatalf("prefetched %v, want %v", prefetched, want)
	}
	for i := range want {
		if prefetched[i] != want[i] {
			t.Errorf("prefetch %d = %s, want %s", i, prefetched[i], want[i])
		}
	}
}

func TestProcessor_PlaybackPreemptsPrefetch(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.PrefetchAhead = 1
	view := newFakeView()
	view.prefetchBlocks = true
	h := newHarness(t, cfg, view)

	h.proc.Enqueue(jfk)
	h.proc.Enqueue(lhr)
	h.start()

	h.expect("fly")
	h.advance(h.cfg.FlyDuration)
	h.expect("show")

	select {
	case <-view.prefetchStart:
	case <-time.After(5 * time.Second):
		t.Fatal("prefetch never started")
	}

	h.advance(h.cfg.HoldDuration)
	h.expect("hide")
	h.expect("fly")
	h.advance(h.cfg.FlyDuration)
	h.playOne("LHR")
	h.waitIdle()

	log := view.snapshot()
	var prefetchEnd, hide int
	for i, ev := range log {
		if ev.kind == "prefetch_end" && prefetchEnd == 0 {
			prefetchEnd = i
		}
		if ev.kind == "hide" && hide == 0 {
			hide = i
		}
	}
	if prefetchEnd == 0 || prefetchEnd > hide {
		t.Errorf("prefetch ended at %d, after the primary resumed at %d", prefetchEnd, hide)
	}
	if n := view.count("prefetch"); n != 1 {
		t.Errorf("prefetch attempts = %d, want 1 (never for the entry being played)", n)
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	if StateIdle.String() != "idle" || StateAnimating.String() != "animating" {
		t.Errorf("String() = %q, %q", StateIdle, StateAnimating)
	}
}

func TestLogView(t *testing.T) {
	t.Parallel()

	v := NewLogView(home)
	ctx := context.Background()
	target := Camera{Lat: 1, Lng: 2, Zoom: 6}
	if err := v.FlyTo(ctx, target, time.Second); err != nil {
		t.Fatalf("FlyTo() error = %v", err)
	}
	if v.Camera() != target {
		t.Errorf("Camera() = %+v, want %+v", v.Camera(), target)
	}
	if err := v.WaitReady(ctx); err != nil {
		t.Errorf("WaitReady() error = %v", err)
	}
	if err := v.ShowMarker(ctx, jfk); err != nil {
		t.Errorf("ShowMarker() error = %v", err)
	}
	if err := v.HideMarker(ctx, jfk); err != nil {
		t.Errorf("HideMarker() error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := v.Prefetch(cancelled, target); !errors.Is(err, context.Canceled) {
		t.Errorf("Prefetch(cancelled) = %v, want context.Canceled", err)
	}
}

func TestProcessor_ServeAfterCloseIsNotRestarted(t *testing.T) {
	t.Parallel()

	p := NewProcessor(newFakeView(), testConfig(), clock.Fake(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)))
	p.Close()

	if err := p.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("Serve after Close = %v, want suture.ErrDoNotRestart", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q := NewProcessor(newFakeView(), testConfig(), nil)
	if err := q.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve with canceled ctx = %v, want context.Canceled", err)
	}
}
