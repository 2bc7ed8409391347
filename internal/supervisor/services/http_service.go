// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/bookingpulse/internal/logging"
)

// HTTPServer matches the *http.Server lifecycle methods.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService wraps an HTTP server as a supervised service.
//
// ListenAndServe runs in a goroutine; when the context ends the server is
// shut down with shutdownTimeout to drain in-flight requests.
//
//	server := &http.Server{Addr: ":3000", Handler: router.SetupChi()}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string

	ready        <-chan struct{}
	readyTimeout time.Duration
}

// ErrDependencyNotReady is returned by Serve when the channel passed to
// WaitFor does not close within its timeout. Suture restarts the service,
// which waits again.
var ErrDependencyNotReady = errors.New("http server dependency not ready")

// NewHTTPServerService creates a new HTTP server service wrapper. A
// non-positive shutdownTimeout selects 10 seconds.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// WaitFor delays listening until ready is closed. The server does not
// accept requests before then.
//
//	httpSvc := services.NewHTTPServerService(server, 10*time.Second).
//		WaitFor(relay.Ready(), 30*time.Second)
func (h *HTTPServerService) WaitFor(ready <-chan struct{}, timeout time.Duration) *HTTPServerService {
	h.ready = ready
	h.readyTimeout = timeout
	return h
}

// Serve implements suture.Service. A listen failure is returned so suture
// restarts the server; http.ErrServerClosed is expected on shutdown.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	if err := h.awaitReady(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	if srv, ok := h.server.(*http.Server); ok {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
	}

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// ctx is already canceled, so shutdown gets its own deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}

		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPServerService) awaitReady(ctx context.Context) error {
	if h.ready == nil {
		return nil
	}
	timeout := h.readyTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-h.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		logging.Warn().Dur("timeout", timeout).Msg("HTTP server still waiting for its dependency")
		return ErrDependencyNotReady
	}
}

// String implements fmt.Stringer for suture logging.
func (h *HTTPServerService) String() string {
	return h.name
}
