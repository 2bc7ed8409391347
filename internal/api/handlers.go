// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/bookingpulse/internal/aggregate"
	"github.com/tomtom215/bookingpulse/internal/broadcast"
	"github.com/tomtom215/bookingpulse/internal/config"
	"github.com/tomtom215/bookingpulse/internal/ingest"
	"github.com/tomtom215/bookingpulse/internal/logging"
)

// AirportCounter reports how many airports the directory holds.
type AirportCounter interface {
	Len() int
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrader
//   - handlers_helpers.go: response and request body helpers
//   - handlers_health.go: /health
//   - handlers_bookings.go: dashboard, map and poll feed
//   - handlers_ingest.go: webhook and test-booking ingestion
//   - handlers_websocket.go: push stream
type Handler struct {
	ingest      *ingest.Service
	store       *aggregate.Store
	broadcaster *broadcast.Broadcaster
	airports    AirportCounter
	config      *config.Config
	startTime   time.Time
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(svc, store, broadcaster, directory, cfg)
//	router := api.NewRouter(handler, cfg)
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(svc *ingest.Service, store *aggregate.Store, broadcaster *broadcast.Broadcaster, airports AirportCounter, cfg *config.Config) *Handler {
	return &Handler{
		ingest:      svc,
		store:       store,
		broadcaster: broadcaster,
		airports:    airports,
		config:      cfg,
		startTime:   time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on WebSocket upgrades; an empty one would
	// bypass the CORS allow-list.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
