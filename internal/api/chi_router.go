// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/bookingpulse/internal/config"
	"github.com/tomtom215/bookingpulse/internal/middleware"
)

// Rate limit group labels.
const (
	rateGroupWebhook = "webhook"
	rateGroupRead    = "read"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler    *Handler
	middleware *ChiMiddleware
	security   config.SecurityConfig
}

// NewRouter creates a router for handler using the security section of cfg.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	var sec config.SecurityConfig
	if cfg != nil {
		sec = cfg.Security
	}
	return &Router{
		handler:    handler,
		middleware: NewChiMiddleware(ChiMiddlewareConfigFromSecurity(sec)),
		security:   sec,
	}
}

// SetupChi builds the route tree.
//
// Global middleware order: request id, request log, RealIP, Recoverer,
// CORS, Prometheus. The webhook and read groups carry separate per-IP
// limits; /health, /metrics and /swagger/* are not limited.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	h := router.handler

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Group(func(r chi.Router) {
		r.Use(router.middleware.RateLimit(rateGroupWebhook, router.security.WebhookRateLimit))
		r.Post("/api/slack-webhook", h.SlackWebhook)
		r.Post("/api/webhook", h.SlackWebhook)
		r.Post("/api/test-booking", h.TestBooking)
	})

	r.Group(func(r chi.Router) {
		r.Use(router.middleware.RateLimit(rateGroupRead, router.security.ReadRateLimit))
		r.Get("/api/dashboard", h.Dashboard)
		r.Get("/api/map", h.MapPoints)
		r.Get("/api/bookings/recent", h.RecentBookings)
		r.Get("/ws", h.WebSocket)
	})

	return r
}
