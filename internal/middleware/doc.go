// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

/*
Package middleware provides HTTP middleware for the BookingPulse API.

Key Components:

  - RequestID: UUID request ids, echoed in X-Request-ID and stored in the
    logging context
  - RequestLogger: one structured log line per request
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by the chi route pattern so path parameters do not explode cardinality

All middleware use the func(http.Handler) http.Handler shape so they plug
straight into chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
