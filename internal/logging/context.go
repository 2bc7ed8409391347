// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	bookingIDKey contextKey = "booking_id"
)

// GenerateRequestID creates a new unique request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns a new context carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithBookingID returns a new context carrying the booking ID being
// processed, so every log line on the ingestion path can be correlated.
func ContextWithBookingID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, bookingIDKey, id)
}

// BookingIDFromContext returns the booking ID, or "" if none is set.
func BookingIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(bookingIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns a logger with the request and booking IDs from ctx attached.
//
//	logging.Ctx(ctx).Info().Msg("Processing webhook")
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := Logger().With()
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		logCtx = logCtx.Str("request_id", requestID)
	}
	if bookingID := BookingIDFromContext(ctx); bookingID != "" {
		logCtx = logCtx.Str("booking_id", bookingID)
	}
	logger := logCtx.Logger()
	return &logger
}

// WithComponent creates a child logger tagged with a component field.
//
//	logger := logging.WithComponent("reset-scheduler")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
