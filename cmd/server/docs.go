// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package main provides the BookingPulse HTTP server
//
// @title BookingPulse API
// @version 1.0
// @description Confirmed booking analytics and live arrival map.
// @description
// @description ## Ingestion
// @description
// @description Bookings arrive as chat-ops webhook messages whose text embeds a JSON booking object.
// @description Only bookings with status `confirmed`, a date inside the configured window and a known
// @description arrival airport are counted. Every accepted booking is published to the poll feed
// @description (`/api/bookings/recent`) and the push stream (`/ws`).
// @description
// @description ## Daily reset
// @description
// @description Counts reset on the configured schedule, local midnight in the configured time zone by default.
// @description
// @description ## Rate Limiting
// @description
// @description Webhook and read routes carry separate per-IP limits. Exceeding a limit returns 429.
// @description
// @description ## Error Responses
// @description
// @description Errors outside the ingestion result use this envelope:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "error": {"code": "INVALID_PARAMETER", "message": "since must be a non-negative integer"},
// @description   "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/bookingpulse/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:3000
// @BasePath /
// @schemes http https
//
// @tag.name Core
// @tag.description Health and service status
//
// @tag.name Ingestion
// @tag.description Webhook and direct booking ingestion
//
// @tag.name Analytics
// @tag.description Today's dashboard and map aggregates
//
// @tag.name Realtime
// @tag.description Poll feed and WebSocket push stream of accepted bookings
package main
