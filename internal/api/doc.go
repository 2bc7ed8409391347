// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

/*
Package api provides the HTTP surface of BookingPulse.

Routes:

	GET  /health                  liveness plus airport, booking and subscriber counts
	GET  /api/dashboard           today's dashboard snapshot
	GET  /api/map                 per-airport map points
	GET  /api/bookings/recent     poll feed, ?since=<lastId>
	POST /api/slack-webhook       chat-ops webhook ingestion (alias /api/webhook)
	POST /api/test-booking        bare booking JSON ingestion
	GET  /ws                      push stream of new_booking messages
	GET  /metrics                 Prometheus exposition
	GET  /swagger/*               OpenAPI document and Swagger UI

Read endpoints return bare JSON shapes so dashboard and map consumers can
decode them directly. Errors outside the ingestion path use the
models.APIResponse envelope.

The router is built on chi with the go-chi/cors and go-chi/httprate
middleware. The webhook and read route groups have separate per-IP limits.

Handlers carry swag annotations; the generated document lives in the docs
package, which cmd/server imports for its side effect.
*/
package api
