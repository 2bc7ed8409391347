// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package api

import (
	"net/http"

	"github.com/tomtom215/bookingpulse/internal/broadcast"
	"github.com/tomtom215/bookingpulse/internal/logging"
)

// WebSocket upgrades the request and subscribes it to the push hub.
//
// @Summary Subscribe to live bookings
// @Description Upgrades to a WebSocket and streams {"type":"new_booking","booking":{...}} messages for bookings accepted after the connection opens. Send {"type":"ping"} to receive {"type":"pong"}.
// @Tags Realtime
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {string} string "Bad Request"
// @Failure 403 {string} string "Origin not allowed"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	broadcast.NewClient(h.broadcaster.Hub(), conn).Start()
	logging.Ctx(r.Context()).Debug().
		Str("remote", conn.RemoteAddr().String()).
		Int("subscribers", h.broadcaster.Hub().SubscriberCount()).
		Msg("WebSocket client connected")
}
