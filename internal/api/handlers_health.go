// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/bookingpulse/internal/metrics"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// Health reports liveness with the directory size, today's total and the
// number of push subscribers.
//
// @Summary Get service health
// @Description Returns liveness plus the number of loaded airports, today's booking total, connected push subscribers and process uptime
// @Tags Core
// @Produce json
// @Success 200 {object} models.HealthResponse "Service is alive"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(uptime)

	resp := models.HealthResponse{
		Status:        "ok",
		TotalBookings: h.store.Snapshot().TotalCount,
		UptimeSeconds: uptime,
	}
	if h.airports != nil {
		resp.AirportsLoaded = h.airports.Len()
	}
	if h.broadcaster != nil {
		resp.Subscribers = h.broadcaster.Hub().SubscriberCount()
	}
	respondJSON(w, nil, http.StatusOK, resp)
}
