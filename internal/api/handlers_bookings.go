// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package api

import (
	"net/http"

	"github.com/tomtom215/bookingpulse/internal/config"
	"github.com/tomtom215/bookingpulse/internal/models"
)

// Dashboard returns today's totals and top-N breakdowns.
//
// @Summary Get today's dashboard
// @Description Returns today's confirmed booking total with the top arrival airports, top countries and the per-continent breakdown. Ties keep first-seen order.
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.DashboardResponse "Dashboard snapshot"
// @Success 304 "Not modified (If-None-Match matched the ETag)"
// @Router /api/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.store.Snapshot().Dashboard(h.topN()))
}

// MapPoints returns one point per airport with at least one booking today.
//
// @Summary Get today's map points
// @Description Returns one marker per arrival airport with at least one confirmed booking today
// @Tags Analytics
// @Produce json
// @Success 200 {array} models.MapPoint "Airport markers with counts"
// @Success 304 "Not modified (If-None-Match matched the ETag)"
// @Router /api/map [get]
func (h *Handler) MapPoints(w http.ResponseWriter, r *http.Request) {
	points := h.store.Snapshot().MapPoints()
	if points == nil {
		points = []models.MapPoint{}
	}
	respondJSON(w, r, http.StatusOK, points)
}

// RecentBookings serves the poll feed: every retained notice with a
// sequence id above ?since=, plus the highest id assigned so far.
//
// @Summary Poll recent bookings
// @Description Returns retained booking notices with a sequence id greater than since, oldest first, and the highest id assigned so far. Send lastId back as since on the next poll.
// @Tags Realtime
// @Produce json
// @Param since query int false "Last sequence id already received" default(0) minimum(0)
// @Success 200 {object} models.RecentBookingsResponse "Notices after since"
// @Failure 400 {object} models.APIResponse "since is not a non-negative integer"
// @Router /api/bookings/recent [get]
func (h *Handler) RecentBookings(w http.ResponseWriter, r *http.Request) {
	since, err := parseSince(r.URL.Query().Get("since"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, err.Error(), nil)
		return
	}

	bookings, lastID := h.broadcaster.Polls().Since(since)
	if bookings == nil {
		bookings = []models.BookingNotice{}
	}
	respondJSON(w, r, http.StatusOK, models.RecentBookingsResponse{
		Bookings: bookings,
		LastID:   lastID,
	})
}

func (h *Handler) topN() int {
	if h.config == nil || h.config.Bookings.TopN <= 0 {
		return config.DefaultTopN
	}
	return h.config.Bookings.TopN
}
