// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package api

import (
	"net/http"
)

// SlackWebhook ingests a chat-ops webhook envelope.
//
// @Summary Receive a chat-ops webhook
// @Description Answers url_verification challenges. For event_callback messages, extracts the first JSON booking object from the message text, validates it and, when accepted, counts and broadcasts it. Bot, edited and other subtyped messages are ignored.
// @Description Also served at /api/webhook.
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param envelope body models.WebhookEnvelope true "Webhook envelope"
// @Success 200 {object} models.IngestResponse "processed, not_processed or ignored; url_verification replies with {challenge}"
// @Failure 400 {object} models.APIResponse "Body is not JSON"
// @Failure 413 {object} models.APIResponse "Body too large"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 500 {object} models.IngestResponse "Internal error while ingesting"
// @Router /api/slack-webhook [post]
func (h *Handler) SlackWebhook(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	writeReply(w, h.ingest.HandleWebhookBody(r.Context(), body))
}

// TestBooking ingests a bare booking object, generating an id when missing.
//
// @Summary Ingest a booking directly
// @Description Runs a bare booking object through the same validation and ingestion path as the webhook. A missing booking_id is replaced with a generated TEST- id.
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param booking body models.RawBooking true "Booking object"
// @Success 200 {object} models.IngestResponse "processed or not_processed"
// @Failure 400 {object} models.APIResponse "Body is not JSON"
// @Failure 413 {object} models.APIResponse "Body too large"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 500 {object} models.IngestResponse "Internal error while ingesting"
// @Router /api/test-booking [post]
func (h *Handler) TestBooking(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	writeReply(w, h.ingest.HandleBookingJSON(r.Context(), body))
}
