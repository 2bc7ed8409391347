// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package models

// Envelope types sent by the chat-ops webhook source.
const (
	EnvelopeURLVerification = "url_verification"
	EnvelopeEventCallback   = "event_callback"
	EventTypeMessage        = "message"
)

// Ingestion outcome statuses returned to the webhook caller.
const (
	IngestStatusProcessed    = "processed"
	IngestStatusNotProcessed = "not_processed"
	IngestStatusIgnored      = "ignored"
	IngestStatusError        = "error"
)

// WebhookEnvelope is the outer JSON document posted by the chat-ops source.
type WebhookEnvelope struct {
	Type      string        `json:"type"`
	Challenge string        `json:"challenge,omitempty"`
	Token     string        `json:"token,omitempty"`
	TeamID    string        `json:"team_id,omitempty"`
	EventID   string        `json:"event_id,omitempty"`
	Event     *WebhookEvent `json:"event,omitempty"`
}

// WebhookEvent is the inner event of an event_callback envelope.
type WebhookEvent struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype,omitempty"`
	Channel string `json:"channel,omitempty"`
	User    string `json:"user,omitempty"`
	Text    string `json:"text"`
	TS      string `json:"ts,omitempty"`
}

// ChallengeResponse echoes a url_verification challenge.
type ChallengeResponse struct {
	Challenge string `json:"challenge"`
}

// IngestResponse is the reply to a webhook or test-booking request.
// Booking holds the *NormalizedBooking when processed and the submitted
// *RawBooking when rejected.
type IngestResponse struct {
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	Message       string `json:"message,omitempty"`
	BookingID     string `json:"booking_id,omitempty"`
	Booking       any    `json:"booking,omitempty"`
	TotalBookings int    `json:"totalBookings,omitempty"`
	Destination   string `json:"destination,omitempty"`
	Country       string `json:"country,omitempty"`
	Error         string `json:"error,omitempty"`
}
