// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package ingest turns inbound webhook payloads into aggregate mutations.
//
// The accept path is: extract the embedded JSON object, decode it, run the
// booking validator, mutate the aggregate store, publish the accepted
// booking for distribution. Every entry point returns a Reply holding the
// HTTP status and body, so the HTTP layer only has to write it.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/bookingpulse/internal/aggregate"
	"github.com/tomtom215/bookingpulse/internal/logging"
	"github.com/tomtom215/bookingpulse/internal/metrics"
	"github.com/tomtom215/bookingpulse/internal/models"
	"github.com/tomtom215/bookingpulse/internal/validation"
)

// Reasons reported for ignored payloads.
const (
	ReasonInvalidJSON       = "invalid JSON"
	ReasonNotRegularMessage = "not a regular message"
	ReasonNotMessageEvent   = "not a message event"
)

// ErrorCodeInvalidBody is the API error code for an undecodable request body.
const ErrorCodeInvalidBody = "INVALID_REQUEST_BODY"

// internalErrorMessage is the only detail a caller sees for an internal failure.
const internalErrorMessage = "internal server error processing booking"

// Publisher distributes accepted bookings to observers.
type Publisher interface {
	Publish(ctx context.Context, booking models.NormalizedBooking) error
}

// Validator decides whether a raw booking is counted.
type Validator interface {
	Validate(raw *models.RawBooking) validation.Result
}

// Reply is an HTTP status plus a JSON-encodable body.
type Reply struct {
	StatusCode int
	Body       interface{}
}

// Service runs the ingestion pipeline. It is safe for concurrent use; the
// store serializes mutations.
type Service struct {
	validator Validator
	store     *aggregate.Store
	publisher Publisher
}

// NewService wires the pipeline. publisher may be nil, in which case
// accepted bookings are only counted.
func NewService(validator Validator, store *aggregate.Store, publisher Publisher) *Service {
	return &Service{validator: validator, store: store, publisher: publisher}
}

// HandleWebhookBody decodes and dispatches a raw webhook request body. A
// body that is not a JSON envelope is a client error and gets a 400 with
// the standard API error envelope.
func (s *Service) HandleWebhookBody(ctx context.Context, body []byte) Reply {
	env, err := DecodeEnvelope(body)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Webhook body is not a JSON envelope")
		return Reply{StatusCode: http.StatusBadRequest, Body: models.APIResponse{
			Status: "error",
			Error: &models.APIError{
				Code:    ErrorCodeInvalidBody,
				Message: "request body must be a JSON webhook envelope",
			},
			Metadata: models.Metadata{
				Timestamp: time.Now().UTC(),
				RequestID: logging.RequestIDFromContext(ctx),
			},
		}}
	}
	return s.HandleWebhook(ctx, env)
}

// HandleWebhook dispatches a decoded chat-ops envelope.
func (s *Service) HandleWebhook(ctx context.Context, env *models.WebhookEnvelope) Reply {
	switch {
	case env.Type == models.EnvelopeURLVerification:
		return Reply{StatusCode: http.StatusOK, Body: models.ChallengeResponse{Challenge: env.Challenge}}

	case env.Type == models.EnvelopeEventCallback && env.Event != nil:
		if env.Event.Type != models.EventTypeMessage || env.Event.Subtype != "" {
			return s.ignored(ctx, ReasonNotRegularMessage)
		}
		return s.HandleMessageText(ctx, env.Event.Text)

	default:
		return s.ignored(ctx, ReasonNotMessageEvent)
	}
}

// HandleMessageText ingests the booking embedded in a message body.
func (s *Service) HandleMessageText(ctx context.Context, text string) Reply {
	obj, err := ExtractObject(text)
	if err != nil {
		return s.ignored(ctx, ReasonInvalidJSON)
	}
	return s.ingestObject(ctx, obj)
}

// HandleBookingJSON ingests a bare booking object. A missing booking_id is
// generated, which makes it convenient for manual testing.
func (s *Service) HandleBookingJSON(ctx context.Context, body []byte) Reply {
	obj, ok := asObject(body)
	if !ok {
		return s.ignored(ctx, ReasonInvalidJSON)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(obj, &fields); err == nil {
		if id, _ := fields["booking_id"].(string); strings.TrimSpace(id) == "" {
			fields["booking_id"] = "TEST-" + uuid.New().String()[:8]
			if patched, err := json.Marshal(fields); err == nil {
				obj = patched
			}
		}
	}
	return s.ingestObject(ctx, obj)
}

func (s *Service) ingestObject(ctx context.Context, obj []byte) Reply {
	var raw models.RawBooking
	if err := json.Unmarshal(obj, &raw); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Booking object has wrong field types")
		return s.Ingest(ctx, nil)
	}
	return s.Ingest(ctx, &raw)
}

// Ingest validates raw and, when accepted, mutates the aggregate and
// publishes the booking. A panic anywhere on this path is recovered and
// reported as an internal error; the store is never left half-mutated
// because Mutate publishes its result in one atomic swap.
func (s *Service) Ingest(ctx context.Context, raw *models.RawBooking) (reply Reply) {
	if raw != nil && raw.BookingID != "" {
		ctx = logging.ContextWithBookingID(ctx, raw.BookingID)
	}

	defer func() {
		if r := recover(); r != nil {
			logging.Ctx(ctx).Error().
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("Recovered panic while ingesting booking")
			metrics.RecordIngestion(models.IngestStatusError, "internal")
			reply = internalError()
		}
	}()

	result := s.validator.Validate(raw)
	if !result.Accepted() {
		return s.rejected(ctx, raw, result)
	}

	mutation := s.store.Mutate(result.Booking)
	booking := mutation.Booking
	metrics.SetBookingsToday(mutation.TotalCount)
	if mutation.Repeated {
		metrics.RecordRepeatedBooking()
		logging.Ctx(ctx).Debug().Msg("Booking id already counted today")
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, booking); err != nil {
			metrics.RecordPublishFailure()
			logging.Ctx(ctx).Warn().Err(err).Msg("Accepted booking could not be published")
		}
	}

	metrics.RecordIngestion(models.IngestStatusProcessed, "")
	logging.Ctx(ctx).Info().
		Str("airport", booking.AirportCode).
		Str("country", booking.Country).
		Int("total", mutation.TotalCount).
		Msg("Booking processed")

	return Reply{StatusCode: http.StatusOK, Body: models.IngestResponse{
		Status:        models.IngestStatusProcessed,
		BookingID:     booking.ID,
		Booking:       &booking,
		TotalBookings: mutation.TotalCount,
		Destination:   booking.Destination(),
		Country:       booking.Country,
	}}
}

func (s *Service) rejected(ctx context.Context, raw *models.RawBooking, result validation.Result) Reply {
	metrics.RecordIngestion(models.IngestStatusNotProcessed, string(result.Reason))
	logging.Ctx(ctx).Info().
		Str("reason", string(result.Reason)).
		Str("detail", result.Detail).
		Msg("Booking not processed")

	resp := models.IngestResponse{
		Status:  models.IngestStatusNotProcessed,
		Reason:  string(result.Reason),
		Message: result.Reason.Message(),
	}
	if raw != nil {
		resp.BookingID = raw.BookingID
		resp.Booking = raw
	}
	return Reply{StatusCode: http.StatusOK, Body: resp}
}

func (s *Service) ignored(ctx context.Context, reason string) Reply {
	metrics.RecordIngestion(models.IngestStatusIgnored, reason)
	logging.Ctx(ctx).Debug().Str("reason", reason).Msg("Webhook payload ignored")
	return Reply{StatusCode: http.StatusOK, Body: models.IngestResponse{
		Status: models.IngestStatusIgnored,
		Reason: reason,
	}}
}

func internalError() Reply {
	return Reply{StatusCode: http.StatusInternalServerError, Body: models.IngestResponse{
		Status:  models.IngestStatusError,
		Error:   "internal_error",
		Message: internalErrorMessage,
	}}
}

// DecodeEnvelope decodes a webhook request body.
func DecodeEnvelope(body []byte) (*models.WebhookEnvelope, error) {
	var env models.WebhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode webhook envelope: %w", err)
	}
	return &env, nil
}
