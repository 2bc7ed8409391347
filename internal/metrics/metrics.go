// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

// Package metrics declares the Prometheus instruments exported on /metrics.
//
// Instruments are registered on the default registry via promauto; callers
// use the Record/Set helpers rather than touching the vectors directly.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion
	IngestionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_ingestion_outcomes_total",
			Help: "Webhook payloads by outcome status and reason",
		},
		[]string{"status", "reason"},
	)

	BookingsToday = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookings_today",
			Help: "Confirmed bookings counted in the current daily aggregate",
		},
	)

	RepeatedBookingIDs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_repeated_ids_total",
			Help: "Accepted bookings whose id was already counted the same day",
		},
	)

	PublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_publish_failures_total",
			Help: "Accepted bookings that could not be handed to the event bus",
		},
	)

	AggregateResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aggregate_resets_total",
			Help: "Daily aggregate resets performed by the scheduler",
		},
	)

	AggregateLastReset = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aggregate_last_reset_timestamp_seconds",
			Help: "Unix time of the last daily aggregate reset",
		},
	)

	// Distribution
	PollStoreEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poll_store_entries",
			Help: "Bookings currently retained in the poll store",
		},
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of push stream subscribers",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Push messages queued to subscribers",
		},
	)

	WSSubscribersDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_subscribers_dropped_total",
			Help: "Subscribers removed from the push registry",
		},
		[]string{"reason"},
	)

	BusMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_bus_messages_total",
			Help: "Booking messages on the event bus by direction",
		},
		[]string{"direction"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit breakers
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Playback
	AnimationPlaybacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animation_playbacks_total",
			Help: "Animation playbacks by result (completed, cancelled)",
		},
		[]string{"result"},
	)

	AnimationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animation_queue_depth",
			Help: "Entries waiting in the animation queue",
		},
	)

	TileLoadTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animation_tile_load_timeouts_total",
			Help: "Wait-for-ready steps that gave up after the timeout",
		},
	)

	PrefetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animation_prefetch_requests_total",
			Help: "Tile prefetch attempts by result (done, deduplicated, throttled, preempted, failed)",
		},
		[]string{"result"},
	)

	FeedBookingsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_bookings_received_total",
			Help: "Booking notices received by live feed consumers",
		},
		[]string{"source", "result"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordIngestion counts one webhook outcome.
func RecordIngestion(status, reason string) {
	IngestionOutcomes.WithLabelValues(status, reason).Inc()
}

// SetBookingsToday records the current daily total.
func SetBookingsToday(total int) {
	BookingsToday.Set(float64(total))
}

// RecordRepeatedBooking counts an accepted booking whose id repeated.
func RecordRepeatedBooking() {
	RepeatedBookingIDs.Inc()
}

// RecordPublishFailure counts an accepted booking that was not distributed.
func RecordPublishFailure() {
	PublishFailures.Inc()
}

// RecordReset records a daily reset at t.
func RecordReset(t time.Time) {
	AggregateResets.Inc()
	AggregateLastReset.Set(float64(t.Unix()))
	BookingsToday.Set(0)
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit counts a request rejected by a rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordCircuitBreakerTransition records a breaker state change. States are
// encoded as 0=closed, 1=half-open, 2=open.
func RecordCircuitBreakerTransition(name, from, to string, toCode int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(toCode))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordPlayback counts a finished or cancelled animation playback.
func RecordPlayback(completed bool) {
	if completed {
		AnimationPlaybacks.WithLabelValues("completed").Inc()
		return
	}
	AnimationPlaybacks.WithLabelValues("cancelled").Inc()
}

// RecordPrefetch counts one prefetch attempt outcome.
func RecordPrefetch(result string) {
	PrefetchRequests.WithLabelValues(result).Inc()
}

// RecordFeedBooking counts a booking notice seen by a feed consumer.
func RecordFeedBooking(source string, duplicate bool) {
	result := "new"
	if duplicate {
		result = "duplicate"
	}
	FeedBookingsReceived.WithLabelValues(source, result).Inc()
}
