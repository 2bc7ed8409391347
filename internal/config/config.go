// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package config

import (
	"fmt"
	"time"
)

// Config holds all configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Bookings  BookingsConfig  `koanf:"bookings"`
	Airports  AirportsConfig  `koanf:"airports"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Broadcast BroadcastConfig `koanf:"broadcast"`
	Bus       BusConfig       `koanf:"bus"`
	Security  SecurityConfig  `koanf:"security"`
	Player    PlayerConfig    `koanf:"player"`
	Feed      FeedConfig      `koanf:"feed"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// BookingsConfig configures booking acceptance and the read views.
type BookingsConfig struct {
	// Timezone is the IANA zone in which booking dates and the daily reset
	// are evaluated.
	Timezone string `koanf:"timezone"`

	// WindowDaysBack is how many days before today are still accepted.
	// 0 accepts today only; 1 accepts yesterday and today.
	WindowDaysBack int `koanf:"window_days_back" validate:"gte=0,lte=31"`

	// TopN bounds the top airports and top countries lists.
	TopN int `koanf:"top_n" validate:"min=1,max=100"`
}

// Location resolves Timezone.
func (b BookingsConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", b.Timezone, err)
	}
	return loc, nil
}

// AirportsConfig locates the airport directory.
type AirportsConfig struct {
	// File is a JSON airport list. Empty uses the bundled directory.
	File string `koanf:"file"`
}

// SchedulerConfig configures the daily reset.
type SchedulerConfig struct {
	// ResetCron is a five-field cron expression evaluated in
	// bookings.timezone.
	ResetCron string `koanf:"reset_cron"`
}

// BroadcastConfig sizes the poll store and the push registry.
type BroadcastConfig struct {
	PollCapacity     int `koanf:"poll_capacity" validate:"min=1"`
	PushQueueSize    int `koanf:"push_queue_size" validate:"min=1"`
	SubscriberBuffer int `koanf:"subscriber_buffer" validate:"min=1"`
}

// BusConfig selects the event bus transport.
type BusConfig struct {
	Mode          string        `koanf:"mode" validate:"oneof=memory nats embedded"`
	NATSURL       string        `koanf:"nats_url"`
	EmbeddedHost  string        `koanf:"embedded_host"`
	EmbeddedPort  int           `koanf:"embedded_port" validate:"gte=-1,lte=65535"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
	BufferSize    int64         `koanf:"buffer_size" validate:"gte=0"`
	CloseTimeout  time.Duration `koanf:"close_timeout"`
	RetryCount    int           `koanf:"retry_count" validate:"gte=0,lte=10"`
}

// SecurityConfig configures CORS and request rate limits.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	// WebhookRateLimit and ReadRateLimit are requests per window per
	// client IP for the ingestion and the read endpoints.
	WebhookRateLimit int `koanf:"webhook_rate_limit"`
	ReadRateLimit    int `koanf:"read_rate_limit"`
}

// PlayerConfig configures the arrival animation.
type PlayerConfig struct {
	FocusZoom           float64       `koanf:"focus_zoom" validate:"gte=0,lte=22"`
	FlyDuration         time.Duration `koanf:"fly_duration" validate:"gte=0"`
	ReadyTimeout        time.Duration `koanf:"ready_timeout" validate:"gte=0"`
	HoldDuration        time.Duration `koanf:"hold_duration" validate:"gte=0"`
	PrefetchAhead       int           `koanf:"prefetch_ahead" validate:"gte=0,lte=3"`
	PrefetchDedupWindow time.Duration `koanf:"prefetch_dedup_window"`
	PrefetchRate        float64       `koanf:"prefetch_rate" validate:"gte=0"`
	PrefetchBurst       int           `koanf:"prefetch_burst" validate:"gte=0"`
	HomeLat             float64       `koanf:"home_lat" validate:"latitude"`
	HomeLng             float64       `koanf:"home_lng" validate:"longitude"`
	HomeZoom            float64       `koanf:"home_zoom" validate:"gte=0,lte=22"`
}

// DefaultTopN is the length of the top airports and top countries lists.
const DefaultTopN = 10

// Feed modes.
const (
	FeedModePoll = "poll"
	FeedModePush = "push"
	FeedModeBoth = "both"
)

// FeedConfig configures how the arrivals client follows the server.
type FeedConfig struct {
	ServerURL      string        `koanf:"server_url"`
	Mode           string        `koanf:"mode" validate:"oneof=poll push both"`
	PollInterval   time.Duration `koanf:"poll_interval"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	SkipBacklog    bool          `koanf:"skip_backlog"`
	WindowCeiling  int           `koanf:"window_ceiling" validate:"min=1"`
	WindowRetain   int           `koanf:"window_retain" validate:"min=1"`
	MinBackoff     time.Duration `koanf:"min_backoff"`
	MaxBackoff     time.Duration `koanf:"max_backoff"`
}

// UsesPoll reports whether the poller should run.
func (f FeedConfig) UsesPoll() bool { return f.Mode == FeedModePoll || f.Mode == FeedModeBoth }

// UsesPush reports whether the push stream should run.
func (f FeedConfig) UsesPush() bool { return f.Mode == FeedModePush || f.Mode == FeedModeBoth }
