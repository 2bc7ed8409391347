// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bookingpulse/config.yaml",
	"/etc/bookingpulse/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Bookings: BookingsConfig{
			Timezone:       "UTC",
			WindowDaysBack: 1,
			TopN:           DefaultTopN,
		},
		Airports: AirportsConfig{
			File: "", // bundled directory
		},
		Scheduler: SchedulerConfig{
			ResetCron: "0 0 * * *",
		},
		Broadcast: BroadcastConfig{
			PollCapacity:     200,
			PushQueueSize:    256,
			SubscriberBuffer: 64,
		},
		Bus: BusConfig{
			Mode:          "memory",
			NATSURL:       "nats://127.0.0.1:4222",
			EmbeddedHost:  "127.0.0.1",
			EmbeddedPort:  4222,
			MaxReconnects: -1, // unlimited
			ReconnectWait: 2 * time.Second,
			BufferSize:    256,
			CloseTimeout:  10 * time.Second,
			RetryCount:    3,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: false,
			RateLimitWindow:   time.Minute,
			WebhookRateLimit:  120,
			ReadRateLimit:     300,
		},
		Player: PlayerConfig{
			FocusZoom:           6,
			FlyDuration:         2 * time.Second,
			ReadyTimeout:        3 * time.Second,
			HoldDuration:        3 * time.Second,
			PrefetchAhead:       3,
			PrefetchDedupWindow: 5 * time.Minute,
			PrefetchRate:        2,
			PrefetchBurst:       1,
			HomeLat:             20,
			HomeLng:             0,
			HomeZoom:            2,
		},
		Feed: FeedConfig{
			ServerURL:      "http://localhost:3000",
			Mode:           FeedModeBoth,
			PollInterval:   5 * time.Second,
			RequestTimeout: 10 * time.Second,
			SkipBacklog:    true,
			WindowCeiling:  1000,
			WindowRetain:   500,
			MinBackoff:     time.Second,
			MaxBackoff:     32 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults: built-in values from defaultConfig
//  2. Config file: optional YAML file (if exists)
//  3. Environment variables: override any mapped setting
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML lists arrive as slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Bookings
	"timezone":         "bookings.timezone",
	"window_days_back": "bookings.window_days_back",
	"top_n":            "bookings.top_n",

	"airports_file": "airports.file",
	"reset_cron":    "scheduler.reset_cron",

	// Broadcast
	"poll_capacity":          "broadcast.poll_capacity",
	"push_queue_size":        "broadcast.push_queue_size",
	"push_subscriber_buffer": "broadcast.subscriber_buffer",

	// Event bus
	"bus_mode":            "bus.mode",
	"nats_url":            "bus.nats_url",
	"nats_embedded_host":  "bus.embedded_host",
	"nats_embedded_port":  "bus.embedded_port",
	"nats_max_reconnects": "bus.max_reconnects",
	"nats_reconnect_wait": "bus.reconnect_wait",
	"bus_buffer_size":     "bus.buffer_size",
	"bus_close_timeout":   "bus.close_timeout",
	"bus_retry_count":     "bus.retry_count",

	// Security
	"cors_origins":       "security.cors_origins",
	"disable_rate_limit": "security.rate_limit_disabled",
	"rate_limit_window":  "security.rate_limit_window",
	"webhook_rate_limit": "security.webhook_rate_limit",
	"read_rate_limit":    "security.read_rate_limit",

	// Arrivals client
	"player_focus_zoom":     "player.focus_zoom",
	"player_fly_duration":   "player.fly_duration",
	"player_ready_timeout":  "player.ready_timeout",
	"player_hold_duration":  "player.hold_duration",
	"player_prefetch_ahead": "player.prefetch_ahead",
	"player_prefetch_rate":  "player.prefetch_rate",
	"feed_server_url":       "feed.server_url",
	"feed_mode":             "feed.mode",
	"feed_poll_interval":    "feed.poll_interval",
	"feed_skip_backlog":     "feed.skip_backlog",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - TIMEZONE -> bookings.timezone
//   - BUS_MODE -> bus.mode
//
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never reach the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
