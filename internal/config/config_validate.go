// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package config

import (
	"fmt"
	"net/url"

	"github.com/tomtom215/bookingpulse/internal/scheduler"
	"github.com/tomtom215/bookingpulse/internal/validation"
)

var validLogLevels = map[string]bool{
	"trace":    true,
	"debug":    true,
	"info":     true,
	"warn":     true,
	"error":    true,
	"disabled": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateBookings(); err != nil {
		return err
	}

	if err := c.validateScheduler(); err != nil {
		return err
	}

	if err := c.validateBus(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateFeed(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateBookings() error {
	if _, err := c.Bookings.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateScheduler() error {
	if _, err := scheduler.ParseCron(c.Scheduler.ResetCron); err != nil {
		return fmt.Errorf("RESET_CRON is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateBus() error {
	if c.Bus.Mode != "nats" {
		return nil
	}
	if err := validateURL(c.Bus.NATSURL, "nats", "tls"); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin (use * to allow any)")
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.Security.WebhookRateLimit < 1 || c.Security.ReadRateLimit < 1 {
		return fmt.Errorf("WEBHOOK_RATE_LIMIT and READ_RATE_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) validateFeed() error {
	if err := validateURL(c.Feed.ServerURL, "http", "https"); err != nil {
		return fmt.Errorf("FEED_SERVER_URL is invalid: %w", err)
	}
	if c.Feed.PollInterval <= 0 {
		return fmt.Errorf("FEED_POLL_INTERVAL must be positive")
	}
	if c.Feed.WindowRetain > c.Feed.WindowCeiling {
		return fmt.Errorf("feed.window_retain (%d) must not exceed feed.window_ceiling (%d)",
			c.Feed.WindowRetain, c.Feed.WindowCeiling)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, disabled")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateURL checks that raw parses as an absolute URL with one of schemes.
func validateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("scheme must be one of %v, got %q", schemes, u.Scheme)
}
