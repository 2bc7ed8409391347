// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

/*
Package config loads and validates BookingPulse configuration.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths
 3. Environment variables listed in envMappings

Unknown environment variables are ignored.

# Sections

  - server: HTTP listener (HTTP_HOST, HTTP_PORT, HTTP_READ_TIMEOUT, ...)
  - logging: LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - bookings: TIMEZONE, WINDOW_DAYS_BACK, TOP_N
  - airports: AIRPORTS_FILE (bundled directory when empty)
  - scheduler: RESET_CRON (default "0 0 * * *" in bookings.timezone)
  - broadcast: POLL_CAPACITY, PUSH_QUEUE_SIZE, PUSH_SUBSCRIBER_BUFFER
  - bus: BUS_MODE (memory, nats, embedded), NATS_URL, NATS_EMBEDDED_PORT, ...
  - security: CORS_ORIGINS (comma list), rate limits
  - player and feed: settings of the arrivals client (cmd/arrivals)

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}
	loc, _ := cfg.Bookings.Location()

# Validation

Validate runs the struct tag checks (go-playground/validator) and then the
per-section checks that need more than a tag, such as time zone and cron
parsing. The first failure is returned.
*/
package config
