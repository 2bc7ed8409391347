// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

/*
Package supervisor provides process supervision for BookingPulse using suture v4.

The tree groups long-running services into layers so a crash in one layer
restarts only that layer's services:

	RootSupervisor ("bookingpulse")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── HubService (push fan-out)
	│   └── events.Relay (bus to broadcaster)
	├── APISupervisor ("api-layer")
	│   ├── HTTPServerService
	│   └── scheduler.ResetService
	└── PlaybackSupervisor ("playback-layer")
	    ├── feed.Poller / feed.Stream
	    └── animation.Processor

The server binary uses the messaging and api layers; the arrivals client
uses the playback layer only. Empty layers idle harmlessly.

Supervisor events (service start, failure, restart, backoff) are logged
through sutureslog on a zerolog-backed slog handler:

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

Every service returns ctx.Err() on shutdown; a non-nil error from any other
cause makes suture restart it with backoff.
*/
package supervisor
