// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

/*
Package services adapts BookingPulse components to suture.Service.

Components whose lifecycle is already Serve(ctx) error (the event relay,
the reset scheduler, the feed consumers, the animation processor) are added
to the tree directly. This package covers the rest:

  - HTTPServerService: runs an *http.Server and shuts it down gracefully
    when the context ends
  - HubService: runs the push hub fan-out loop
*/
package services
