// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/bookingpulse/internal/models"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestWebSocket_PushesNewBookings(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = env.broadcaster.Hub().RunWithContext(ctx) }()

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://localhost"}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d, want 101", resp.StatusCode)
	}

	deadline := time.Now().Add(5 * time.Second)
	for env.broadcaster.Hub().SubscriberCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	post, err := http.Post(srv.URL+"/api/webhook", "application/json", strings.NewReader(webhookBody("WS-1", "LHR")))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	post.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg models.PushMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != models.PushTypeNewBooking || msg.Booking == nil {
		t.Fatalf("message = %+v", msg)
	}
	if msg.Booking.ID != "WS-1" || msg.Booking.Airport != "LHR" || msg.Booking.Seq != 1 {
		t.Errorf("booking = %+v", msg.Booking)
	}
}

func TestWebSocket_RejectsMissingOrigin(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err == nil {
		conn.Close()
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}

func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Security.CORSOrigins = []string{"https://map.example.com"}
	h := &Handler{config: cfg}

	tests := []struct {
		origin string
		want   bool
	}{
		{"", false},
		{"https://map.example.com", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := h.checkWebSocketOrigin(req); got != tt.want {
			t.Errorf("origin %q = %v, want %v", tt.origin, got, tt.want)
		}
	}
}
