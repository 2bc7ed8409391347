// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package ingest

import (
	"errors"
	"testing"
)

func TestScanObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    string
		wantErr error
	}{
		{name: "bare object", text: `{"a":1}`, want: `{"a":1}`},
		{name: "surrounding prose", text: `here's a booking: {"booking_id":"B2"} thanks`, want: `{"booking_id":"B2"}`},
		{name: "nested", text: `x {"arrival":{"airport":"JFK"},"n":2} y`, want: `{"arrival":{"airport":"JFK"},"n":2}`},
		{name: "brace inside string", text: `{"note":"a } b { c","id":"1"}`, want: `{"note":"a } b { c","id":"1"}`},
		{name: "escaped quote inside string", text: `{"note":"say \"}\" now"}`, want: `{"note":"say \"}\" now"}`},
		{name: "first of two", text: `{"a":1} and {"b":2}`, want: `{"a":1}`},
		{name: "markdown fence", text: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "unbalanced then balanced", text: `oops { then {"a":1}`, want: `{"a":1}`},
		{name: "no braces", text: `no json here`, wantErr: ErrNoJSONObject},
		{name: "never closes", text: `{"a":1`, wantErr: ErrNoJSONObject},
		{name: "only closing", text: `}}`, wantErr: ErrNoJSONObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ScanObject(tt.text)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ScanObject() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ScanObject() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ScanObject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "embedded", text: `booking {"booking_id":"B1"} ok`, want: `{"booking_id":"B1"}`},
		{name: "whole body with whitespace", text: "  {\"booking_id\":\"B1\"}\n", want: `{"booking_id":"B1"}`},
		{name: "html entities", text: `&lt;booking&gt; {"note":"a &amp; b"}`, want: `{"note":"a & b"}`},
		{name: "balanced but not json", text: `{not json}`, wantErr: true},
		{name: "array body", text: `[1,2,3]`, wantErr: true},
		{name: "plain text", text: `hello there`, wantErr: true},
		{name: "empty", text: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractObject(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidJSON) {
					t.Fatalf("ExtractObject() error = %v, want ErrInvalidJSON", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractObject() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractObject() = %s, want %s", got, tt.want)
			}
		})
	}
}
