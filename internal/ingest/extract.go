// BookingPulse - Confirmed Booking Analytics and Live Arrival Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookingpulse

package ingest

import (
	"bytes"
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrNoJSONObject is returned by ScanObject when the text has no
	// balanced {...} substring.
	ErrNoJSONObject = errors.New("no balanced JSON object in text")

	// ErrInvalidJSON is returned by ExtractObject when neither the scanned
	// object nor the whole text is a valid JSON object.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// chat-ops sources escape these three characters in message text.
var entityReplacer = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// ScanObject returns the first balanced {...} substring of text. Braces
// inside JSON string literals are ignored. If the object opened by a brace
// never closes, scanning resumes at the next opening brace.
func ScanObject(text string) (string, error) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := matchBrace(text, start); end > 0 {
			return text[start : end+1], nil
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSONObject
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ExtractObject finds the JSON object embedded in a message body. It tries
// the first balanced {...} substring, then the whole body, and returns
// ErrInvalidJSON if neither is a JSON object.
func ExtractObject(text string) ([]byte, error) {
	text = entityReplacer.Replace(text)

	if candidate, err := ScanObject(text); err == nil {
		if obj, ok := asObject([]byte(candidate)); ok {
			return obj, nil
		}
	}
	if obj, ok := asObject([]byte(text)); ok {
		return obj, nil
	}
	return nil, ErrInvalidJSON
}

func asObject(data []byte) ([]byte, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' || !json.Valid(data) {
		return nil, false
	}
	return data, true
}
