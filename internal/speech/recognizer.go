// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech streams live speech-to-text transcripts into the input field.
//
// The Recognizer wraps a continuous-recognition daemon reached over a
// websocket (a local whisper-style streaming server). It is feature-detected
// at construction: without a configured endpoint the constructor returns
// ErrNotSupported and the UI shows voice input as unavailable instead of
// failing silently.
package speech

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNotSupported signals that no recognition backend is available.
var ErrNotSupported = errors.New("speech recognition not supported: no recognition endpoint configured")

// ErrAlreadyListening signals a Start while a session is active.
var ErrAlreadyListening = errors.New("speech capture already listening")

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds recognizer settings.
type Config struct {
	// EndpointURL of the streaming recognition daemon (ws:// or wss://).
	// Empty means speech capture is unsupported on this installation.
	EndpointURL string

	// Language hint passed to the recognizer (default: "en-GH").
	Language string

	// DialTimeout for the websocket handshake (default: 3s).
	DialTimeout time.Duration
}

// =============================================================================
// RECOGNIZER
// =============================================================================

// State of the capture engine. There is no paused state: toggling while
// listening always stops.
type State int

const (
	StateIdle State = iota
	StateListening
)

// Recognizer creates capture sessions against the recognition daemon.
type Recognizer struct {
	config Config
	dialer *websocket.Dialer
}

// New feature-detects the recognition backend and returns a Recognizer,
// or ErrNotSupported when no endpoint is configured.
func New(config Config) (*Recognizer, error) {
	if config.EndpointURL == "" {
		return nil, ErrNotSupported
	}
	parsed, err := url.Parse(config.EndpointURL)
	if err != nil || (parsed.Scheme != "ws" && parsed.Scheme != "wss") {
		return nil, ErrNotSupported
	}
	if config.Language == "" {
		config.Language = "en-GH"
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 3 * time.Second
	}

	return &Recognizer{
		config: config,
		dialer: &websocket.Dialer{HandshakeTimeout: config.DialTimeout},
	}, nil
}

// Start opens a capture session. The session transitions to listening
// immediately; it returns to idle on Stop, on an underlying error, or at
// natural end of speech.
func (r *Recognizer) Start(ctx context.Context) (*Session, error) {
	conn, _, err := r.dialer.DialContext(ctx, r.config.EndpointURL, nil)
	if err != nil {
		return nil, err
	}

	if err := conn.WriteJSON(startFrame{
		Action:         "start",
		Language:       r.config.Language,
		InterimResults: true,
		Continuous:     true,
	}); err != nil {
		conn.Close()
		return nil, err
	}

	session := newSession(conn)
	go session.readLoop()
	return session, nil
}
