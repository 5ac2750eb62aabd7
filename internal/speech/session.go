// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech streams live speech-to-text transcripts into the input field.
package speech

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// =============================================================================
// WIRE FRAMES
// =============================================================================

// startFrame opens a recognition stream.
type startFrame struct {
	Action         string `json:"action"`
	Language       string `json:"language"`
	InterimResults bool   `json:"interim_results"`
	Continuous     bool   `json:"continuous"`
}

// stopFrame ends a recognition stream.
type stopFrame struct {
	Action string `json:"action"`
}

// resultFrame is one recognition event from the daemon. Results before
// ResultIndex are settled and already reflected in earlier frames.
type resultFrame struct {
	ResultIndex int      `json:"result_index"`
	Results     []result `json:"results"`
	End         bool     `json:"end"`   // natural end of speech
	Error       string   `json:"error"` // daemon-side failure
}

type result struct {
	Final        bool          `json:"final"`
	Alternatives []alternative `json:"alternatives"`
}

type alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// =============================================================================
// EVENTS
// =============================================================================

// TranscriptEvent republishes the full running transcript for the current
// utterance window. Overwrite semantics: each event supersedes all prior
// partial text, it is never appended.
type TranscriptEvent struct {
	Transcript string
	Final      bool
	Err        error // non-nil only on the terminal event of a failed session
}

// =============================================================================
// SESSION
// =============================================================================

// Session is one cancellable capture subscription. Events arrive on
// Events() until the session ends; the channel is then closed and the
// session is idle.
type Session struct {
	conn   *websocket.Conn
	events chan TranscriptEvent

	mu    sync.Mutex
	state State

	stop    sync.Once
	stopped atomic.Bool
}

func newSession(conn *websocket.Conn) *Session {
	return &Session{
		conn:   conn,
		events: make(chan TranscriptEvent, 8),
		state:  StateListening,
	}
}

// Events returns the transcript subscription channel.
func (s *Session) Events() <-chan TranscriptEvent {
	return s.events
}

// State returns the current capture state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stop ends listening. Idempotent; the events channel closes shortly after.
func (s *Session) Stop() {
	s.stop.Do(func() {
		s.stopped.Store(true)
		// Best effort: the daemon finalizes the utterance on "stop", but
		// the close below is what actually ends the read loop.
		_ = s.conn.WriteJSON(stopFrame{Action: "stop"})
		_ = s.conn.Close()
	})
}

// readLoop consumes recognition frames until the stream ends, republishing
// the merged transcript after every event. Runs on its own goroutine; all
// terminal paths set the state back to idle and close the events channel.
func (s *Session) readLoop() {
	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
		s.Stop()
		close(s.events)
	}()

	for {
		var frame resultFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			// Deliberate Stop closes the connection; that is a clean end,
			// not an error worth publishing.
			if s.stopped.Load() ||
				websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			select {
			case s.events <- TranscriptEvent{Err: err}:
			default:
			}
			return
		}

		if frame.Error != "" {
			select {
			case s.events <- TranscriptEvent{Err: errFromDaemon(frame.Error)}:
			default:
			}
			return
		}
		if frame.End {
			return
		}

		transcript, final := mergeResults(frame)
		s.publish(TranscriptEvent{Transcript: transcript, Final: final})
	}
}

// publish delivers an event without ever blocking the read loop. Events
// carry the whole transcript, so when the consumer lags the stale one is
// dropped in favor of the newest.
func (s *Session) publish(ev TranscriptEvent) {
	select {
	case s.events <- ev:
		return
	default:
	}
	select {
	case <-s.events:
	default:
	}
	select {
	case s.events <- ev:
	default:
	}
}

// mergeResults concatenates the top alternative of every result from the
// frame's result index onward into one running transcript.
func mergeResults(frame resultFrame) (transcript string, final bool) {
	var sb strings.Builder
	final = true
	start := frame.ResultIndex
	if start < 0 || start > len(frame.Results) {
		start = 0
	}
	for _, res := range frame.Results[start:] {
		if len(res.Alternatives) == 0 {
			continue
		}
		sb.WriteString(res.Alternatives[0].Transcript)
		if !res.Final {
			final = false
		}
	}
	return sb.String(), final
}

type daemonError string

func (e daemonError) Error() string { return "recognition daemon: " + string(e) }

func errFromDaemon(msg string) error { return daemonError(msg) }
