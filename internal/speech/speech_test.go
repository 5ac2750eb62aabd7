// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech streams live speech-to-text transcripts into the input field.
package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// =============================================================================
// FEATURE DETECTION TESTS
// =============================================================================

func TestNewUnsupportedWithoutEndpoint(t *testing.T) {
	if _, err := New(Config{}); err != ErrNotSupported {
		t.Fatalf("err = %v, want ErrNotSupported", err)
	}
}

func TestNewRejectsNonWebsocketScheme(t *testing.T) {
	if _, err := New(Config{EndpointURL: "http://localhost:9000"}); err != ErrNotSupported {
		t.Fatalf("err = %v, want ErrNotSupported", err)
	}
}

// =============================================================================
// TEST DAEMON
// =============================================================================

// scriptedDaemon upgrades one connection, waits for the start frame, and
// sends the scripted frames.
func scriptedDaemon(t *testing.T, frames []resultFrame) *Recognizer {
	t.Helper()
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		var start startFrame
		if err := conn.ReadJSON(&start); err != nil {
			t.Errorf("read start frame: %v", err)
			return
		}
		if start.Action != "start" || !start.InterimResults {
			t.Errorf("unexpected start frame: %+v", start)
		}

		for _, frame := range frames {
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		}
		// Hold the connection open until the client stops.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	recognizer, err := New(Config{
		EndpointURL: "ws" + strings.TrimPrefix(server.URL, "http"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return recognizer
}

func nextEvent(t *testing.T, session *Session) TranscriptEvent {
	t.Helper()
	select {
	case ev, ok := <-session.Events():
		if !ok {
			t.Fatal("events channel closed early")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for transcript event")
	}
	panic("unreachable")
}

func waitIdle(t *testing.T, session *Session) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for session.State() != StateIdle {
		if time.Now().After(deadline) {
			t.Fatal("session never returned to idle")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestTranscriptOverwriteSemantics(t *testing.T) {
	recognizer := scriptedDaemon(t, []resultFrame{
		{ResultIndex: 0, Results: []result{
			{Alternatives: []alternative{{Transcript: "what is "}}},
		}},
		{ResultIndex: 0, Results: []result{
			{Alternatives: []alternative{{Transcript: "what is "}}},
			{Alternatives: []alternative{{Transcript: "photosynthesis"}}},
		}},
	})

	session, err := recognizer.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer session.Stop()

	first := nextEvent(t, session)
	if first.Transcript != "what is " {
		t.Errorf("first transcript = %q", first.Transcript)
	}

	second := nextEvent(t, session)
	if second.Transcript != "what is photosynthesis" {
		t.Errorf("second transcript = %q, want the full replacement text", second.Transcript)
	}
}

func TestResultIndexSkipsSettledResults(t *testing.T) {
	recognizer := scriptedDaemon(t, []resultFrame{
		{ResultIndex: 1, Results: []result{
			{Final: true, Alternatives: []alternative{{Transcript: "old settled text "}}},
			{Alternatives: []alternative{{Transcript: "new utterance"}}},
		}},
	})

	session, err := recognizer.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer session.Stop()

	ev := nextEvent(t, session)
	if ev.Transcript != "new utterance" {
		t.Errorf("transcript = %q, want only results from the result index onward", ev.Transcript)
	}
}

func TestNaturalEndReturnsToIdle(t *testing.T) {
	recognizer := scriptedDaemon(t, []resultFrame{
		{Results: []result{{Final: true, Alternatives: []alternative{{Transcript: "done"}}}}},
		{End: true},
	})

	session, err := recognizer.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if session.State() != StateListening {
		t.Error("session should start listening")
	}
	nextEvent(t, session)
	waitIdle(t, session)

	// Channel closes after the terminal frame.
	for range session.Events() {
	}
}

func TestDaemonErrorReturnsToIdle(t *testing.T) {
	recognizer := scriptedDaemon(t, []resultFrame{
		{Error: "microphone unavailable"},
	})

	session, err := recognizer.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ev := nextEvent(t, session)
	if ev.Err == nil {
		t.Fatal("expected an error event")
	}
	waitIdle(t, session)
}

func TestStopIsIdempotent(t *testing.T) {
	recognizer := scriptedDaemon(t, nil)

	session, err := recognizer.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	session.Stop()
	session.Stop()
	waitIdle(t, session)
}

func TestMergeResultsFinalFlag(t *testing.T) {
	transcript, final := mergeResults(resultFrame{Results: []result{
		{Final: true, Alternatives: []alternative{{Transcript: "a "}}},
		{Final: false, Alternatives: []alternative{{Transcript: "b"}}},
	}})
	if transcript != "a b" {
		t.Errorf("transcript = %q", transcript)
	}
	if final {
		t.Error("final should be false while any result is interim")
	}
}
