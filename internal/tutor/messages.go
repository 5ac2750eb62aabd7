// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the tutoring view for the TUI.
//
// This file defines all Bubble Tea message types used by the tutor view:
//   - Solving: answer delivery and classified failures
//   - Speech: playback lifecycle and transcript capture events
//   - Past papers: generation and export results
//   - Clipboard: copy results and the transient-state revert tick
//   - Connectivity: periodic online/offline probes
//
// All message types follow Bubble Tea conventions and are immutable.
package tutor

import (
	"github.com/sankofalabs/bece-tui/internal/audio"
	"github.com/sankofalabs/bece-tui/internal/genai"
	"github.com/sankofalabs/bece-tui/internal/model"
)

// =============================================================================
// SOLVING MESSAGES
// =============================================================================

// AnswerMsg delivers a successful tutor answer.
type AnswerMsg struct {
	// SourceID is the user message this answer responds to. Stale answers
	// whose source has left the transcript are dropped.
	SourceID string
	Raw      string // marker-delimited two-part response
}

// SendFailedMsg delivers a classified send failure.
type SendFailedMsg struct {
	SourceID string
	Kind     genai.FailureKind
	Text     string
	Source   *model.UserMessage // retained for the retry affordance
}

// =============================================================================
// SPEECH MESSAGES
// =============================================================================

// PlaybackDoneMsg signals that a spoken utterance finished or was stopped.
type PlaybackDoneMsg struct{}

// speechReadyMsg carries a decoded utterance ready to play. Playback starts
// from Update so the voice state is rechecked when the audio arrives: an
// utterance synthesized before voice was toggled off is discarded, not
// played.
type speechReadyMsg struct {
	buf *audio.Buffer
}

// TranscriptMsg delivers a live speech-capture revision. Overwrite
// semantics: Text replaces the input field content, it is never appended.
type TranscriptMsg struct {
	Text  string
	Final bool
	Err   error
}

// ListenStoppedMsg signals that the capture session ended and the
// subscription drained.
type ListenStoppedMsg struct{}

// =============================================================================
// PAST-PAPER MESSAGES
// =============================================================================

// PaperGeneratedMsg delivers a generated past paper (or the placeholder
// text when generation failed).
type PaperGeneratedMsg struct {
	Subject string
	Year    string
	Text    string
}

// PaperExportedMsg reports the outcome of a .doc export.
type PaperExportedMsg struct {
	Path string
	Err  error
}

// =============================================================================
// CLIPBOARD MESSAGES
// =============================================================================

// CopyResultMsg reports a clipboard write.
type CopyResultMsg struct {
	MessageID string
	Err       error
}

// copyRevertMsg clears the transient "copied" indicator.
type copyRevertMsg struct {
	MessageID string
}

// =============================================================================
// CONNECTIVITY MESSAGES
// =============================================================================

// onlineStatusMsg reports the periodic connectivity probe.
type onlineStatusMsg struct {
	online bool
}
