// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor implements the interactive tutoring view: subject
// selection, the question/answer transcript, voice input and output, and
// the past-paper flow.
//
// The package follows the Bubble Tea architecture: a single Model updated
// by messages on one control loop. All blocking work (AI calls, speech
// synthesis, playback, clipboard) runs inside tea.Cmd functions; their
// results come back as messages, so application state is only ever touched
// from Update. One send may be in flight at a time, enforced by an
// ignored-while-pending guard. Playback is exclusive: starting a new
// utterance stops the prior one first.
package tutor
