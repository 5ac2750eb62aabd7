// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the tutoring transcript.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/sankofalabs/bece-tui/internal/genai"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a transcript entry.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Tutor"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE VARIANTS
// =============================================================================

// Message is one immutable transcript entry. There are exactly three
// variants: UserMessage, ModelAnswer and ModelError. The variant is the
// type itself; nothing is encoded in string prefixes.
type Message interface {
	ID() string
	Role() Role
	When() time.Time
}

// header carries the identity fields shared by all variants.
type header struct {
	id        string
	timestamp time.Time
}

func (h header) ID() string      { return h.id }
func (h header) When() time.Time { return h.timestamp }

func newHeader() header {
	return header{id: "msg_" + uuid.NewString(), timestamp: time.Now()}
}

// UserMessage is a question from the student, optionally with a JPEG image.
type UserMessage struct {
	header
	Text      string
	ImageJPEG []byte
}

func (UserMessage) Role() Role { return RoleUser }

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(text string, imageJPEG []byte) *UserMessage {
	return &UserMessage{header: newHeader(), Text: text, ImageJPEG: imageJPEG}
}

// IsEmpty reports whether the message carries neither text nor image.
func (m *UserMessage) IsEmpty() bool {
	return m.Text == "" && len(m.ImageJPEG) == 0
}

// ModelAnswer is a successful tutor response. Explanation is "" when the
// model provided only the short answer.
type ModelAnswer struct {
	header
	Answer      string
	Explanation string
}

func (ModelAnswer) Role() Role { return RoleModel }

// NewModelAnswer creates an answer message from a raw two-part response
// string by splitting on the section marker.
func NewModelAnswer(raw string) *ModelAnswer {
	answer, explanation, _ := SplitSections(raw)
	return &ModelAnswer{header: newHeader(), Answer: answer, Explanation: explanation}
}

// HasExplanation reports whether a detailed explanation was provided.
func (m *ModelAnswer) HasExplanation() bool { return m.Explanation != "" }

// ModelError is a failed exchange. Source is the user message that
// triggered it, retained so retry can restore the original input.
type ModelError struct {
	header
	Kind   genai.FailureKind
	Text   string
	Source *UserMessage
}

func (ModelError) Role() Role { return RoleModel }

// NewModelError creates an error message for a failed send.
func NewModelError(kind genai.FailureKind, text string, source *UserMessage) *ModelError {
	return &ModelError{header: newHeader(), Kind: kind, Text: text, Source: source}
}
