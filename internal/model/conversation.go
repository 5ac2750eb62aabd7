// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the tutoring transcript.
package model

import (
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds one session's transcript for a single subject.
// The history is append-only; the one exception is Remove, used when the
// student retries a failed exchange. Nothing here survives the session.
type Conversation struct {
	Subject   string
	CreatedAt time.Time
	UpdatedAt time.Time

	messages []Message
	revealed map[string]bool
}

// NewConversation creates an empty conversation for a subject.
func NewConversation(subject string) *Conversation {
	return &Conversation{
		Subject:   subject,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		revealed:  make(map[string]bool),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the transcript.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
	c.UpdatedAt = time.Now()
}

// Remove deletes a message by ID. Only error messages are ever removed
// (by the retry flow); the caller enforces that.
func (c *Conversation) Remove(id string) bool {
	for i, msg := range c.messages {
		if msg.ID() == id {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// Get returns a message by its ID, or nil.
func (c *Conversation) Get(id string) Message {
	for _, msg := range c.messages {
		if msg.ID() == id {
			return msg
		}
	}
	return nil
}

// Messages returns the ordered transcript.
func (c *Conversation) Messages() []Message {
	return c.messages
}

// Len returns the number of transcript entries.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// IsEmpty reports whether the transcript has no entries.
func (c *Conversation) IsEmpty() bool {
	return len(c.messages) == 0
}

// LastAnswer returns the most recent ModelAnswer, or nil.
func (c *Conversation) LastAnswer() *ModelAnswer {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if a, isAnswer := c.messages[i].(*ModelAnswer); isAnswer {
			return a
		}
	}
	return nil
}

// LastError returns the most recent ModelError, or nil.
func (c *Conversation) LastError() *ModelError {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if e, isErr := c.messages[i].(*ModelError); isErr {
			return e
		}
	}
	return nil
}

// =============================================================================
// REVEALED EXPLANATIONS
// =============================================================================

// Reveal marks a message's explanation as disclosed. Returns true the
// first time only; the set grows and never shrinks within a session.
func (c *Conversation) Reveal(id string) bool {
	if c.revealed[id] {
		return false
	}
	c.revealed[id] = true
	return true
}

// IsRevealed reports whether an explanation has been disclosed.
func (c *Conversation) IsRevealed(id string) bool {
	return c.revealed[id]
}
