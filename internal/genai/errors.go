// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the HTTP client for the remote generative AI service.
package genai

import (
	"errors"
	"strings"
)

// =============================================================================
// FAILURE TAXONOMY
// =============================================================================

// FailureKind categorizes AI service failures for recovery handling.
// The kinds form a closed set; everything the classifier cannot place
// lands on KindServer.
type FailureKind string

const (
	KindNetwork FailureKind = "network"
	KindTimeout FailureKind = "timeout"
	KindServer  FailureKind = "server"
	KindSafety  FailureKind = "safety"
	KindUnknown FailureKind = "unknown"
)

// ParseFailureKind maps a string back to a FailureKind.
// Unrecognized input yields KindUnknown, never an error: the string may
// come from a foreign transcript encoding.
func ParseFailureKind(s string) FailureKind {
	switch FailureKind(s) {
	case KindNetwork, KindTimeout, KindServer, KindSafety:
		return FailureKind(s)
	default:
		return KindUnknown
	}
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents a classified error from the AI client.
type ClientError struct {
	Kind    FailureKind
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for easy checking.
var (
	ErrOffline      = &ClientError{Kind: KindNetwork, Message: "no network connection"}
	ErrSafetyBlock  = &ClientError{Kind: KindSafety, Message: "response blocked by the safety filter"}
	ErrEmptyAnswer  = &ClientError{Kind: KindServer, Message: "service returned an empty response"}
	ErrMissingKey   = errors.New("missing API key")
	ErrEmptySpeech  = errors.New("speech synthesis returned no audio")
)

// Classify maps an arbitrary error to a FailureKind using a deterministic
// keyword scan over the lower-cased error text. An already-classified
// ClientError passes through unchanged. The scan order is significant:
// network, then timeout, then server indicators; anything left is a
// generic server failure.
func Classify(err error) FailureKind {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind
	}

	desc := strings.ToLower(err.Error())
	switch {
	case containsAny(desc, "fetch", "network", "failed to execute"):
		return KindNetwork
	case containsAny(desc, "deadline", "timeout", "exceeded"):
		return KindTimeout
	case containsAny(desc, "429", "quota", "too many requests"):
		return KindServer
	default:
		return KindServer
	}
}

// Classified wraps err in a ClientError carrying its classification.
// A ClientError is returned as-is.
func Classified(err error) *ClientError {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}
	return &ClientError{Kind: Classify(err), Message: err.Error(), Cause: err}
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind FailureKind) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Kind == kind
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
