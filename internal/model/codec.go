// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the tutoring transcript.
//
// This file holds the two wire codecs the tutor shares with the AI service
// and with older transcript dumps: the section marker that divides a
// response into answer and explanation, and the error-tag prefix that
// encodes a failure classification into plain text. Both are pure string
// transforms with no side effects.
package model

import (
	"strings"

	"github.com/sankofalabs/bece-tui/internal/genai"
)

// SectionMarker divides a model response into the short answer and the
// detailed explanation. Fixed by the system instruction sent with every
// tutoring request.
const SectionMarker = "---EXPLANATION---"

// errorTagPrefix opens the error-tag encoding: ERROR_MODE[<kind>]<text>.
const errorTagPrefix = "ERROR_MODE["

// SplitSections splits a raw response into (answer, explanation).
// Without the marker the whole string is the answer and explanation is "".
// A degenerate response that opens with the marker promotes the remainder
// to the answer, so the answer is empty only when the input carries no text
// outside the marker; ok reports whether a marker was present.
func SplitSections(raw string) (answer, explanation string, ok bool) {
	before, after, found := strings.Cut(raw, SectionMarker)
	answer = strings.TrimSpace(before)
	if !found {
		return answer, "", false
	}
	explanation = strings.TrimSpace(after)
	if answer == "" {
		answer, explanation = explanation, ""
	}
	return answer, explanation, true
}

// EncodeErrorTag renders a failure as ERROR_MODE[<kind>]<text>.
func EncodeErrorTag(kind genai.FailureKind, text string) string {
	return errorTagPrefix + string(kind) + "]" + text
}

// DecodeErrorTag parses an error-tagged string back into (kind, text).
// Decoding is read-only and idempotent: the input is never mutated, and a
// string that does not carry the tag decodes as (KindUnknown, input, false).
func DecodeErrorTag(s string) (kind genai.FailureKind, text string, ok bool) {
	rest, found := strings.CutPrefix(s, errorTagPrefix)
	if !found {
		return genai.KindUnknown, s, false
	}
	rawKind, text, found := strings.Cut(rest, "]")
	if !found {
		return genai.KindUnknown, s, false
	}
	return genai.ParseFailureKind(rawKind), text, true
}
