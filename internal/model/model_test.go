// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the tutoring transcript.
package model

import (
	"testing"

	"github.com/sankofalabs/bece-tui/internal/genai"
)

// =============================================================================
// SECTION MARKER TESTS
// =============================================================================

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		wantAnswer      string
		wantExplanation string
		wantOK          bool
	}{
		{
			name:            "answer and explanation",
			raw:             "x = 4" + SectionMarker + "Subtract 3 from both sides.",
			wantAnswer:      "x = 4",
			wantExplanation: "Subtract 3 from both sides.",
			wantOK:          true,
		},
		{
			name:       "no marker",
			raw:        "Photosynthesis makes food for the plant.",
			wantAnswer: "Photosynthesis makes food for the plant.",
		},
		{
			name:            "marker with surrounding whitespace",
			raw:             "  Accra  \n" + SectionMarker + "\n  It became the capital in 1877.  ",
			wantAnswer:      "Accra",
			wantExplanation: "It became the capital in 1877.",
			wantOK:          true,
		},
		{
			name:       "marker at end means no explanation text",
			raw:        "42" + SectionMarker,
			wantAnswer: "42",
			wantOK:     true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			answer, explanation, ok := SplitSections(tc.raw)
			if answer != tc.wantAnswer {
				t.Errorf("answer = %q, want %q", answer, tc.wantAnswer)
			}
			if explanation != tc.wantExplanation {
				t.Errorf("explanation = %q, want %q", explanation, tc.wantExplanation)
			}
			if ok != tc.wantOK {
				t.Errorf("ok = %v, want %v", ok, tc.wantOK)
			}
		})
	}
}

func TestSplitSectionsAnswerNeverEmptyForNonEmptyInput(t *testing.T) {
	// A degenerate response that opens with the marker promotes the
	// remainder to the answer slot.
	answer, explanation, ok := SplitSections(SectionMarker + "only post-marker text")
	if answer != "only post-marker text" {
		t.Errorf("answer = %q, want the remainder promoted", answer)
	}
	if explanation != "" {
		t.Errorf("explanation = %q, want none after promotion", explanation)
	}
	if !ok {
		t.Error("ok must report the marker was present")
	}

	answer, _, _ = SplitSections("a" + SectionMarker + "b")
	if answer != "a" {
		t.Errorf("answer = %q, want the pre-marker text", answer)
	}
}

// =============================================================================
// ERROR TAG CODEC TESTS
// =============================================================================

func TestErrorTagRoundTrip(t *testing.T) {
	kinds := []genai.FailureKind{
		genai.KindNetwork, genai.KindTimeout, genai.KindServer,
		genai.KindSafety, genai.KindUnknown,
	}

	for _, kind := range kinds {
		encoded := EncodeErrorTag(kind, "something went wrong")
		gotKind, gotText, ok := DecodeErrorTag(encoded)
		if !ok {
			t.Fatalf("DecodeErrorTag(%q) not ok", encoded)
		}
		if gotKind != kind {
			t.Errorf("kind = %q, want %q", gotKind, kind)
		}
		if gotText != "something went wrong" {
			t.Errorf("text = %q", gotText)
		}
	}
}

func TestDecodeErrorTagIsIdempotent(t *testing.T) {
	encoded := EncodeErrorTag(genai.KindTimeout, "the request timed out")

	k1, t1, _ := DecodeErrorTag(encoded)
	k2, t2, _ := DecodeErrorTag(encoded)
	if k1 != k2 || t1 != t2 {
		t.Error("decoding twice produced different results")
	}
}

func TestDecodeErrorTagUntagged(t *testing.T) {
	tests := []string{
		"plain model text",
		"ERROR_MODE[unclosed",
		"",
	}
	for _, in := range tests {
		kind, text, ok := DecodeErrorTag(in)
		if ok {
			t.Errorf("DecodeErrorTag(%q) ok = true, want false", in)
		}
		if kind != genai.KindUnknown {
			t.Errorf("DecodeErrorTag(%q) kind = %q, want unknown", in, kind)
		}
		if text != in {
			t.Errorf("DecodeErrorTag(%q) mutated text to %q", in, text)
		}
	}
}

func TestDecodeErrorTagForeignKind(t *testing.T) {
	kind, text, ok := DecodeErrorTag("ERROR_MODE[martian]weird failure")
	if !ok {
		t.Fatal("tagged string should decode")
	}
	if kind != genai.KindUnknown {
		t.Errorf("kind = %q, want unknown", kind)
	}
	if text != "weird failure" {
		t.Errorf("text = %q", text)
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversationAppendOrdering(t *testing.T) {
	conv := NewConversation("Mathematics")

	user := NewUserMessage("Solve x + 3 = 7", nil)
	conv.Append(user)
	conv.Append(NewModelAnswer("x = 4" + SectionMarker + "Subtract 3."))

	if conv.Len() != 2 {
		t.Fatalf("Len = %d, want 2", conv.Len())
	}
	if conv.Messages()[0].Role() != RoleUser {
		t.Error("user message must precede the model message")
	}
	if conv.Messages()[1].Role() != RoleModel {
		t.Error("second message must be the model answer")
	}
}

func TestConversationRemove(t *testing.T) {
	conv := NewConversation("Integrated Science")
	user := NewUserMessage("What is osmosis?", nil)
	conv.Append(user)
	errMsg := NewModelError(genai.KindTimeout, "the request timed out", user)
	conv.Append(errMsg)

	if !conv.Remove(errMsg.ID()) {
		t.Fatal("Remove returned false for existing message")
	}
	if conv.Len() != 1 {
		t.Fatalf("Len = %d after remove, want 1", conv.Len())
	}
	if conv.Remove(errMsg.ID()) {
		t.Error("Remove returned true for already-removed message")
	}
}

func TestConversationRevealIdempotent(t *testing.T) {
	conv := NewConversation("English Language")
	answer := NewModelAnswer("A noun names a thing." + SectionMarker + "Nouns can be common or proper.")
	conv.Append(answer)

	if !conv.Reveal(answer.ID()) {
		t.Fatal("first Reveal should return true")
	}
	if conv.Reveal(answer.ID()) {
		t.Error("second Reveal should return false")
	}
	if !conv.IsRevealed(answer.ID()) {
		t.Error("message should remain revealed")
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewUserMessage("q", nil).ID()
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestNewModelAnswerSplits(t *testing.T) {
	answer := NewModelAnswer("Kumasi" + SectionMarker + "It is the capital of the Ashanti Region.")
	if answer.Answer != "Kumasi" {
		t.Errorf("Answer = %q", answer.Answer)
	}
	if !answer.HasExplanation() {
		t.Error("expected an explanation")
	}

	bare := NewModelAnswer("Kumasi")
	if bare.HasExplanation() {
		t.Error("bare answer should have no explanation")
	}
}
