// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the HTTP client for the remote generative AI service.
//
// This file defines the request/response wire types for the generateContent
// endpoint. Only the fields this client reads or writes are declared.
package genai

// =============================================================================
// REQUEST TYPES
// =============================================================================

// generateRequest is the body of a generateContent call.
type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

// content is a single turn of role-tagged parts.
type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// part carries either text or inline binary data, never both.
type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

// blob is base64-encoded inline data with its MIME type.
type blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// generationConfig tunes a single generation call.
type generationConfig struct {
	Temperature        float64       `json:"temperature,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

// speechConfig selects the synthesis voice for audio-modality calls.
type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// generateResponse is the body of a generateContent response.
type generateResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
	Error          *apiError       `json:"error,omitempty"`
}

type candidate struct {
	Content      *content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// promptFeedback reports safety filtering applied to the request.
type promptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// apiError is the service's structured error body on non-2xx responses.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// text concatenates all text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// inlineAudio returns the base64 payload of the first inline-data part,
// or "" when the response carries no audio.
func (r *generateResponse) inlineAudio() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			return p.InlineData.Data
		}
	}
	return ""
}

// blocked reports whether the response was emptied by the safety filter.
func (r *generateResponse) blocked() bool {
	return r.PromptFeedback != nil && r.PromptFeedback.BlockReason != ""
}
