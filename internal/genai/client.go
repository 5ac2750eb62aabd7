// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai provides the HTTP client for the remote generative AI service.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sankofalabs/bece-tui/internal/netcheck"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the AI client.
type ClientConfig struct {
	// BaseURL of the generateContent API (default: the hosted service).
	BaseURL string

	// APIKey authenticates every request. Required.
	APIKey string

	// Model used for tutoring and past-paper generation.
	Model string

	// SpeechModel used for text-to-speech synthesis.
	SpeechModel string

	// Voice is the synthesis voice name (default: "Kore").
	Voice string

	// Timeout for a single request (default: 60s; paper generation is slow).
	Timeout time.Duration

	// SpeechRate caps speech-synthesis calls per second (default: 1/s,
	// burst 3). Speech is best-effort; excess requests are skipped, not
	// queued.
	SpeechRate  rate.Limit
	SpeechBurst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
		Model:       "gemini-2.5-flash",
		SpeechModel: "gemini-2.5-flash-preview-tts",
		Voice:       "Kore",
		Timeout:     60 * time.Second,
		SpeechRate:  rate.Limit(1),
		SpeechBurst: 3,
	}
}

// tutorSystemInstruction is fixed per deployment: it shapes every tutoring
// answer into the two-section form the transcript codec expects.
const tutorSystemInstruction = `You are a friendly BECE tutor for junior high school students in Ghana.
Answer the student's question for the given subject.
First give a short, clear answer a student can read in under a minute.
Then write the token ---EXPLANATION--- on its own line, followed by a detailed
step-by-step explanation with examples. Use simple English.`

// PaperPlaceholder is returned when past-paper generation fails. This call
// path has no retry affordance, so it degrades to readable text instead of
// an error.
const PaperPlaceholder = "Past paper generation is unavailable right now. " +
	"Check your connection and try again in a few minutes."

// =============================================================================
// CLIENT
// =============================================================================

// Client is a thin typed wrapper over the generateContent HTTP API.
// All failures from SolveQuestion are *ClientError values carrying a
// FailureKind; GeneratePastPaper and GenerateSpeech deliberately soften
// failures (see each method).
type Client struct {
	config        *ClientConfig
	httpClient    *http.Client
	net           *netcheck.Checker
	speechLimiter *rate.Limiter
}

// NewClient creates a new AI client. The netcheck.Checker gates outbound
// calls; pass nil to skip connectivity checks (tests do).
func NewClient(config *ClientConfig, checker *netcheck.Checker) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.SpeechModel == "" {
		config.SpeechModel = defaults.SpeechModel
	}
	if config.Voice == "" {
		config.Voice = defaults.Voice
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.SpeechRate == 0 {
		config.SpeechRate = defaults.SpeechRate
	}
	if config.SpeechBurst == 0 {
		config.SpeechBurst = defaults.SpeechBurst
	}

	if config.APIKey == "" {
		return nil, ErrMissingKey
	}

	return &Client{
		config:        config,
		httpClient:    &http.Client{Timeout: config.Timeout},
		net:           checker,
		speechLimiter: rate.NewLimiter(config.SpeechRate, config.SpeechBurst),
	}, nil
}

// =============================================================================
// TUTORING
// =============================================================================

// SolveQuestion sends the subject, question text, and optional JPEG image to
// the tutor model and returns the marker-delimited two-part answer text.
// It checks network availability first and fails fast with a
// network-classified error when offline.
func (c *Client) SolveQuestion(ctx context.Context, subject, question string, imageJPEG []byte) (string, error) {
	if c.net != nil && !c.net.Online(ctx) {
		return "", ErrOffline
	}

	parts := []part{{Text: "Subject: " + subject + "\n\nQuestion: " + question}}
	if len(imageJPEG) > 0 {
		parts = append(parts, part{InlineData: &blob{
			MIMEType: "image/jpeg",
			Data:     base64.StdEncoding.EncodeToString(imageJPEG),
		}})
	}

	req := &generateRequest{
		Contents:          []content{{Role: "user", Parts: parts}},
		SystemInstruction: &content{Parts: []part{{Text: tutorSystemInstruction}}},
		GenerationConfig:  &generationConfig{Temperature: 0.7},
	}

	resp, err := c.generate(ctx, c.config.Model, req)
	if err != nil {
		if c.net != nil && IsKind(err, KindNetwork) {
			c.net.Invalidate()
		}
		return "", err
	}

	text := resp.text()
	if text == "" {
		if resp.blocked() {
			return "", ErrSafetyBlock
		}
		return "", ErrEmptyAnswer
	}
	return text, nil
}

// =============================================================================
// PAST PAPERS
// =============================================================================

// paperPrompt builds the multi-section document prompt for one paper.
func paperPrompt(subject, year string) string {
	return fmt.Sprintf(`Generate a complete BECE %s practice examination paper for %s.

Structure the document with these sections, in order:
1. A cover header with the exam title, subject and year.
2. PAPER 1: 40 multiple-choice questions (four options each).
3. PAPER 2: essay and structured questions with mark allocations.
4. MARKING SCHEME: the answer key for Paper 1 and model points for Paper 2.

Match the difficulty and syllabus coverage of the real %s examination.
Use plain headings and numbered questions; no markdown tables.`,
		year, subject, subject)
}

// GeneratePastPaper generates a full practice paper. Failures degrade to
// PaperPlaceholder rather than an error: there is no interactive retry
// affordance on this path.
func (c *Client) GeneratePastPaper(ctx context.Context, subject, year string) string {
	if c.net != nil && !c.net.Online(ctx) {
		return PaperPlaceholder
	}

	req := &generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: paperPrompt(subject, year)}}}},
		GenerationConfig: &generationConfig{Temperature: 0.2},
	}

	resp, err := c.generate(ctx, c.config.Model, req)
	if err != nil {
		return PaperPlaceholder
	}
	text := resp.text()
	if text == "" {
		return PaperPlaceholder
	}
	return text
}

// =============================================================================
// SPEECH SYNTHESIS
// =============================================================================

// GenerateSpeech synthesizes text into base64-encoded 16-bit PCM at 24 kHz
// mono. Speech is a non-critical enhancement: every failure path, including
// rate limiting, yields ("", ErrEmptySpeech) and the caller degrades to
// silence.
func (c *Client) GenerateSpeech(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", ErrEmptySpeech
	}
	if !c.speechLimiter.Allow() {
		return "", ErrEmptySpeech
	}
	if c.net != nil && !c.net.Online(ctx) {
		return "", ErrEmptySpeech
	}

	req := &generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: text}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: c.config.Voice},
				},
			},
		},
	}

	resp, err := c.generate(ctx, c.config.SpeechModel, req)
	if err != nil {
		return "", ErrEmptySpeech
	}
	audio := resp.inlineAudio()
	if audio == "" {
		return "", ErrEmptySpeech
	}
	return audio, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// generate performs one generateContent call and returns the parsed
// response. All errors are classified ClientError values.
func (c *Client) generate(ctx context.Context, model string, reqBody *generateRequest) (*generateResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ClientError{Kind: KindServer, Message: "failed to marshal request", Cause: err}
	}

	url := c.config.BaseURL + "/models/" + model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Kind: KindServer, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ClientError{Kind: KindTimeout, Message: "request timed out", Cause: err}
		}
		return nil, &ClientError{Kind: Classify(err), Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The error body is JSON when the service produced the failure,
		// plain text when a proxy did. Decode tolerantly.
		msg := resp.Status
		var failure generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil &&
			failure.Error != nil && failure.Error.Message != "" {
			msg = failure.Error.Message
		}
		return nil, &ClientError{
			Kind:    classifyStatus(resp.StatusCode, msg),
			Message: msg,
		}
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Kind: KindServer, Message: "failed to decode response", Cause: err}
	}

	return &result, nil
}

// classifyStatus maps an HTTP failure to a FailureKind using the same
// keyword rules as Classify, seeded with the status code.
func classifyStatus(code int, msg string) FailureKind {
	return Classify(fmt.Errorf("%d %s", code, msg))
}
