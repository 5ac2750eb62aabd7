// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio decodes PCM speech payloads and plays them on the output device.
//
// The speech service delivers base64-encoded interleaved 16-bit little-endian
// PCM. Decode and ToPlaybackBuffer are pure: they touch no device state and
// can run on any goroutine.
package audio

import (
	"encoding/base64"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// DecodeError reports malformed base64 input.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return "audio: decode base64: " + e.Cause.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// FormatError reports a byte payload that is not a whole number of frames.
type FormatError struct {
	Bytes    int
	Channels int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("audio: %d bytes is not a whole number of %d-channel 16-bit frames", e.Bytes, e.Channels)
}

// =============================================================================
// DECODING
// =============================================================================

// Decode converts a base64 payload to raw bytes. Pure; fails with
// *DecodeError on malformed input.
func Decode(b64 string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return data, nil
}

// Buffer holds de-interleaved normalized samples ready for playback.
type Buffer struct {
	SampleRate int
	// Channels[c][i] is sample i of channel c, in [-1, 1].
	Channels [][]float32
}

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Mono folds all channels down to one by averaging.
func (b *Buffer) Mono() []float32 {
	if len(b.Channels) == 1 {
		return b.Channels[0]
	}
	frames := b.Frames()
	out := make([]float32, frames)
	for i := range frames {
		var sum float32
		for _, ch := range b.Channels {
			sum += ch[i]
		}
		out[i] = sum / float32(len(b.Channels))
	}
	return out
}

// ToPlaybackBuffer interprets data as interleaved 16-bit signed little-endian
// PCM, de-interleaves it per channel, and normalizes each sample to [-1, 1]
// by dividing by 32768. Fails with *FormatError when the byte length is not
// a multiple of channelCount*2.
func ToPlaybackBuffer(data []byte, sampleRate, channelCount int) (*Buffer, error) {
	if channelCount <= 0 {
		return nil, &FormatError{Bytes: len(data), Channels: channelCount}
	}
	frameBytes := channelCount * 2
	if len(data)%frameBytes != 0 {
		return nil, &FormatError{Bytes: len(data), Channels: channelCount}
	}

	frames := len(data) / frameBytes
	channels := make([][]float32, channelCount)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}

	for i := range frames {
		base := i * frameBytes
		for c := range channelCount {
			off := base + c*2
			sample := int16(uint16(data[off]) | uint16(data[off+1])<<8)
			channels[c][i] = float32(sample) / 32768
		}
	}

	return &Buffer{SampleRate: sampleRate, Channels: channels}, nil
}
