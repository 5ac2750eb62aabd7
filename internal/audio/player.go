// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio decodes PCM speech payloads and plays them on the output device.
package audio

import (
	"sync"
)

// =============================================================================
// PLAYER
// =============================================================================

// Player owns the single live playback handle. Starting new playback stops
// and discards the previous handle first: last writer wins, spoken
// utterances are never queued. The output device is created lazily on the
// first Play and kept for the life of the Player.
//
// Player is safe for concurrent use; completion watchers run off the event
// loop.
type Player struct {
	mu       sync.Mutex
	open     DeviceOpener
	device   Device
	handle   Handle
	speaking bool
	paused   bool
}

// NewPlayer creates a Player over the default output device.
func NewPlayer() *Player {
	return NewPlayerWithDevice(OpenDefaultDevice)
}

// NewPlayerWithDevice creates a Player with a custom device opener.
func NewPlayerWithDevice(open DeviceOpener) *Player {
	return &Player{open: open}
}

// Play starts playback of the buffer, stopping any current utterance first.
// The returned channel is closed when playback completes or is stopped;
// by then the speaking and paused flags are already cleared.
func (p *Player) Play(buf *Buffer) (<-chan struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Prior handle goes first. A handle that already finished on its own
	// faults on Stop; that is expected and swallowed.
	if p.handle != nil {
		_ = p.handle.Stop()
		p.handle = nil
	}

	if p.device == nil {
		device, err := p.open()
		if err != nil {
			p.speaking = false
			p.paused = false
			return nil, err
		}
		p.device = device
	}

	handle, err := p.device.NewHandle(buf.Mono())
	if err != nil {
		p.speaking = false
		p.paused = false
		return nil, err
	}

	p.handle = handle
	p.speaking = true
	p.paused = false
	handle.Play()

	done := make(chan struct{})
	go func() {
		<-handle.Done()
		p.mu.Lock()
		// A later Play may already own the slot; only clear our own state.
		if p.handle == handle {
			p.handle = nil
			p.speaking = false
			p.paused = false
		}
		p.mu.Unlock()
		close(done)
	}()

	return done, nil
}

// Pause suspends the device clock. No-op unless something is playing.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == nil || p.paused || p.device == nil {
		return
	}
	if err := p.device.Suspend(); err == nil {
		p.paused = true
	}
}

// Resume restarts the device clock. No-op unless paused.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle == nil || !p.paused || p.device == nil {
		return
	}
	if err := p.device.Resume(); err == nil {
		p.paused = false
	}
}

// Stop halts the current utterance. Idempotent; safe when nothing plays.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle != nil {
		_ = p.handle.Stop()
		p.handle = nil
	}
	p.speaking = false
	p.paused = false
}

// Speaking reports whether an utterance is live.
func (p *Player) Speaking() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speaking
}

// Paused reports whether playback is suspended.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Close stops playback and drops the device reference. The oto context
// itself is process-wide and lives until exit; Close makes the Player
// inert and a later Play would reopen.
func (p *Player) Close() {
	p.Stop()
	p.mu.Lock()
	p.device = nil
	p.mu.Unlock()
}
