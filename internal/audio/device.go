// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio decodes PCM speech payloads and plays them on the output device.
package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// DeviceSampleRate is the fixed output rate. Matches the speech service's
// 24 kHz mono PCM so no resampling is needed.
const (
	DeviceSampleRate    = 24000
	deviceChannelCount  = 1
	playbackPollPeriod  = 50 * time.Millisecond
)

// =============================================================================
// DEVICE ABSTRACTION
// =============================================================================

// Device is the output side of the pipeline. The production implementation
// wraps the process-wide oto context; tests substitute a fake.
type Device interface {
	// NewHandle prepares mono samples for playback and returns an unstarted
	// handle.
	NewHandle(samples []float32) (Handle, error)

	// Suspend pauses the device clock; Resume restarts it.
	Suspend() error
	Resume() error
}

// Handle is one in-progress utterance. At most one handle is live at a time;
// the Player enforces that.
type Handle interface {
	// Play starts playback immediately.
	Play()

	// Stop halts playback and releases the handle. Stopping an
	// already-stopped handle may fault; callers swallow that.
	Stop() error

	// Done is closed when playback finishes or the handle is stopped.
	Done() <-chan struct{}
}

// DeviceOpener lazily creates the output device on first use.
type DeviceOpener func() (Device, error)

// =============================================================================
// OTO-BACKED DEVICE
// =============================================================================

// OpenDefaultDevice opens the process-wide oto audio context at the fixed
// rate. oto allows exactly one context per process; the Player creates it
// once and keeps it for the session.
func OpenDefaultDevice() (Device, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   DeviceSampleRate,
		ChannelCount: deviceChannelCount,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return &otoDevice{ctx: ctx}, nil
}

type otoDevice struct {
	ctx *oto.Context
}

func (d *otoDevice) NewHandle(samples []float32) (Handle, error) {
	buf := new(bytes.Buffer)
	buf.Grow(len(samples) * 4)
	for _, s := range samples {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(s))
		buf.Write(b[:])
	}

	return &otoHandle{
		player: d.ctx.NewPlayer(buf),
		done:   make(chan struct{}),
	}, nil
}

func (d *otoDevice) Suspend() error { return d.ctx.Suspend() }
func (d *otoDevice) Resume() error  { return d.ctx.Resume() }

type otoHandle struct {
	player   *oto.Player
	done     chan struct{}
	doneOnce sync.Once
}

func (h *otoHandle) Play() {
	h.player.Play()

	// oto has no completion callback; watch for drain. The watcher exits
	// on Stop too, because Close makes IsPlaying return false.
	go func() {
		for h.player.IsPlaying() {
			time.Sleep(playbackPollPeriod)
		}
		h.signalDone()
	}()
}

func (h *otoHandle) Stop() error {
	err := h.player.Close()
	h.signalDone()
	return err
}

func (h *otoHandle) Done() <-chan struct{} {
	return h.done
}

func (h *otoHandle) signalDone() {
	h.doneOnce.Do(func() { close(h.done) })
}
