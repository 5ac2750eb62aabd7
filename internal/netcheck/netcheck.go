// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package netcheck detects network availability before remote calls.
//
// The AI client asks a Checker whether the machine is online so it can fail
// fast with a network-classified error instead of waiting out a full request
// timeout. Probe results are cached briefly; the tutor issues bursts of
// calls (answer, acknowledgment speech, answer speech) that should not each
// pay for a dial.
package netcheck

import (
	"context"
	"net"
	"sync"
	"time"
)

// Default probe targets. DNS-over-TCP endpoints answer from nearly any
// network that has a route out, without depending on the AI service itself.
var defaultTargets = []string{
	"1.1.1.1:53",
	"8.8.8.8:53",
}

const (
	defaultProbeTimeout = 1500 * time.Millisecond
	defaultCacheTTL     = 10 * time.Second
)

// Probe attempts to reach the network and reports success.
type Probe func(ctx context.Context) bool

// Checker answers "are we online?" with a short-lived cached probe.
// The zero value is not usable; construct with New.
type Checker struct {
	mu       sync.Mutex
	probe    Probe
	ttl      time.Duration
	lastAt   time.Time
	lastSeen bool
}

// New creates a Checker using the default dial probe.
func New() *Checker {
	return &Checker{
		probe: dialProbe(defaultTargets, defaultProbeTimeout),
		ttl:   defaultCacheTTL,
	}
}

// NewWithProbe creates a Checker with a custom probe. A zero ttl disables
// caching; every Online call probes.
func NewWithProbe(probe Probe, ttl time.Duration) *Checker {
	return &Checker{probe: probe, ttl: ttl}
}

// Online reports whether the network is reachable, probing at most once per
// TTL window.
func (c *Checker) Online(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl > 0 && !c.lastAt.IsZero() && time.Since(c.lastAt) < c.ttl {
		return c.lastSeen
	}

	c.lastSeen = c.probe(ctx)
	c.lastAt = time.Now()
	return c.lastSeen
}

// Invalidate drops the cached result so the next Online call probes again.
// Called after a network-classified failure so recovery is observed promptly.
func (c *Checker) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAt = time.Time{}
}

// dialProbe returns a Probe that succeeds when any target accepts a TCP
// connection within the timeout.
func dialProbe(targets []string, timeout time.Duration) Probe {
	return func(ctx context.Context) bool {
		dialer := net.Dialer{Timeout: timeout}
		for _, target := range targets {
			conn, err := dialer.DialContext(ctx, "tcp", target)
			if err == nil {
				conn.Close()
				return true
			}
			if ctx.Err() != nil {
				return false
			}
		}
		return false
	}
}
