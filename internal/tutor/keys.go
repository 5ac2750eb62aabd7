// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the tutoring view for the TUI.
//
// This file defines keyboard bindings for the tutor view. Plain letters
// stay free for typing; chat actions use control chords.
package tutor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard bindings for the tutor view.
type KeyMap struct {
	Submit      key.Binding
	Quit        key.Binding
	Retry       key.Binding
	Reveal      key.Binding
	Copy        key.Binding
	ToggleVoice key.Binding
	Listen      key.Binding
	PauseAudio  key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Back        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Retry: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "retry failed question"),
		),
		Reveal: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "reveal explanation"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy answer"),
		),
		ToggleVoice: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("C-v", "toggle voice"),
		),
		Listen: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "toggle speech input"),
		),
		PauseAudio: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "pause/resume audio"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
	}
}
