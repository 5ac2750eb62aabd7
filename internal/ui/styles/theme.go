// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Theme holds the styled components for the application.
type Theme struct {
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App    lipgloss.Style
	Header lipgloss.Style
	Brand  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel   lipgloss.Style
	UserBody    lipgloss.Style
	TutorLabel  lipgloss.Style
	TutorBody   lipgloss.Style
	ErrorLabel  lipgloss.Style
	ErrorBody   lipgloss.Style
	ErrorHint   lipgloss.Style
	RevealHint  lipgloss.Style
	Explanation lipgloss.Style

	// ==========================================================================
	// SUBJECT PICKER STYLES
	// ==========================================================================

	PickerTitle    lipgloss.Style
	PickerItem     lipgloss.Style
	PickerSelected lipgloss.Style
	PickerCore     lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	StatusBar      lipgloss.Style
	StatusOnline   lipgloss.Style
	StatusOffline  lipgloss.Style
	StatusSpeaking lipgloss.Style
	Listening      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style
	Spinner        lipgloss.Style
	Toast          lipgloss.Style
}

// NewTheme builds the default theme.
func NewTheme() *Theme {
	t := &Theme{}

	t.App = lipgloss.NewStyle().Padding(0, 1)
	t.Header = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)
	t.Brand = lipgloss.NewStyle().Foreground(Gold).Bold(true)

	t.UserLabel = lipgloss.NewStyle().Foreground(UserBubbleFg).Bold(true)
	t.UserBody = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1)
	t.TutorLabel = lipgloss.NewStyle().Foreground(TutorBubbleFg).Bold(true)
	t.TutorBody = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(TutorBubbleBorder).
		PaddingLeft(1)
	t.ErrorLabel = lipgloss.NewStyle().Foreground(ErrorBubbleFg).Bold(true)
	t.ErrorBody = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(ErrorBubbleBorder).
		PaddingLeft(1)
	t.ErrorHint = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.RevealHint = lipgloss.NewStyle().Foreground(Cyan).Italic(true)
	t.Explanation = lipgloss.NewStyle().Foreground(TextSecondary).PaddingLeft(1)

	t.PickerTitle = lipgloss.NewStyle().Foreground(Gold).Bold(true).MarginBottom(1)
	t.PickerItem = lipgloss.NewStyle().Foreground(TextPrimary).PaddingLeft(2)
	t.PickerSelected = lipgloss.NewStyle().Foreground(Gold).Bold(true)
	t.PickerCore = lipgloss.NewStyle().Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted)
	t.StatusOnline = lipgloss.NewStyle().Foreground(Green)
	t.StatusOffline = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.StatusSpeaking = lipgloss.NewStyle().Foreground(Gold)
	t.Listening = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Spinner = lipgloss.NewStyle().Foreground(Gold)
	t.Toast = lipgloss.NewStyle().Foreground(Green)

	return t
}

// Resize records the current terminal dimensions.
func (t *Theme) Resize(width, height int) {
	t.Width = width
	t.Height = height
}
