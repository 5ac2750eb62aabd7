// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the tutoring view for the TUI.
package tutor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"

	"github.com/sankofalabs/bece-tui/internal/model"
	"github.com/sankofalabs/bece-tui/internal/util"
)

func newRenderer(wrap int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
}

// View renders the current screen.
func (m *Model) View() string {
	switch m.screen {
	case screenSubjects:
		return m.viewSubjects()
	case screenPaper:
		return m.viewPaper()
	}
	return m.viewChat()
}

// =============================================================================
// SUBJECT PICKER
// =============================================================================

func (m *Model) viewSubjects() string {
	var sb strings.Builder

	sb.WriteString(m.theme.Brand.Render("BECE Tutor"))
	sb.WriteString("\n\n")
	sb.WriteString(m.theme.PickerTitle.Render("Choose a subject"))
	sb.WriteString("\n")

	for i, s := range m.catalog {
		line := s.Name
		if s.Core {
			line += m.theme.PickerCore.Render("  (core)")
		}
		if i == m.pickerIndex {
			sb.WriteString(m.theme.PickerSelected.Render("> " + line))
		} else {
			sb.WriteString(m.theme.PickerItem.Render(line))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.theme.ShortcutDesc.Render("up/down to move, Enter to start, Ctrl+C to quit"))
	return m.theme.App.Render(sb.String())
}

// =============================================================================
// CHAT TRANSCRIPT
// =============================================================================

func (m *Model) viewChat() string {
	var sb strings.Builder

	sb.WriteString(m.viewHeader())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	if m.sending {
		sb.WriteString(m.spinner.View())
		sb.WriteString(m.theme.ShortcutDesc.Render(" thinking..."))
		sb.WriteString("\n")
	}
	if m.generatingPaper {
		sb.WriteString(m.spinner.View())
		sb.WriteString(m.theme.ShortcutDesc.Render(" generating past paper..."))
		sb.WriteString("\n")
	}

	sb.WriteString(m.theme.InputContainer.Render(m.input.View()))
	sb.WriteString("\n")
	sb.WriteString(m.viewStatusBar())
	return m.theme.App.Render(sb.String())
}

func (m *Model) viewHeader() string {
	title := m.theme.Brand.Render("BECE Tutor")
	subject := m.theme.ShortcutDesc.Render("  " + m.subject.Name)
	return m.theme.Header.Width(max(m.width-2, 20)).Render(title + subject)
}

func (m *Model) viewStatusBar() string {
	var parts []string

	if m.online {
		parts = append(parts, m.theme.StatusOnline.Render("online"))
	} else {
		parts = append(parts, m.theme.StatusOffline.Render("offline"))
	}

	if m.voiceEnabled {
		parts = append(parts, m.theme.StatusBar.Render("voice on"))
	} else {
		parts = append(parts, m.theme.StatusBar.Render("voice off"))
	}
	if m.player.Speaking() {
		if m.player.Paused() {
			parts = append(parts, m.theme.StatusSpeaking.Render("paused"))
		} else {
			parts = append(parts, m.theme.StatusSpeaking.Render("speaking"))
		}
	}
	if m.listening {
		parts = append(parts, m.theme.Listening.Render("listening"))
	}
	if m.pendingImageName != "" {
		parts = append(parts, m.theme.StatusBar.Render("image: "+m.pendingImageName))
	}

	line := strings.Join(parts, m.theme.StatusBar.Render(" | "))
	if m.status != "" {
		status := m.status
		if m.width > 10 && runewidth.StringWidth(status) > m.width-4 {
			status = util.TruncateRunes(status, m.width-4)
		}
		line += "\n" + m.theme.Toast.Render(status)
	}
	return line
}

// =============================================================================
// TRANSCRIPT CONTENT
// =============================================================================

// refreshTranscript re-renders the conversation into the viewport.
func (m *Model) refreshTranscript() {
	if m.conv == nil {
		return
	}
	var sb strings.Builder
	for _, msg := range m.conv.Messages() {
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
}

func (m *Model) renderMessage(msg model.Message) string {
	switch v := msg.(type) {
	case *model.UserMessage:
		return m.renderUser(v)
	case *model.ModelAnswer:
		return m.renderAnswer(v)
	case *model.ModelError:
		return m.renderError(v)
	}
	return ""
}

func (m *Model) renderUser(msg *model.UserMessage) string {
	body := msg.Text
	if msg.ImageJPEG != nil {
		if body != "" {
			body += "\n"
		}
		body += "[image attached]"
	}
	return m.theme.UserLabel.Render(model.RoleUser.DisplayName()) + "\n" +
		m.theme.UserBody.Render(body) + "\n"
}

func (m *Model) renderAnswer(msg *model.ModelAnswer) string {
	var sb strings.Builder
	sb.WriteString(m.theme.TutorLabel.Render(model.RoleModel.DisplayName()))
	if m.copiedID == msg.ID() {
		sb.WriteString(m.theme.Toast.Render("  copied!"))
	}
	sb.WriteString("\n")
	sb.WriteString(m.theme.TutorBody.Render(m.renderMarkdown(msg.Answer)))
	sb.WriteString("\n")

	if msg.HasExplanation() {
		if m.conv.IsRevealed(msg.ID()) {
			sb.WriteString(m.theme.Explanation.Render(m.renderMarkdown(msg.Explanation)))
			sb.WriteString("\n")
		} else {
			sb.WriteString(m.theme.RevealHint.Render("  explanation available: press Ctrl+E to reveal"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m *Model) renderError(msg *model.ModelError) string {
	label := m.theme.ErrorLabel.Render(fmt.Sprintf("%s (%s)", model.RoleModel.DisplayName(), msg.Kind))
	body := m.theme.ErrorBody.Render(msg.Text)
	hint := m.theme.ErrorHint.Render("  press Ctrl+R to retry this question")
	return label + "\n" + body + "\n" + hint + "\n"
}

func (m *Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// PAST-PAPER PREVIEW
// =============================================================================

func (m *Model) viewPaper() string {
	var sb strings.Builder
	title := fmt.Sprintf("BECE %s — %s", m.paperYear, m.paperSubject)
	sb.WriteString(m.theme.Brand.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.theme.ShortcutKey.Render("e"))
	sb.WriteString(m.theme.ShortcutDesc.Render(" export .doc  "))
	sb.WriteString(m.theme.ShortcutKey.Render("Esc"))
	sb.WriteString(m.theme.ShortcutDesc.Render(" back"))
	if m.status != "" {
		sb.WriteString("\n")
		sb.WriteString(m.theme.Toast.Render(m.status))
	}
	return m.theme.App.Render(sb.String())
}

func (m *Model) renderPaper() string {
	return m.renderMarkdown(m.paperText)
}
