// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the tutoring view for the TUI.
package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sankofalabs/bece-tui/internal/model"
)

// Update is the single state-transition function. Every mutation of
// application state happens here, on the control loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case AnswerMsg:
		return m.handleAnswer(msg)

	case SendFailedMsg:
		return m.handleSendFailed(msg)

	case PlaybackDoneMsg:
		return m, nil

	case speechReadyMsg:
		// Voice may have been toggled off while synthesis was in flight;
		// audio must never start after the toggle.
		if !m.voiceEnabled {
			return m, nil
		}
		return m, playCmd(m.player, msg.buf)

	case TranscriptMsg:
		return m.handleTranscript(msg)

	case ListenStoppedMsg:
		m.session = nil
		m.listening = false
		return m, nil

	case PaperGeneratedMsg:
		m.generatingPaper = false
		m.paperText = msg.Text
		m.screen = screenPaper
		m.status = ""
		m.viewport.SetContent(m.renderPaper())
		m.viewport.GotoTop()
		return m, nil

	case PaperExportedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.Err)
		} else {
			m.status = fmt.Sprintf("Saved %s", msg.Path)
		}
		return m, nil

	case CopyResultMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", msg.Err)
			return m, nil
		}
		m.copiedID = msg.MessageID
		m.refreshTranscript()
		return m, copyRevertCmd(msg.MessageID)

	case copyRevertMsg:
		if m.copiedID == msg.MessageID {
			m.copiedID = ""
			m.refreshTranscript()
		}
		return m, nil

	case onlineStatusMsg:
		m.online = msg.online
		return m, checkOnlineCmd(m.checker)
	}

	return m.updateComponents(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.teardown()
		return m, tea.Quit
	}

	switch m.screen {
	case screenSubjects:
		return m.handlePickerKey(msg)
	case screenPaper:
		return m.handlePaperKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
	case "down", "j":
		if m.pickerIndex < len(m.catalog)-1 {
			m.pickerIndex++
		}
	case "enter":
		m.subject = m.catalog[m.pickerIndex]
		m.conv = model.NewConversation(m.subject.Name)
		m.screen = screenChat
		m.status = ""
		m.input.Reset()
		m.input.Focus()
		m.refreshTranscript()
	}
	return m, nil
}

func (m *Model) handlePaperKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = screenChat
		m.refreshTranscript()
		return m, nil
	case msg.String() == "e":
		return m, m.exportPaperCmd()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.send()
	case key.Matches(msg, m.keys.Retry):
		return m.retryLastError()
	case key.Matches(msg, m.keys.Reveal):
		return m.revealLastAnswer()
	case key.Matches(msg, m.keys.Copy):
		return m.copyLastAnswer()
	case key.Matches(msg, m.keys.ToggleVoice):
		return m.toggleVoice()
	case key.Matches(msg, m.keys.Listen):
		return m.toggleListening()
	case key.Matches(msg, m.keys.PauseAudio):
		if m.player.Paused() {
			m.player.Resume()
		} else {
			m.player.Pause()
		}
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.Resize(msg.Width, msg.Height)

	m.viewport.Width = msg.Width - 2
	m.viewport.Height = msg.Height - 8
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.SetWidth(msg.Width - 4)

	wrap := msg.Width - 6
	if wrap > 100 {
		wrap = 100
	}
	if wrap > 20 {
		if r, err := newRenderer(wrap); err == nil {
			m.renderer = r
		}
	}
	m.refreshTranscript()
	return m, nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// send submits the input field as a question. No-op when empty or while a
// prior send is in flight. The user message lands in the transcript
// synchronously, before any asynchronous work begins.
func (m *Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}
	if m.sending {
		return m, nil
	}
	if text == "" && m.pendingImage == nil {
		return m, nil
	}

	user := model.NewUserMessage(text, m.pendingImage)
	m.conv.Append(user)
	m.input.Reset()
	m.pendingImage = nil
	m.pendingImageName = ""
	m.sending = true
	m.status = ""
	m.refreshTranscript()

	cmds := []tea.Cmd{
		solveCmd(m.client, m.subject.Name, text, user.ImageJPEG, user),
		m.spinner.Tick,
	}
	if m.voiceEnabled {
		// Fire-and-forget acknowledgment; history updates never wait on it.
		cmds = append(cmds, speakCmd(m.client, ackPhrase))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleAnswer(msg AnswerMsg) (tea.Model, tea.Cmd) {
	// Safe no-op for stale completions: the subject may have changed or
	// the question retried away while the call was in flight.
	if m.conv == nil || m.conv.Get(msg.SourceID) == nil {
		return m, nil
	}
	answer := model.NewModelAnswer(msg.Raw)
	m.conv.Append(answer)
	m.sending = false
	m.refreshTranscript()
	m.viewport.GotoBottom()

	if m.voiceEnabled {
		// Speak only the terse answer; the explanation stays silent until
		// revealed.
		return m, speakCmd(m.client, answer.Answer)
	}
	return m, nil
}

func (m *Model) handleSendFailed(msg SendFailedMsg) (tea.Model, tea.Cmd) {
	if m.conv == nil || m.conv.Get(msg.SourceID) == nil {
		return m, nil
	}
	m.conv.Append(model.NewModelError(msg.Kind, msg.Text, msg.Source))
	m.sending = false
	m.refreshTranscript()
	m.viewport.GotoBottom()

	if m.voiceEnabled {
		return m, speakCmd(m.client, msg.Text)
	}
	return m, nil
}

// revealLastAnswer adds the latest answer to the revealed set. Idempotent;
// the explanation is spoken only on the first reveal.
func (m *Model) revealLastAnswer() (tea.Model, tea.Cmd) {
	if m.conv == nil {
		return m, nil
	}
	answer := m.conv.LastAnswer()
	if answer == nil || !answer.HasExplanation() {
		return m, nil
	}
	first := m.conv.Reveal(answer.ID())
	m.refreshTranscript()
	m.viewport.GotoBottom()

	if first && m.voiceEnabled {
		return m, speakCmd(m.client, revealPrefix+answer.Explanation)
	}
	return m, nil
}

// copyLastAnswer puts the answer portion of the latest answer on the
// clipboard. The success indicator reverts after a fixed window.
func (m *Model) copyLastAnswer() (tea.Model, tea.Cmd) {
	if m.conv == nil {
		return m, nil
	}
	answer := m.conv.LastAnswer()
	if answer == nil {
		return m, nil
	}
	return m, copyCmd(answer.ID(), strings.TrimSpace(answer.Answer))
}

// retryLastError removes the latest error message and restores its
// triggering question into the input. Requires an explicit re-send.
func (m *Model) retryLastError() (tea.Model, tea.Cmd) {
	if m.conv == nil {
		return m, nil
	}
	errMsg := m.conv.LastError()
	if errMsg == nil || errMsg.Source == nil {
		return m, nil
	}
	m.conv.Remove(errMsg.ID())
	m.input.SetValue(errMsg.Source.Text)
	m.pendingImage = errMsg.Source.ImageJPEG
	if m.pendingImage != nil {
		m.pendingImageName = "(restored image)"
	}
	m.refreshTranscript()
	return m, nil
}

// toggleVoice flips spoken output. Turning it off mid-utterance stops
// playback immediately; recorded history is never affected.
func (m *Model) toggleVoice() (tea.Model, tea.Cmd) {
	m.voiceEnabled = !m.voiceEnabled
	if !m.voiceEnabled && m.player.Speaking() {
		m.player.Stop()
	}
	if m.voiceEnabled {
		m.status = "Voice on"
	} else {
		m.status = "Voice off"
	}
	return m, nil
}

// toggleListening starts or stops speech capture. There is no paused
// state: toggling while listening always stops.
func (m *Model) toggleListening() (tea.Model, tea.Cmd) {
	if m.session != nil {
		m.session.Stop()
		return m, nil
	}
	if m.recognizer == nil {
		m.status = "Voice input is not available on this installation."
		return m, nil
	}
	session, err := m.recognizer.Start(context.Background())
	if err != nil {
		m.status = fmt.Sprintf("Could not start listening: %v", err)
		return m, nil
	}
	// Capture owns the input field from here: the first transcript revision
	// replaces its content wholesale, so stale typed text is cleared now.
	m.input.Reset()
	m.session = session
	m.listening = true
	return m, listenCmd(session)
}

func (m *Model) handleTranscript(msg TranscriptMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status = fmt.Sprintf("Speech capture: %v", msg.Err)
	} else {
		// Overwrite semantics: each revision replaces the input text.
		m.input.SetValue(msg.Text)
		m.input.CursorEnd()
	}
	if m.session == nil {
		return m, nil
	}
	return m, listenCmd(m.session)
}
