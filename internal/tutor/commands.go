// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the tutoring view for the TUI.
//
// This file implements the asynchronous command creators and the slash
// command handler registry.
package tutor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sankofalabs/bece-tui/internal/audio"
	"github.com/sankofalabs/bece-tui/internal/genai"
	"github.com/sankofalabs/bece-tui/internal/model"
	"github.com/sankofalabs/bece-tui/internal/netcheck"
	"github.com/sankofalabs/bece-tui/internal/speech"
	"github.com/sankofalabs/bece-tui/internal/subjects"
)

// copyRevertDelay is how long the "copied" indicator stays visible.
const copyRevertDelay = 2 * time.Second

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// solveCmd asks the tutor a question. The user message is already in the
// transcript; the result references it so stale completions can be dropped.
func solveCmd(client Solver, subject, question string, imageJPEG []byte, source *model.UserMessage) tea.Cmd {
	return func() tea.Msg {
		raw, err := client.SolveQuestion(context.Background(), subject, question, imageJPEG)
		if err != nil {
			return SendFailedMsg{
				SourceID: source.ID(),
				Kind:     genai.Classify(err),
				Text:     err.Error(),
				Source:   source,
			}
		}
		return AnswerMsg{SourceID: source.ID(), Raw: raw}
	}
}

// speakCmd synthesizes and decodes text for playback. It never starts the
// audio itself: the decoded buffer is handed back to Update, which rechecks
// that voice is still enabled at delivery time. Every failure path is
// silent: voice is supplementary, so the command just reports playback done.
func speakCmd(client Solver, text string) tea.Cmd {
	return func() tea.Msg {
		b64, err := client.GenerateSpeech(context.Background(), text)
		if err != nil {
			return PlaybackDoneMsg{}
		}
		pcm, err := audio.Decode(b64)
		if err != nil {
			return PlaybackDoneMsg{}
		}
		buf, err := audio.ToPlaybackBuffer(pcm, audio.DeviceSampleRate, 1)
		if err != nil {
			return PlaybackDoneMsg{}
		}
		return speechReadyMsg{buf: buf}
	}
}

// playCmd starts playback of a decoded utterance and waits for it to drain.
func playCmd(player Speaker, buf *audio.Buffer) tea.Cmd {
	return func() tea.Msg {
		done, err := player.Play(buf)
		if err != nil {
			return PlaybackDoneMsg{}
		}
		<-done
		return PlaybackDoneMsg{}
	}
}

// generatePaperCmd runs the past-paper generation call. It never fails:
// the client substitutes a placeholder on any error.
func generatePaperCmd(client Solver, subject, year string) tea.Cmd {
	return func() tea.Msg {
		text := client.GeneratePastPaper(context.Background(), subject, year)
		return PaperGeneratedMsg{Subject: subject, Year: year, Text: text}
	}
}

// exportPaperCmd writes the generated paper as a .doc bundle.
func (m *Model) exportPaperCmd() tea.Cmd {
	subject, year, text := m.paperSubject, m.paperYear, m.paperText
	return func() tea.Msg {
		path, err := m.exporter.ExportToFile(subject, year, text)
		return PaperExportedMsg{Path: path, Err: err}
	}
}

// copyCmd places text on the system clipboard.
func copyCmd(messageID, text string) tea.Cmd {
	return func() tea.Msg {
		return CopyResultMsg{MessageID: messageID, Err: clipboard.WriteAll(text)}
	}
}

// copyRevertCmd schedules the indicator revert.
func copyRevertCmd(messageID string) tea.Cmd {
	return tea.Tick(copyRevertDelay, func(time.Time) tea.Msg {
		return copyRevertMsg{MessageID: messageID}
	})
}

// listenCmd waits for the next transcript event from the capture session.
// Re-issued from Update after each event; a closed channel ends the
// subscription.
func listenCmd(session *speech.Session) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-session.Events()
		if !ok {
			return ListenStoppedMsg{}
		}
		return TranscriptMsg{Text: ev.Transcript, Final: ev.Final, Err: ev.Err}
	}
}

// checkOnlineCmd probes connectivity and reschedules itself via Update.
func checkOnlineCmd(checker *netcheck.Checker) tea.Cmd {
	if checker == nil {
		return nil
	}
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return onlineStatusMsg{online: checker.Online(ctx)}
	})
}

// =============================================================================
// SLASH COMMAND REGISTRY
// =============================================================================

// commandHandler handles one slash command.
type commandHandler func(m *Model, args []string) (tea.Model, tea.Cmd)

var commandHandlers = map[string]commandHandler{
	"help":    handleHelpCommand,
	"h":       handleHelpCommand,
	"?":       handleHelpCommand,
	"quit":    handleQuitCommand,
	"q":       handleQuitCommand,
	"exit":    handleQuitCommand,
	"paper":   handlePaperCommand,
	"p":       handlePaperCommand,
	"image":   handleImageCommand,
	"img":     handleImageCommand,
	"voice":   handleVoiceCommand,
	"v":       handleVoiceCommand,
	"retry":   handleRetryCommand,
	"reveal":  handleRevealCommand,
	"copy":    handleCopyCommand,
	"subject": handleSubjectCommand,
}

// handleCommand dispatches a slash command from the input field.
func (m *Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	m.input.Reset()

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return m, nil
	}
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))

	if handler, ok := commandHandlers[name]; ok {
		return handler(m, parts[1:])
	}
	m.status = fmt.Sprintf("Unknown command %q. Type /help for commands.", parts[0])
	return m, nil
}

func handleHelpCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	m.status = "/paper <year>  /image <path>  /voice  /retry  /reveal  /copy  /subject  /quit"
	return m, nil
}

func handleQuitCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	m.teardown()
	return m, tea.Quit
}

// handlePaperCommand starts past-paper generation for the current subject.
func handlePaperCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) != 1 || !subjects.ValidYear(args[0]) {
		m.status = fmt.Sprintf("Usage: /paper <year> (%d-%d)", subjects.FirstExamYear, subjects.LatestExamYear)
		return m, nil
	}
	if m.generatingPaper {
		m.status = "A paper is already being generated."
		return m, nil
	}
	m.generatingPaper = true
	m.paperSubject = m.subject.Name
	m.paperYear = args[0]
	m.status = fmt.Sprintf("Generating BECE %s %s paper...", args[0], m.subject.Name)
	return m, generatePaperCmd(m.client, m.subject.Name, args[0])
}

// handleImageCommand attaches a JPEG to the next question.
func handleImageCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) != 1 {
		m.status = "Usage: /image <path-to-jpeg>"
		return m, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		m.status = fmt.Sprintf("Could not read image: %v", err)
		return m, nil
	}
	m.pendingImage = data
	m.pendingImageName = args[0]
	m.status = fmt.Sprintf("Image attached: %s", args[0])
	return m, nil
}

func handleVoiceCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	return m.toggleVoice()
}

func handleRetryCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	return m.retryLastError()
}

func handleRevealCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	return m.revealLastAnswer()
}

func handleCopyCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	return m.copyLastAnswer()
}

// handleSubjectCommand returns to the subject picker. The transcript for
// the old subject is discarded; there is no cross-session persistence.
func handleSubjectCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	if m.session != nil {
		m.session.Stop()
	}
	m.player.Stop()
	m.screen = screenSubjects
	m.conv = nil
	m.sending = false
	m.pendingImage = nil
	m.pendingImageName = ""
	m.status = ""
	return m, nil
}
