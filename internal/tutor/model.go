// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tutor provides the tutoring view for the TUI.
package tutor

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/sankofalabs/bece-tui/internal/audio"
	"github.com/sankofalabs/bece-tui/internal/export"
	"github.com/sankofalabs/bece-tui/internal/model"
	"github.com/sankofalabs/bece-tui/internal/netcheck"
	"github.com/sankofalabs/bece-tui/internal/speech"
	"github.com/sankofalabs/bece-tui/internal/subjects"
	"github.com/sankofalabs/bece-tui/internal/ui/styles"
)

// Spoken phrases. The acknowledgment is fire-and-forget while the request
// is in flight; the reveal prefix precedes a spoken explanation.
const (
	ackPhrase    = "Okay, let me work on that."
	revealPrefix = "Here is the detailed explanation. "
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Solver is the AI client surface the controller needs. *genai.Client
// satisfies it.
type Solver interface {
	SolveQuestion(ctx context.Context, subject, question string, imageJPEG []byte) (string, error)
	GeneratePastPaper(ctx context.Context, subject, year string) string
	GenerateSpeech(ctx context.Context, text string) (string, error)
}

// Speaker is the audio playback surface the controller needs.
// *audio.Player satisfies it.
type Speaker interface {
	Play(buf *audio.Buffer) (<-chan struct{}, error)
	Pause()
	Resume()
	Stop()
	Speaking() bool
	Paused() bool
	Close()
}

// =============================================================================
// VIEW STATE
// =============================================================================

// screen selects which view the model renders.
type screen int

const (
	screenSubjects screen = iota // subject picker
	screenChat                   // tutoring transcript
	screenPaper                  // past-paper preview
)

// =============================================================================
// TUTOR MODEL
// =============================================================================

// Model is the Bubble Tea model for the tutor application.
type Model struct {
	// View state
	screen screen
	theme  *styles.Theme
	width  int
	height int

	// Subject picker
	catalog     []subjects.Subject
	pickerIndex int

	// Conversation
	conv    *model.Conversation
	subject subjects.Subject
	sending bool

	// Pending image attachment for the next send
	pendingImage     []byte
	pendingImageName string

	// Collaborators
	client     Solver
	player     Speaker
	recognizer *speech.Recognizer // nil when voice input is unsupported
	checker    *netcheck.Checker
	exporter   *export.DocExporter

	// Speech capture
	session   *speech.Session
	listening bool

	// Voice output
	voiceEnabled bool

	// Connectivity indicator
	online bool

	// Transient copy indicator
	copiedID string

	// Past-paper state
	paperSubject    string
	paperYear       string
	paperText       string
	generatingPaper bool

	// UI components
	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	keys     KeyMap
	renderer *glamour.TermRenderer

	// Transient status line (command feedback)
	status string
}

// Options configures the tutor model.
type Options struct {
	Client       Solver
	Player       Speaker
	Recognizer   *speech.Recognizer // nil disables voice input
	Checker      *netcheck.Checker
	Exporter     *export.DocExporter
	VoiceEnabled bool
}

// New creates the tutor model on the subject picker screen.
func New(opts Options) *Model {
	input := textarea.New()
	input.Placeholder = "Ask your question..."
	input.ShowLineNumbers = false
	input.SetHeight(3)
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := styles.NewTheme()
	sp.Style = theme.Spinner

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		renderer = nil // plain text fallback
	}

	return &Model{
		screen:       screenSubjects,
		theme:        theme,
		catalog:      subjects.All(),
		client:       opts.Client,
		player:       opts.Player,
		recognizer:   opts.Recognizer,
		checker:      opts.Checker,
		exporter:     opts.Exporter,
		voiceEnabled: opts.VoiceEnabled,
		online:       true,
		input:        input,
		viewport:     viewport.New(80, 20),
		spinner:      sp,
		keys:         DefaultKeyMap(),
		renderer:     renderer,
	}
}

// Init starts the spinner and the connectivity probe loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, checkOnlineCmd(m.checker))
}

// VoiceSupported reports whether speech input is available.
func (m *Model) VoiceSupported() bool {
	return m.recognizer != nil
}

// teardown releases the capture session and the audio device. Called once
// on quit.
func (m *Model) teardown() {
	if m.session != nil {
		m.session.Stop()
		m.session = nil
	}
	if m.player != nil {
		m.player.Close()
	}
}
