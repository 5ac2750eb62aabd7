// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package tutor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/sankofalabs/bece-tui/internal/audio"
	"github.com/sankofalabs/bece-tui/internal/export"
	"github.com/sankofalabs/bece-tui/internal/genai"
	"github.com/sankofalabs/bece-tui/internal/model"
	"github.com/sankofalabs/bece-tui/internal/speech"
	"github.com/sankofalabs/bece-tui/internal/subjects"
)

// silentClip is four zero PCM bytes in base64: the smallest payload the
// decode pipeline accepts.
const silentClip = "AAAAAA=="

// =============================================================================
// FAKES
// =============================================================================

type fakeSolver struct {
	answer     string
	solveErr   error
	paper      string
	speechB64  string // "" means synthesis fails and playback is skipped
	solveCalls int
	lastAsked  string
	spoken     []string
}

func (f *fakeSolver) SolveQuestion(_ context.Context, _, question string, _ []byte) (string, error) {
	f.solveCalls++
	f.lastAsked = question
	if f.solveErr != nil {
		return "", f.solveErr
	}
	return f.answer, nil
}

func (f *fakeSolver) GeneratePastPaper(_ context.Context, _, _ string) string {
	if f.paper == "" {
		return genai.PaperPlaceholder
	}
	return f.paper
}

func (f *fakeSolver) GenerateSpeech(_ context.Context, text string) (string, error) {
	f.spoken = append(f.spoken, text)
	if f.speechB64 == "" {
		// Synthesis "fails" so playback is skipped; the request log is
		// what these tests assert on.
		return "", genai.ErrEmptySpeech
	}
	return f.speechB64, nil
}

type fakeSpeaker struct {
	speaking bool
	paused   bool
	stops    int
	closed   bool
}

func (f *fakeSpeaker) Play(*audio.Buffer) (<-chan struct{}, error) {
	f.speaking = true
	done := make(chan struct{})
	close(done)
	return done, nil
}

func (f *fakeSpeaker) Pause()  { f.paused = true }
func (f *fakeSpeaker) Resume() { f.paused = false }
func (f *fakeSpeaker) Stop() {
	f.stops++
	f.speaking = false
	f.paused = false
}
func (f *fakeSpeaker) Speaking() bool { return f.speaking }
func (f *fakeSpeaker) Paused() bool   { return f.paused }
func (f *fakeSpeaker) Close()         { f.closed = true }

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(solver *fakeSolver, speaker *fakeSpeaker) *Model {
	m := New(Options{
		Client:       solver,
		Player:       speaker,
		Exporter:     export.NewDocExporter(""),
		VoiceEnabled: true,
	})
	m.screen = screenChat
	m.subject, _ = subjects.Lookup("mathematics")
	m.conv = model.NewConversation(m.subject.Name)
	return m
}

// runCmds executes a command tree synchronously and collects the messages.
func runCmds(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmds(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver feeds every solver/playback message back into Update, skipping
// ticks so tests stay synchronous.
func deliver(m *Model, msgs []tea.Msg) {
	for _, msg := range msgs {
		switch msg.(type) {
		case AnswerMsg, SendFailedMsg, speechReadyMsg, PlaybackDoneMsg, PaperGeneratedMsg, PaperExportedMsg, CopyResultMsg:
			_, cmd := m.Update(msg)
			deliver(m, runCmds(cmd))
		}
	}
}

func sendQuestion(m *Model, text string) {
	m.input.SetValue(text)
	_, cmd := m.send()
	deliver(m, runCmds(cmd))
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSendEmptyIsNoOp(t *testing.T) {
	solver := &fakeSolver{answer: "x"}
	m := newTestModel(solver, &fakeSpeaker{})

	m.input.SetValue("   ")
	_, cmd := m.send()
	if cmd != nil {
		t.Error("empty send must not issue commands")
	}
	if m.conv.Len() != 0 {
		t.Error("empty send must not append a user message")
	}
	if solver.solveCalls != 0 {
		t.Error("empty send must not call the AI client")
	}
}

func TestSendAppendsUserThenModel(t *testing.T) {
	solver := &fakeSolver{answer: "4" + model.SectionMarker + "Because 2+2=4."}
	m := newTestModel(solver, &fakeSpeaker{})

	sendQuestion(m, "What is 2+2?")

	if m.conv.Len() != 2 {
		t.Fatalf("transcript length = %d, want 2", m.conv.Len())
	}
	msgs := m.conv.Messages()
	if _, ok := msgs[0].(*model.UserMessage); !ok {
		t.Error("first entry must be the user message")
	}
	answer, ok := msgs[1].(*model.ModelAnswer)
	if !ok {
		t.Fatal("second entry must be the model answer")
	}
	if answer.Answer != "4" || answer.Explanation != "Because 2+2=4." {
		t.Errorf("answer parsed as %q / %q", answer.Answer, answer.Explanation)
	}
	if m.sending {
		t.Error("sending flag must clear after delivery")
	}
}

func TestSendSpeaksAckAndAnswerOnly(t *testing.T) {
	solver := &fakeSolver{answer: "The capital is Accra." + model.SectionMarker + "Ghana gained independence in 1957..."}
	m := newTestModel(solver, &fakeSpeaker{})

	sendQuestion(m, "Capital of Ghana?")

	if len(solver.spoken) != 2 {
		t.Fatalf("spoken = %v, want acknowledgment plus answer", solver.spoken)
	}
	if solver.spoken[0] != ackPhrase {
		t.Errorf("first utterance = %q, want the acknowledgment", solver.spoken[0])
	}
	if solver.spoken[1] != "The capital is Accra." {
		t.Errorf("second utterance = %q, want the answer portion only", solver.spoken[1])
	}
}

func TestSendGuardWhileInFlight(t *testing.T) {
	solver := &fakeSolver{answer: "x"}
	m := newTestModel(solver, &fakeSpeaker{})

	m.input.SetValue("first question")
	_, _ = m.send() // command not executed: still in flight

	m.input.SetValue("second question")
	_, cmd := m.send()
	if cmd != nil {
		t.Error("second send while in flight must be ignored")
	}
	if m.conv.Len() != 1 {
		t.Errorf("transcript length = %d, want 1", m.conv.Len())
	}
}

func TestSendFailureClassified(t *testing.T) {
	solver := &fakeSolver{solveErr: errors.New("request deadline exceeded")}
	m := newTestModel(solver, &fakeSpeaker{})

	sendQuestion(m, "Will this work?")

	errMsg := m.conv.LastError()
	if errMsg == nil {
		t.Fatal("expected an error message in the transcript")
	}
	if errMsg.Kind != genai.KindTimeout {
		t.Errorf("kind = %s, want timeout", errMsg.Kind)
	}
	if m.sending {
		t.Error("sending flag must clear after failure")
	}
}

func TestStaleAnswerDropped(t *testing.T) {
	solver := &fakeSolver{answer: "late answer"}
	m := newTestModel(solver, &fakeSpeaker{})

	m.input.SetValue("question")
	_, cmd := m.send()

	// Subject change discards the conversation before the answer lands.
	m.conv = model.NewConversation("Integrated Science")
	deliver(m, runCmds(cmd))

	if m.conv.Len() != 0 {
		t.Error("completion for a discarded conversation must be a no-op")
	}
}

// =============================================================================
// RETRY TESTS
// =============================================================================

func TestRetryRestoresInput(t *testing.T) {
	solver := &fakeSolver{solveErr: errors.New("connection refused: network unreachable")}
	m := newTestModel(solver, &fakeSpeaker{})

	sendQuestion(m, "my question")
	if m.conv.Len() != 2 {
		t.Fatalf("transcript length = %d, want 2", m.conv.Len())
	}

	_, _ = m.retryLastError()

	if m.conv.Len() != 1 {
		t.Errorf("transcript length after retry = %d, want 1", m.conv.Len())
	}
	if m.conv.LastError() != nil {
		t.Error("error message must be removed")
	}
	if m.input.Value() != "my question" {
		t.Errorf("input = %q, want the original question restored", m.input.Value())
	}
	if solver.solveCalls != 1 {
		t.Error("retry must not auto-resend")
	}
}

func TestRetryRestoresImage(t *testing.T) {
	solver := &fakeSolver{solveErr: errors.New("boom")}
	m := newTestModel(solver, &fakeSpeaker{})

	img := []byte{0xFF, 0xD8, 0xFF}
	m.pendingImage = img
	sendQuestion(m, "what shape is this")

	_, _ = m.retryLastError()
	if string(m.pendingImage) != string(img) {
		t.Error("retry must restore the original image attachment")
	}
}

func TestRetryWithoutErrorIsNoOp(t *testing.T) {
	solver := &fakeSolver{answer: "fine"}
	m := newTestModel(solver, &fakeSpeaker{})
	sendQuestion(m, "ok?")

	before := m.conv.Len()
	_, _ = m.retryLastError()
	if m.conv.Len() != before {
		t.Error("retry without an error message must not touch the transcript")
	}
}

// =============================================================================
// VOICE TESTS
// =============================================================================

func TestToggleVoiceOffStopsPlayback(t *testing.T) {
	speaker := &fakeSpeaker{speaking: true}
	m := newTestModel(&fakeSolver{}, speaker)

	_, _ = m.toggleVoice()

	if m.voiceEnabled {
		t.Error("voice must be off after toggle")
	}
	if speaker.stops != 1 || speaker.speaking {
		t.Error("toggling voice off mid-playback must stop audio immediately")
	}
}

func TestToggleVoiceOnDoesNotStop(t *testing.T) {
	speaker := &fakeSpeaker{}
	m := newTestModel(&fakeSolver{}, speaker)
	m.voiceEnabled = false

	_, _ = m.toggleVoice()
	if !m.voiceEnabled || speaker.stops != 0 {
		t.Error("toggling voice on must not touch playback")
	}
}

func TestVoiceOnStartsPlayback(t *testing.T) {
	solver := &fakeSolver{answer: "Accra.", speechB64: silentClip}
	speaker := &fakeSpeaker{}
	m := newTestModel(solver, speaker)

	sendQuestion(m, "capital?")

	if !speaker.speaking {
		t.Error("decoded speech must reach the player while voice is on")
	}
}

func TestVoiceOffDuringSynthesisDropsPlayback(t *testing.T) {
	solver := &fakeSolver{answer: "Accra.", speechB64: silentClip}
	speaker := &fakeSpeaker{}
	m := newTestModel(solver, speaker)

	m.input.SetValue("capital?")
	_, cmd := m.send() // synthesis commands issued but not yet run

	_, _ = m.toggleVoice() // voice goes off while synthesis is in flight

	deliver(m, runCmds(cmd))
	if speaker.speaking {
		t.Error("audio must not start after voice was toggled off")
	}
}

func TestVoiceOffSendIsSilent(t *testing.T) {
	solver := &fakeSolver{answer: "quiet"}
	m := newTestModel(solver, &fakeSpeaker{})
	m.voiceEnabled = false

	sendQuestion(m, "anything")
	if len(solver.spoken) != 0 {
		t.Errorf("spoken = %v, want none with voice off", solver.spoken)
	}
}

// =============================================================================
// LISTENING TESTS
// =============================================================================

// captureRecognizer dials a stub recognition daemon that accepts the stream
// and then just holds the connection open.
func captureRecognizer(t *testing.T) *speech.Recognizer {
	t.Helper()
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	recognizer, err := speech.New(speech.Config{
		EndpointURL: "ws" + strings.TrimPrefix(server.URL, "http"),
	})
	if err != nil {
		t.Fatalf("speech.New: %v", err)
	}
	return recognizer
}

func TestListenStartClearsInput(t *testing.T) {
	m := newTestModel(&fakeSolver{}, &fakeSpeaker{})
	m.recognizer = captureRecognizer(t)
	m.input.SetValue("half-typed question")

	_, _ = m.toggleListening()
	if m.session == nil {
		t.Fatal("capture session must start")
	}
	defer m.session.Stop()

	if !m.listening {
		t.Error("listening flag must be set")
	}
	if got := m.input.Value(); got != "" {
		t.Errorf("input = %q after starting capture, want it cleared", got)
	}
}

func TestListenUnavailableKeepsInput(t *testing.T) {
	m := newTestModel(&fakeSolver{}, &fakeSpeaker{})
	m.recognizer = nil
	m.input.SetValue("typed text")

	_, _ = m.toggleListening()
	if m.input.Value() != "typed text" {
		t.Error("input must survive when capture cannot start")
	}
	if m.status == "" {
		t.Error("unavailable capture must surface a status message")
	}
}

// =============================================================================
// REVEAL TESTS
// =============================================================================

func TestRevealIdempotentAndSpokenOnce(t *testing.T) {
	solver := &fakeSolver{answer: "short" + model.SectionMarker + "long explanation"}
	m := newTestModel(solver, &fakeSpeaker{})
	sendQuestion(m, "explain")
	spokenBefore := len(solver.spoken)

	_, cmd := m.revealLastAnswer()
	deliver(m, runCmds(cmd))
	answer := m.conv.LastAnswer()
	if !m.conv.IsRevealed(answer.ID()) {
		t.Fatal("answer must be revealed")
	}
	if len(solver.spoken) != spokenBefore+1 {
		t.Fatalf("spoken = %v, want one reveal utterance", solver.spoken)
	}
	if solver.spoken[len(solver.spoken)-1] != revealPrefix+"long explanation" {
		t.Errorf("reveal utterance = %q", solver.spoken[len(solver.spoken)-1])
	}

	// Second reveal: same membership, no re-speak.
	_, cmd = m.revealLastAnswer()
	deliver(m, runCmds(cmd))
	if !m.conv.IsRevealed(answer.ID()) {
		t.Error("answer must stay revealed")
	}
	if len(solver.spoken) != spokenBefore+1 {
		t.Error("second reveal must not speak again")
	}
}

func TestRevealWithoutExplanationIsNoOp(t *testing.T) {
	solver := &fakeSolver{answer: "just an answer"}
	m := newTestModel(solver, &fakeSpeaker{})
	sendQuestion(m, "q")

	_, cmd := m.revealLastAnswer()
	if cmd != nil {
		t.Error("reveal without an explanation must be a no-op")
	}
}

// =============================================================================
// COPY TESTS
// =============================================================================

func TestCopyIndicatorLifecycle(t *testing.T) {
	solver := &fakeSolver{answer: "  42  " + model.SectionMarker + "the details"}
	m := newTestModel(solver, &fakeSpeaker{})
	sendQuestion(m, "q")

	answer := m.conv.LastAnswer()
	if answer.Answer != "42" {
		t.Errorf("answer portion = %q, want the pre-marker text trimmed", answer.Answer)
	}

	// Drive the indicator lifecycle without touching the real clipboard.
	_, cmd := m.Update(CopyResultMsg{MessageID: answer.ID()})
	if cmd == nil {
		t.Fatal("copy success must schedule the indicator revert")
	}
	if m.copiedID != answer.ID() {
		t.Error("copied indicator must point at the answer")
	}

	_, _ = m.Update(copyRevertMsg{MessageID: answer.ID()})
	if m.copiedID != "" {
		t.Error("copied indicator must revert")
	}
}

// =============================================================================
// PAST-PAPER TESTS
// =============================================================================

func TestPaperCommandValidatesYear(t *testing.T) {
	m := newTestModel(&fakeSolver{}, &fakeSpeaker{})

	_, cmd := m.handleCommand("/paper 1842")
	if cmd != nil || m.generatingPaper {
		t.Error("out-of-range year must be rejected")
	}

	_, cmd = m.handleCommand("/paper 2019")
	if cmd == nil || !m.generatingPaper {
		t.Fatal("valid year must start generation")
	}
}

func TestPaperGenerationShowsPreview(t *testing.T) {
	solver := &fakeSolver{paper: "SECTION A\n1. Solve for x."}
	m := newTestModel(solver, &fakeSpeaker{})

	_, cmd := m.handleCommand("/paper 2020")
	deliver(m, runCmds(cmd))

	if m.screen != screenPaper {
		t.Error("generated paper must open the preview screen")
	}
	if m.generatingPaper {
		t.Error("generation flag must clear")
	}
	if m.paperText != solver.paper {
		t.Errorf("paper text = %q", m.paperText)
	}
}

func TestPaperFailureShowsPlaceholder(t *testing.T) {
	m := newTestModel(&fakeSolver{}, &fakeSpeaker{}) // empty paper -> placeholder

	_, cmd := m.handleCommand("/paper 2021")
	deliver(m, runCmds(cmd))

	if m.paperText != genai.PaperPlaceholder {
		t.Errorf("paper text = %q, want the placeholder", m.paperText)
	}
	if m.screen != screenPaper {
		t.Error("placeholder still opens the preview; there is no retry UI")
	}
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestTeardownClosesPlayer(t *testing.T) {
	speaker := &fakeSpeaker{}
	m := newTestModel(&fakeSolver{}, speaker)

	m.teardown()
	if !speaker.closed {
		t.Error("teardown must release the audio device")
	}
}

func TestSubjectCommandResetsConversation(t *testing.T) {
	solver := &fakeSolver{answer: "a"}
	speaker := &fakeSpeaker{speaking: true}
	m := newTestModel(solver, speaker)
	sendQuestion(m, "q")

	_, _ = m.handleCommand("/subject")

	if m.screen != screenSubjects {
		t.Error("must return to the subject picker")
	}
	if m.conv != nil {
		t.Error("conversation must be discarded")
	}
	if speaker.stops == 0 {
		t.Error("playback must stop when leaving the chat")
	}
}
