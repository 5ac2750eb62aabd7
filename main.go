// bece-tui - A terminal tutor for BECE preparation.
//
// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sankofalabs/bece-tui/internal/audio"
	"github.com/sankofalabs/bece-tui/internal/config"
	"github.com/sankofalabs/bece-tui/internal/export"
	"github.com/sankofalabs/bece-tui/internal/genai"
	"github.com/sankofalabs/bece-tui/internal/netcheck"
	"github.com/sankofalabs/bece-tui/internal/speech"
	"github.com/sankofalabs/bece-tui/internal/tutor"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.bece-tui/config.toml)")
	noVoice := flag.Bool("no-voice", false, "start with spoken answers disabled")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bece-tui %s (%s)\n", Version, GitCommit)
		return
	}

	if err := run(*configPath, *noVoice); err != nil {
		fmt.Fprintf(os.Stderr, "bece-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, noVoice bool) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if noVoice {
		cfg.UI.VoiceEnabled = false
	}

	if cfg.UI.DebugLog != "" {
		f, err := tea.LogToFile(cfg.UI.DebugLog, "debug")
		if err != nil {
			return fmt.Errorf("could not open debug log: %w", err)
		}
		defer f.Close()
	}

	checker := netcheck.New()

	client, err := genai.NewClient(&genai.ClientConfig{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		SpeechModel: cfg.AI.SpeechModel,
		Timeout:     cfg.Timeout(),
		Voice:       cfg.UI.Voice,
	}, checker)
	if err != nil {
		if errors.Is(err, genai.ErrMissingKey) {
			return fmt.Errorf("%w (set GEMINI_API_KEY or ai.api_key in the config file)", err)
		}
		return err
	}

	player := audio.NewPlayer()

	// Voice input is optional: without a configured recognition endpoint
	// the tutor runs text-only.
	recognizer, err := speech.New(speech.Config{
		EndpointURL: cfg.Speech.EndpointURL,
		Language:    cfg.Speech.Language,
	})
	if err != nil && !errors.Is(err, speech.ErrNotSupported) {
		return err
	}

	m := tutor.New(tutor.Options{
		Client:       client,
		Player:       player,
		Recognizer:   recognizer,
		Checker:      checker,
		Exporter:     export.NewDocExporter(cfg.Export.OutputDir),
		VoiceEnabled: cfg.UI.VoiceEnabled,
	})

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
