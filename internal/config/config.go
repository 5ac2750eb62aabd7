// Copyright (c) 2025 Sankofa Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for bece-tui.
//
// Configuration comes from ~/.bece-tui/config.toml with built-in defaults
// and environment variable overrides applied last.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete bece-tui configuration.
type Config struct {
	// AI holds generative-model settings.
	AI AIConfig `toml:"ai"`

	// Speech holds speech-capture settings.
	Speech SpeechConfig `toml:"speech"`

	// Export holds past-paper export settings.
	Export ExportConfig `toml:"export"`

	// UI holds interface settings.
	UI UIConfig `toml:"ui"`
}

// AIConfig contains generative-model client settings.
type AIConfig struct {
	// APIKey authenticates against the generative API. Usually supplied
	// via the GEMINI_API_KEY environment variable rather than on disk.
	APIKey string `toml:"api_key"`
	// BaseURL of the generative API (default: Google AI endpoint).
	BaseURL string `toml:"base_url"`
	// Model used for tutoring answers and past papers.
	Model string `toml:"model"`
	// SpeechModel used for text-to-speech synthesis.
	SpeechModel string `toml:"speech_model"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// SpeechConfig contains speech-to-text settings.
type SpeechConfig struct {
	// EndpointURL of the streaming recognition daemon (ws:// or wss://).
	// Empty disables voice input.
	EndpointURL string `toml:"endpoint_url"`
	// Language hint for the recognizer.
	Language string `toml:"language"`
}

// ExportConfig contains past-paper export settings.
type ExportConfig struct {
	// OutputDir receives exported .doc bundles (default: ~/Documents,
	// falling back to the working directory).
	OutputDir string `toml:"output_dir"`
}

// UIConfig contains interface settings.
type UIConfig struct {
	// VoiceEnabled controls whether answers are spoken aloud at startup.
	VoiceEnabled bool `toml:"voice_enabled"`
	// Voice is the synthesis voice name.
	Voice string `toml:"voice"`
	// DebugLog is an optional path for debug logging.
	DebugLog string `toml:"debug_log"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			Model:       "gemini-2.5-flash",
			SpeechModel: "gemini-2.5-flash-preview-tts",
			TimeoutSecs: 60,
		},
		Speech: SpeechConfig{
			Language: "en-GH",
		},
		UI: UIConfig{
			VoiceEnabled: true,
			Voice:        "Kore",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.AI.TimeoutSecs) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the bece-tui configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".bece-tui"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Config files can hold the API key, so keep them owner-only.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions: %w", err)
		}
	}
	return nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file, falling back to defaults when absent.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath reads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

func (c *Config) fillDefaults() {
	defaults := Default()

	if c.AI.BaseURL == "" {
		c.AI.BaseURL = defaults.AI.BaseURL
	}
	if c.AI.Model == "" {
		c.AI.Model = defaults.AI.Model
	}
	if c.AI.SpeechModel == "" {
		c.AI.SpeechModel = defaults.AI.SpeechModel
	}
	if c.AI.TimeoutSecs <= 0 {
		c.AI.TimeoutSecs = defaults.AI.TimeoutSecs
	}
	if c.Speech.Language == "" {
		c.Speech.Language = defaults.Speech.Language
	}
	if c.UI.Voice == "" {
		c.UI.Voice = defaults.UI.Voice
	}
	if c.Export.OutputDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Export.OutputDir = filepath.Join(home, "Documents")
		} else {
			c.Export.OutputDir = "."
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks field values. The API key is not validated here: it is
// checked at client construction so --help and friends work without one.
func (c *Config) Validate() error {
	if u, err := url.Parse(c.AI.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{Field: "ai.base_url", Message: fmt.Sprintf("invalid URL %q", c.AI.BaseURL)}
	}
	if c.Speech.EndpointURL != "" {
		u, err := url.Parse(c.Speech.EndpointURL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			return ValidationError{Field: "speech.endpoint_url", Message: fmt.Sprintf("must be a ws:// or wss:// URL, got %q", c.Speech.EndpointURL)}
		}
	}
	if c.AI.TimeoutSecs > 600 {
		return ValidationError{Field: "ai.timeout_secs", Message: fmt.Sprintf("must be at most 600, got %d", c.AI.TimeoutSecs)}
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - GEMINI_API_KEY: overrides ai.api_key
//   - BECE_BASE_URL: overrides ai.base_url
//   - BECE_MODEL: overrides ai.model
//   - BECE_SPEECH_ENDPOINT: overrides speech.endpoint_url
//   - BECE_NO_VOICE: set to "1" or "true" to start with voice off
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
	if base := os.Getenv("BECE_BASE_URL"); base != "" {
		c.AI.BaseURL = base
	}
	if model := os.Getenv("BECE_MODEL"); model != "" {
		c.AI.Model = model
	}
	if endpoint := os.Getenv("BECE_SPEECH_ENDPOINT"); endpoint != "" {
		c.Speech.EndpointURL = endpoint
	}
	if noVoice := os.Getenv("BECE_NO_VOICE"); noVoice != "" {
		if noVoice == "1" || strings.EqualFold(noVoice, "true") {
			c.UI.VoiceEnabled = false
		}
	}
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default TOML file with owner-only
// permissions.
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := Path()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# bece-tui configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
