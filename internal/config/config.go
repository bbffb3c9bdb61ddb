// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for mentor.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.mentor/config.toml
//   - ~/.mentor/config.json
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/mentor-tui/internal/gemini"
	"github.com/jeranaias/mentor-tui/internal/model"
	"github.com/jeranaias/mentor-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete mentor configuration.
type Config struct {
	// General settings
	Version      string `toml:"version" json:"version"`
	DefaultModel string `toml:"default_model" json:"default_model"`

	// Gemini API configuration
	Gemini GeminiConfig `toml:"gemini" json:"gemini"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// GeminiConfig contains the remote API settings.
type GeminiConfig struct {
	// APIKey authenticates against the Gemini API. Usually left empty in
	// the file and supplied via GEMINI_API_KEY or a .env file.
	APIKey string `toml:"api_key" json:"api_key,omitempty"`

	// Temperature for reply sampling (0.0 - 2.0)
	Temperature float64 `toml:"temperature" json:"temperature"`

	// StreamTimeoutSecs bounds one reply stream end to end
	StreamTimeoutSecs int `toml:"stream_timeout_secs" json:"stream_timeout_secs"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowStats displays stream timing under replies
	ShowStats bool `toml:"show_stats" json:"show_stats"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// Markdown renders assistant replies as markdown
	Markdown bool `toml:"markdown" json:"markdown"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version:      "1",
		DefaultModel: gemini.DefaultModel,
		Gemini: GeminiConfig{
			Temperature:       0.7,
			StreamTimeoutSecs: 120,
		},
		UI: UIConfig{
			Theme:     "auto",
			ShowStats: true,
			Markdown:  true,
		},
	}
}

// fillDefaults fills zero values with defaults after a partial file load.
func fillDefaults(cfg *Config) {
	def := Default()

	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = def.DefaultModel
	}
	if cfg.Gemini.Temperature == 0 {
		cfg.Gemini.Temperature = def.Gemini.Temperature
	}
	if cfg.Gemini.StreamTimeoutSecs == 0 {
		cfg.Gemini.StreamTimeoutSecs = def.Gemini.StreamTimeoutSecs
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// FILE LOCATIONS
// =============================================================================

// ConfigDir returns the mentor configuration directory (~/.mentor).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".mentor"), nil
}

// ConfigPathTOML returns the TOML config file path.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the JSON config file path.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the configuration directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration, trying TOML first, then JSON, then
// defaults. A .env file in the working directory is folded into the
// environment before overrides are applied, so GEMINI_API_KEY can live
// there instead of the shell profile.
func Load() (*Config, error) {
	loadDotenv()

	cfg := Default()

	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return applyAndValidate(Default()), fmt.Errorf("loading %s: %w", path, err)
			}
			return applyAndValidate(cfg), nil
		}
	}

	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadJSON(cfg, path); err != nil {
				return applyAndValidate(Default()), fmt.Errorf("loading %s: %w", path, err)
			}
			return applyAndValidate(cfg), nil
		}
	}

	return applyAndValidate(cfg), nil
}

// applyAndValidate finishes a load: defaults, env overrides. Validation
// problems do not fail the load; the caller surfaces them via Validate.
func applyAndValidate(cfg *Config) *Config {
	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	return cfg
}

// loadDotenv folds a .env file into the environment when present.
// Missing files are fine; malformed ones are ignored rather than fatal.
func loadDotenv() {
	_ = godotenv.Load()
}

// LoadTOML loads TOML configuration from path into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parsing TOML: %w", err)
	}
	return nil
}

// LoadJSON loads JSON configuration from path into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from an explicit path, picking the
// format from the extension.
func LoadFromPath(path string) (*Config, error) {
	loadDotenv()
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = LoadTOML(cfg, path)
	case ".json":
		err = LoadJSON(cfg, path)
	default:
		err = fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return applyAndValidate(cfg), nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the TOML path.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes TOML configuration to path atomically, so a crash
// mid-save never leaves a truncated config behind.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0o600)
}

// SaveJSON writes JSON configuration to path atomically.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0o600)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.DefaultModel == "" {
		errs = append(errs, ValidationError{
			Field:   "default_model",
			Message: "must not be empty",
		})
	} else if !model.IsKnownModel(c.DefaultModel) {
		errs = append(errs, ValidationError{
			Field:   "default_model",
			Message: fmt.Sprintf("unknown model '%s', known: %s", c.DefaultModel, strings.Join(model.ModelShortNames(), ", ")),
		})
	}

	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "gemini.temperature",
			Message: fmt.Sprintf("must be between 0.0 and 2.0, got %.2f", c.Gemini.Temperature),
		})
	}

	if c.Gemini.StreamTimeoutSecs < 1 {
		errs = append(errs, ValidationError{
			Field:   "gemini.stream_timeout_secs",
			Message: fmt.Sprintf("must be positive, got %d", c.Gemini.StreamTimeoutSecs),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - GEMINI_API_KEY: overrides gemini.api_key
//   - MENTOR_MODEL: overrides default_model
//   - MENTOR_THEME: overrides ui.theme
//   - MENTOR_COMPACT: set to "1" or "true" for compact layout
//   - MENTOR_NO_MARKDOWN: set to "1" or "true" to disable markdown rendering
//   - MENTOR_TEMPERATURE: overrides gemini.temperature
func (c *Config) ApplyEnvOverrides() {
	// GEMINI_API_KEY
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}

	// MENTOR_MODEL
	if m := os.Getenv("MENTOR_MODEL"); m != "" {
		c.DefaultModel = m
	}

	// MENTOR_THEME
	if theme := os.Getenv("MENTOR_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	// MENTOR_COMPACT
	if compact := os.Getenv("MENTOR_COMPACT"); compact != "" {
		c.UI.CompactMode = compact == "1" || strings.ToLower(compact) == "true"
	}

	// MENTOR_NO_MARKDOWN
	if noMD := os.Getenv("MENTOR_NO_MARKDOWN"); noMD != "" {
		c.UI.Markdown = !(noMD == "1" || strings.ToLower(noMD) == "true")
	}

	// MENTOR_TEMPERATURE
	if temp := os.Getenv("MENTOR_TEMPERATURE"); temp != "" {
		if parsed, err := strconv.ParseFloat(temp, 64); err == nil {
			c.Gemini.Temperature = parsed
		}
	}
}

// =============================================================================
// CLIENT BRIDGE
// =============================================================================

// ToClientConfig converts the configuration into a Gemini client config.
func (c *Config) ToClientConfig() *gemini.ClientConfig {
	clientCfg := gemini.DefaultConfig()
	clientCfg.APIKey = c.Gemini.APIKey
	clientCfg.Model = c.DefaultModel
	clientCfg.Temperature = float32(c.Gemini.Temperature)
	clientCfg.StreamTimeout = time.Duration(c.Gemini.StreamTimeoutSecs) * time.Second
	return clientCfg
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
