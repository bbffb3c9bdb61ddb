// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for mentor.
//
// CLI: Comprehensive help and examples for all commands
//
// Command: config [subcommand]
// Short:   View and modify configuration
// Aliases: (none)
//
// Subcommands:
//   show (default)      Display current configuration
//   set <key> <value>   Set a configuration value
//   reset               Reset to default configuration
//   path                Show configuration file path
//
// Examples:
//   mentor config                         Show current config (default)
//   mentor config show --json             Config in JSON format
//   mentor config set default_model gemini-2.0-flash
//   mentor config set temperature 0.9
//   mentor config set theme dark
//   mentor config set markdown false
//   mentor config reset                   Reset to defaults
//   mentor config path                    Show config file location
//
// Configuration Keys:
//   api_key              Gemini API key (usually via GEMINI_API_KEY)
//   default_model        Model for new sessions
//   temperature          Reply sampling temperature (0.0 - 2.0)
//   stream_timeout_secs  Per-reply stream timeout in seconds
//   theme                UI theme (dark/light/auto)
//   show_stats           Show stream timing under replies (true/false)
//   compact_mode         Compact UI layout (true/false)
//   markdown             Render replies as markdown (true/false)
//
// Flags:
//   --json              Output in JSON format
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mentor-tui/internal/config"
	"github.com/jeranaias/mentor-tui/internal/ui/styles"
)

// =============================================================================
// CONFIG STYLES
// =============================================================================

var (
	// Config title style
	configTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.Teal).
				MarginBottom(1)

	// Config section style
	configSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.TextPrimary).
				MarginTop(1)

	// Config key style
	configKeyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(22)

	// Config value style
	configValueStyle = lipgloss.NewStyle().
				Foreground(styles.Emerald)

	// Config value masked (for secrets)
	configMaskedStyle = lipgloss.NewStyle().
				Foreground(styles.TextMuted)

	// Success style
	configSuccessStyle = lipgloss.NewStyle().
				Foreground(styles.Emerald).
				Bold(true)

	// Path style
	configPathStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Italic(true)
)

// =============================================================================
// CONFIG HANDLER
// =============================================================================

// HandleConfig handles the "config" command and its subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		if args.JSON {
			return handleConfigShowJSON()
		}
		return handleConfigShow()

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return ErrMissingArgument("key/value", "mentor config set KEY VALUE")
		}
		return handleConfigSet(args.ConfigKey, args.ConfigVal)

	case "reset":
		return handleConfigReset()

	case "path":
		return handleConfigPath(args.JSON)

	default:
		return NewValidationErrorWithExample(
			"subcommand",
			args.Subcommand,
			"unknown config subcommand",
			"mentor config [show|set|reset|path]",
		)
	}
}

// handleConfigShow displays the current configuration.
func handleConfigShow() error {
	cfg := config.Global()

	fmt.Println(configTitleStyle.Render("mentor configuration"))

	fmt.Println(configSectionStyle.Render("General"))
	printConfigLine("default_model", cfg.DefaultModel, false)

	fmt.Println(configSectionStyle.Render("Gemini"))
	printConfigLine("api_key", maskAPIKey(cfg.Gemini.APIKey), cfg.Gemini.APIKey != "")
	printConfigLine("temperature", strconv.FormatFloat(cfg.Gemini.Temperature, 'f', 1, 64), false)
	printConfigLine("stream_timeout_secs", strconv.Itoa(cfg.Gemini.StreamTimeoutSecs), false)

	fmt.Println(configSectionStyle.Render("UI"))
	printConfigLine("theme", cfg.UI.Theme, false)
	printConfigLine("show_stats", strconv.FormatBool(cfg.UI.ShowStats), false)
	printConfigLine("compact_mode", strconv.FormatBool(cfg.UI.CompactMode), false)
	printConfigLine("markdown", strconv.FormatBool(cfg.UI.Markdown), false)

	fmt.Println()
	if path, err := config.ConfigPathTOML(); err == nil {
		fmt.Println(configPathStyle.Render("Config file: " + path))
	}

	return nil
}

// handleConfigShowJSON outputs the configuration as JSON with the API key
// masked.
func handleConfigShowJSON() error {
	cfg := config.Global()

	return outputJSON(map[string]interface{}{
		"default_model":       cfg.DefaultModel,
		"api_key":             maskAPIKey(cfg.Gemini.APIKey),
		"temperature":         cfg.Gemini.Temperature,
		"stream_timeout_secs": cfg.Gemini.StreamTimeoutSecs,
		"theme":               cfg.UI.Theme,
		"show_stats":          cfg.UI.ShowStats,
		"compact_mode":        cfg.UI.CompactMode,
		"markdown":            cfg.UI.Markdown,
	})
}

// printConfigLine prints one key/value line.
func printConfigLine(key, value string, masked bool) {
	valStyle := configValueStyle
	if masked {
		valStyle = configMaskedStyle
	}
	fmt.Printf("  %s %s\n",
		configKeyStyle.Render(key),
		valStyle.Render(value))
}

// handleConfigSet updates a single configuration value and saves the file.
func handleConfigSet(key, value string) error {
	cfg := config.Global()

	switch strings.ToLower(key) {
	case "api_key":
		cfg.Gemini.APIKey = value

	case "default_model":
		cfg.DefaultModel = value

	case "temperature":
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed < 0 || parsed > 2 {
			return ErrInvalidFormat("temperature", value, "a number between 0.0 and 2.0")
		}
		cfg.Gemini.Temperature = parsed

	case "stream_timeout_secs":
		parsed, err := ParseIntWithValidation(value, "stream_timeout_secs")
		if err != nil {
			return err
		}
		cfg.Gemini.StreamTimeoutSecs = parsed

	case "theme":
		lowered := strings.ToLower(value)
		if lowered != "dark" && lowered != "light" && lowered != "auto" {
			return ErrInvalidFormat("theme", value, "dark, light, or auto")
		}
		cfg.UI.Theme = lowered

	case "show_stats":
		parsed, err := ParseBoolString(value)
		if err != nil {
			return err
		}
		cfg.UI.ShowStats = parsed

	case "compact_mode":
		parsed, err := ParseBoolString(value)
		if err != nil {
			return err
		}
		cfg.UI.CompactMode = parsed

	case "markdown":
		parsed, err := ParseBoolString(value)
		if err != nil {
			return err
		}
		cfg.UI.Markdown = parsed

	default:
		return NewValidationErrorWithExample(
			"key",
			key,
			"unknown configuration key",
			"api_key, default_model, temperature, stream_timeout_secs, theme, show_stats, compact_mode, markdown",
		)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return WrapError(err, "failed to save configuration")
	}
	config.SetGlobal(cfg)

	fmt.Printf("%s %s = %s\n",
		configSuccessStyle.Render("[OK]"),
		key,
		maskIfSecret(key, value))
	return nil
}

// handleConfigReset writes default configuration back to disk.
func handleConfigReset() error {
	cfg := config.Default()

	if err := config.Save(cfg); err != nil {
		return WrapError(err, "failed to save configuration")
	}
	config.SetGlobal(cfg)

	fmt.Println(configSuccessStyle.Render("[OK]") + " Configuration reset to defaults.")
	return nil
}

// handleConfigPath shows the configuration file location.
func handleConfigPath(jsonMode bool) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return WrapError(err, "cannot determine config path")
	}

	if jsonMode {
		return outputJSON(map[string]string{"path": path})
	}

	fmt.Println(path)
	return nil
}

// =============================================================================
// SECRET MASKING
// =============================================================================

// maskAPIKey masks an API key for display, keeping a short prefix.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + strings.Repeat("*", 4)
}

// maskIfSecret masks the value when the key holds a secret.
func maskIfSecret(key, value string) string {
	if strings.Contains(strings.ToLower(key), "key") {
		return maskAPIKey(value)
	}
	return value
}
