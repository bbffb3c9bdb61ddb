// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation for mentor.
//
// CLI: Comprehensive help and examples for all commands
//
// Command: status
// Short:   Display configuration and connectivity status
// Aliases: s
//
// Examples:
//   mentor status                 Show status
//   mentor s                      Show status (short alias)
//   mentor status --json          Status in JSON format
//
// Status Sections:
//   Build:     Version, commit, build date
//   API:       Key presence and source, model, temperature
//   Config:    File location and whether it exists
//   Terminal:  TTY, colors, size
//
// Flags:
//   --json              Output in JSON format
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mentor-tui/internal/config"
	"github.com/jeranaias/mentor-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	// Title style for the header
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(styles.Teal).
				MarginBottom(1)

	// Section header style
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimary).
			MarginTop(1)

	// Label style for field names
	labelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(14)

	// Value styles
	valueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	valueGoodStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	valueWarnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	valueDimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)
)

// =============================================================================
// STATUS DATA
// =============================================================================

// statusInfo is the machine-readable shape of the status report.
type statusInfo struct {
	Version      string `json:"version"`
	GitCommit    string `json:"git_commit"`
	BuildDate    string `json:"build_date"`
	APIKeySet    bool   `json:"api_key_set"`
	APIKeySource string `json:"api_key_source"`
	Model        string `json:"model"`
	Temperature  string `json:"temperature"`
	ConfigPath   string `json:"config_path"`
	ConfigExists bool   `json:"config_exists"`
	TTY          bool   `json:"tty"`
	Colors       bool   `json:"colors"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// collectStatus gathers the status report.
func collectStatus() statusInfo {
	cfg := config.Global()

	keySet := cfg.Gemini.APIKey != ""
	keySource := "config"
	if !keySet {
		if os.Getenv("GEMINI_API_KEY") != "" {
			keySet = true
			keySource = "environment"
		} else {
			keySource = "none"
		}
	}

	path, _ := config.ConfigPathTOML()
	exists := false
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			exists = true
		}
	}

	caps := GetTerminalCapabilities()

	return statusInfo{
		Version:      Version,
		GitCommit:    GitCommit,
		BuildDate:    BuildDate,
		APIKeySet:    keySet,
		APIKeySource: keySource,
		Model:        cfg.DefaultModel,
		Temperature:  strconv.FormatFloat(cfg.Gemini.Temperature, 'f', 1, 64),
		ConfigPath:   path,
		ConfigExists: exists,
		TTY:          caps.IsTTY,
		Colors:       caps.ColorsEnabled,
		Width:        caps.Width,
		Height:       caps.Height,
	}
}

// =============================================================================
// HANDLE STATUS
// =============================================================================

// HandleStatus handles the "status" command.
func HandleStatus(args Args) error {
	info := collectStatus()

	if args.JSON {
		return outputJSON(info)
	}

	fmt.Println(statusTitleStyle.Render("mentor status"))
	fmt.Println(RenderSeparatorAdaptive())

	fmt.Println(sectionStyle.Render("Build"))
	printStatusLine("Version", valueStyle.Render(info.Version))
	printStatusLine("Commit", valueDimStyle.Render(info.GitCommit))
	printStatusLine("Built", valueDimStyle.Render(info.BuildDate))

	fmt.Println(sectionStyle.Render("API"))
	if info.APIKeySet {
		printStatusLine("API key", valueGoodStyle.Render("set ("+info.APIKeySource+")"))
	} else {
		printStatusLine("API key", valueWarnStyle.Render("not set - set GEMINI_API_KEY"))
	}
	printStatusLine("Model", valueStyle.Render(info.Model))
	printStatusLine("Temperature", valueStyle.Render(info.Temperature))

	fmt.Println(sectionStyle.Render("Config"))
	if info.ConfigExists {
		printStatusLine("File", valueGoodStyle.Render(info.ConfigPath))
	} else {
		printStatusLine("File", valueDimStyle.Render(info.ConfigPath+" (defaults)"))
	}

	fmt.Println(sectionStyle.Render("Terminal"))
	printStatusLine("TTY", formatYesNo(info.TTY))
	printStatusLine("Colors", formatYesNo(info.Colors))
	printStatusLine("Size", valueStyle.Render(
		strconv.Itoa(info.Width)+"x"+strconv.Itoa(info.Height)))

	fmt.Println()
	return nil
}

// printStatusLine prints one label/value line.
func printStatusLine(label, value string) {
	fmt.Printf("  %s %s\n", labelStyle.Render(label), value)
}

// formatYesNo renders a boolean as a colored yes/no.
func formatYesNo(v bool) string {
	if v {
		return valueGoodStyle.Render("yes")
	}
	return valueDimStyle.Render("no")
}
