// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/mentor-tui/internal/model"
	"github.com/jeranaias/mentor-tui/internal/ui/styles"
	"github.com/jeranaias/mentor-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status represents the current application status
type Status int

const (
	StatusReady Status = iota
	StatusSending
	StatusStreaming
	StatusError
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusSending:
		return "Sending..."
	case StatusStreaming:
		return "Streaming..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a compact icon for the status
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusSending:
		return "..."
	case StatusStreaming:
		return "~"
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusBar represents the bottom status bar
type StatusBar struct {
	ModelName     string // Current model
	MessageCount  int    // Messages in the conversation
	Status        Status // Current status
	Connected     bool   // Whether a session is live
	Width         int    // Available width
	ShowShortcuts bool   // Show keyboard shortcuts
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		ModelName:     "",
		MessageCount:  0,
		Status:        StatusReady,
		Connected:     false,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the current status
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetConnected updates the session indicator
func (s *StatusBar) SetConnected(connected bool) {
	s.Connected = connected
}

// SetMessageCount updates the message counter
func (s *StatusBar) SetMessageCount(count int) {
	s.MessageCount = count
}

// SetModel updates the model name with registry lookup.
// If the model is found in the registry, displays the friendly name with
// the tier icon.
func (s *StatusBar) SetModel(modelName string) {
	if info, ok := model.GetModelInfo(modelName); ok {
		s.ModelName = info.TierIcon() + " " + info.Name
	} else {
		// Unknown model - display as-is
		s.ModelName = modelName
	}
}

// View renders the status bar
func (s *StatusBar) View() string {
	// Choose layout based on width
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals
// Format: [+] status-icon msgs
func (s *StatusBar) viewNarrow() string {
	parts := []string{}

	parts = append(parts, s.renderConnection(true))

	statusStyle := s.getStatusStyle()
	parts = append(parts, statusStyle.Render(s.Status.Icon()))

	countStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	parts = append(parts, countStyle.Render(fmtNumber(s.MessageCount)+" msg"))

	result := strings.Join(parts, " ")

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Render(result)
}

// viewMedium renders a medium-width status bar
// Format: (+) | model | N messages | Status
func (s *StatusBar) viewMedium() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	parts := []string{}

	parts = append(parts, s.renderConnection(true))

	if s.ModelName != "" {
		// Width-based truncation so double-width characters measure
		// correctly against the column budget.
		modelName := util.TruncateWidth(s.ModelName, 20)
		modelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		parts = append(parts, modelStyle.Render(modelName))
	}

	countStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	parts = append(parts, countStyle.Render(fmtNumber(s.MessageCount)+" messages"))

	statusStyle := s.getStatusStyle()
	parts = append(parts, statusStyle.Render(s.Status.String()))

	result := strings.Join(parts, separator)

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// viewWide renders a full-featured status bar for wide terminals
// Format: (+) Gemini | model | N messages | Status ... shortcuts
func (s *StatusBar) viewWide() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	leftParts := []string{}

	leftParts = append(leftParts, s.renderConnection(false))

	if s.ModelName != "" {
		modelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		leftParts = append(leftParts, modelStyle.Render(s.ModelName))
	}

	countStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	leftParts = append(leftParts, countStyle.Render(fmtNumber(s.MessageCount)+" messages"))

	statusStyle := s.getStatusStyle()
	leftParts = append(leftParts, statusStyle.Render(s.Status.String()))

	left := strings.Join(leftParts, separator)

	// Right section: keyboard shortcuts
	right := ""
	if s.ShowShortcuts {
		right = s.renderShortcuts()
	}

	// Pad the middle
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	padding := s.Width - leftWidth - rightWidth - 2
	if padding < 1 {
		padding = 1
	}

	result := left + strings.Repeat(" ", padding) + right

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// renderConnection renders the session indicator.
func (s *StatusBar) renderConnection(compact bool) string {
	if s.Connected {
		style := lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
		if compact {
			return style.Render(styles.StatusIndicators.Connected)
		}
		return style.Render(styles.StatusIndicators.Connected + " Gemini")
	}
	style := lipgloss.NewStyle().Foreground(styles.TextMuted)
	if compact {
		return style.Render(styles.StatusIndicators.Offline)
	}
	return style.Render(styles.StatusIndicators.Offline + " No session")
}

// renderShortcuts renders the keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Teal).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "send"},
		{"Ctrl+N", "new"},
		{"Ctrl+C", "quit"},
	}

	parts := make([]string, len(shortcuts))
	for i, sc := range shortcuts {
		parts[i] = keyStyle.Render(sc.key) + descStyle.Render(" "+sc.desc)
	}

	return strings.Join(parts, "  ")
}

// getStatusStyle returns the style for the current status.
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	case StatusSending, StatusStreaming:
		return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextSecondary)
	}
}
