// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mentor-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// Welcome is the welcome screen component shown before the first message.
type Welcome struct {
	// Display info
	version   string
	modelName string

	// Dimensions
	width  int
	height int

	// Theme
	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version:   "dev",
		modelName: "gemini-2.0-flash",
		theme:     theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetModelName sets the model name.
func (w *Welcome) SetModelName(name string) {
	w.modelName = name
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen.
// Responsive: adapts to terminal size, minimum 80x24 supported.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	// Calculate box width - responsive to terminal width
	boxWidth := 62
	if width < 70 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	// Adjust padding for narrow terminals
	horizontalPadding := 4
	verticalPadding := 1
	if width < 70 {
		horizontalPadding = 2
	}

	// Box overhead: 2 (border top/bottom) + 2*verticalPadding
	boxOverhead := 2 + 2*verticalPadding
	availableContentLines := height - boxOverhead

	var content string
	var contentLines int

	if availableContentLines >= 18 {
		// Full layout with double newlines
		content = w.renderLogo()
		content += "\n\n" + w.renderVersion()
		content += "\n\n" + w.renderSystemInfo()
		content += "\n\n" + w.renderQuickStart()
		content += "\n\n" + w.renderPressKey()
		contentLines = 18
	} else if availableContentLines >= 12 {
		// Compact: single newlines between sections
		content = w.renderLogo()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderSystemInfo()
		content += "\n" + w.renderPressKey()
		contentLines = 12
	} else {
		// Ultra compact: minimal content
		content = w.renderLogoCompact()
		content += "\n" + w.renderSystemInfoCompact()
		content += "\n" + w.renderPressKey()
		contentLines = 7
	}

	// If still too tight, remove vertical padding
	if contentLines+boxOverhead > height {
		verticalPadding = 0
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Teal).
		Padding(verticalPadding, horizontalPadding).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	boxHeight := lipgloss.Height(box)

	// Don't center if box is taller than available space. Align to top so
	// the logo stays visible and overflow happens at the bottom.
	if boxHeight >= height {
		return lipgloss.Place(
			width, height,
			lipgloss.Center, lipgloss.Top,
			box,
		)
	}

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// renderLogo renders the ASCII art logo (6 lines).
// Responsive: uses compact logo for narrow terminals.
func (w Welcome) renderLogo() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Teal).
		Bold(true)

	// Full ASCII art is ~44 chars wide, needs ~48 with box padding
	if w.width >= 60 {
		logo := ` _ __ ___   ___ _ __ | |_ ___  _ __
| '_ ` + "`" + ` _ \ / _ \ '_ \| __/ _ \| '__|
| | | | | |  __/ | | | || (_) | |
|_| |_| |_|\___|_| |_|\__\___/|_|
                                 `
		return logoStyle.Render(logo)
	}

	return w.renderLogoCompact()
}

// renderLogoCompact renders a compact text-based logo (3 lines).
func (w Welcome) renderLogoCompact() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Teal).
		Bold(true)

	if w.width >= 40 {
		return logoStyle.Render(`+--------------------+
|       mentor       |
+--------------------+`)
	}

	// Simple text logo for very narrow terminals - 1 line
	return logoStyle.Render("mentor - Freelance Business Mentor")
}

// renderVersion renders the version subtitle.
func (w Welcome) renderVersion() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("Freelance Business Mentor v" + w.version)
}

// renderSystemInfo renders the model line.
func (w Welcome) renderSystemInfo() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(8)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.Teal).
		Bold(true)

	return labelStyle.Render("Model: ") + valueStyle.Render(w.modelName)
}

// renderSystemInfoCompact renders a single-line system info (1 line).
func (w Welcome) renderSystemInfoCompact() string {
	return lipgloss.NewStyle().
		Foreground(styles.Teal).
		Bold(true).
		Render(w.modelName)
}

// renderQuickStart renders the quick start tips.
func (w Welcome) renderQuickStart() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true)

	bulletStyle := lipgloss.NewStyle().
		Foreground(styles.Teal).
		Bold(true)

	tipStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	tips := []string{
		bulletStyle.Render("-") + tipStyle.Render(" Type a question and press Enter"),
		bulletStyle.Render("-") + tipStyle.Render(" Use /help to see all commands"),
		bulletStyle.Render("-") + tipStyle.Render(" Use /new to start a fresh conversation"),
		bulletStyle.Render("-") + tipStyle.Render(" Press Ctrl+C to quit"),
	}

	title := titleStyle.Render("Quick Start:")

	return title + "\n" + lipgloss.JoinVertical(lipgloss.Left, tips...)
}

// renderPressKey renders the "press any key" prompt.
func (w Welcome) renderPressKey() string {
	return lipgloss.NewStyle().
		Foreground(styles.Indigo).
		Render("Press any key to continue...")
}

// =============================================================================
// KEYBOARD SHORTCUT HELP
// =============================================================================

// KeyboardShortcuts returns a formatted list of keyboard shortcuts.
func KeyboardShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Teal).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send message"},
		{"Ctrl+C", "Quit"},
		{"Ctrl+L", "Clear conversation"},
		{"Ctrl+N", "New conversation"},
		{"Up/Down", "Scroll messages"},
		{"PgUp/PgDn", "Page scroll"},
		{"Esc", "Dismiss/Cancel"},
	}

	lines := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		lines[i] = keyStyle.Render(s.key) + descStyle.Render(s.desc)
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Bold(true)

	return titleStyle.Render("Keyboard Shortcuts") + "\n" +
		lipgloss.JoinVertical(lipgloss.Left, lines...)
}
