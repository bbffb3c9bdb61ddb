// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains all rendering logic for the chat interface: the main
// layout (header, transcript viewport, input box, status line), the
// welcome and help screens, and the error overlay.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mentor-tui/internal/util"
)

// =============================================================================
// MAIN VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting mentor..."
	}

	if m.state == stateWelcome {
		return m.welcome.View()
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.errorView.IsVisible() {
		return m.errorView.View()
	}

	return m.renderChat()
}

// renderChat assembles the main layout. The viewport gets whatever
// vertical space the fixed chrome (header, input, status) leaves over,
// measured with lipgloss so border and padding changes never desync the
// math.
func (m Model) renderChat() string {
	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusLine()

	chromeHeight := lipgloss.Height(header) + lipgloss.Height(input) + lipgloss.Height(status)
	availableHeight := m.height - chromeHeight
	if availableHeight < 3 {
		availableHeight = 3
	}

	vp := m.viewport
	vp.Height = availableHeight
	messages := vp.View()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		messages,
		input,
		status,
	)
}

// viewportHeight computes the transcript height for the current terminal
// size, used when resizing before a full render pass.
func (m Model) viewportHeight() int {
	h := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderInput()) - lipgloss.Height(m.renderStatusLine())
	if h < 3 {
		h = 3
	}
	return h
}

// =============================================================================
// CHROME
// =============================================================================

// renderHeader picks the full or compact header by terminal height.
func (m Model) renderHeader() string {
	if m.height < 15 {
		return m.header.ViewCompact()
	}
	return m.header.View()
}

// renderInput renders the input box. While a turn is in flight the input
// line is replaced by the thinking spinner so there is no ambiguity about
// whether typing does anything.
func (m Model) renderInput() string {
	inner := m.width - 4
	if inner < 10 {
		inner = 10
	}

	var line string
	if m.state == stateStreaming {
		line = m.spinner.View()
	} else {
		line = m.input.View()
		line = lipgloss.JoinHorizontal(lipgloss.Top, line, m.renderCharCount())
	}

	return m.theme.InputContainer.
		Width(inner).
		Render(line)
}

// renderCharCount shows remaining input capacity once the draft passes
// three quarters of the limit.
func (m Model) renderCharCount() string {
	used := len([]rune(m.input.Value()))
	if used < maxInputLength*3/4 {
		return ""
	}
	text := " " + util.IntToString(used) + "/" + util.IntToString(maxInputLength)
	if used >= maxInputLength {
		return m.theme.CharCountWarn.Render(text)
	}
	return m.theme.CharCount.Render(text)
}

// renderStatusLine renders the status bar, with the flash notice taking
// priority over the regular status content while it is visible.
func (m Model) renderStatusLine() string {
	if m.flash != "" {
		return m.theme.StatusBar.
			Width(m.width).
			Render(m.theme.InfoStyle.Render(m.flash))
	}
	return m.statusBar.View()
}

// =============================================================================
// HELP SCREEN
// =============================================================================

// renderHelp renders the full-screen help overlay, grouped by category.
func (m Model) renderHelp() string {
	title := m.theme.HeaderTitle.Render("Keyboard & Commands")

	grouped := GetHelpItemsByCategory()
	var sections []string
	sections = append(sections, title, "")

	for _, category := range GetCategoryOrder() {
		items := grouped[category]
		if len(items) == 0 {
			continue
		}

		sections = append(sections, m.theme.WelcomeInfo.Bold(true).Render(category))
		for _, item := range items {
			key := m.theme.ShortcutKey.Width(18).Render(item.Key)
			desc := m.theme.ShortcutDesc.Render(item.Description)
			sections = append(sections, "  "+key+desc)
		}
		sections = append(sections, "")
	}

	sections = append(sections, m.theme.WelcomePressKey.Render("Press Esc to close"))

	content := strings.Join(sections, "\n")
	box := m.theme.WelcomeBox.Render(content)

	if lipgloss.Height(box) > m.height {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
