// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the input submission pipeline: trim, slash-command
// dispatch, busy gating, and turn start.
package chat

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mentor-tui/internal/ui/components"
)

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submitInput handles Enter in the input field. Slash commands are
// dispatched locally; everything else becomes a turn. Blank input and
// submits while a turn is in flight are silently ignored, exactly like
// pressing Enter on an empty prompt.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		return m.handleCommand(text)
	}

	if m.ctrl.Busy() {
		return m, nil
	}

	trimmed, ok := m.ctrl.Submit(text)
	if !ok {
		return m, nil
	}

	m.input.Reset()
	m.state = stateStreaming
	m.streamStart = time.Now()
	m.buffer.Reset()
	m.statusBar.SetStatus(components.StatusSending)

	m.optimizer.ForceUpdate()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.startStreamCmd(trimmed),
		m.spinner.Start(),
		streamTickCmd(),
	)
}
