// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements the command handler registry: every "/" command
// the chat input recognizes, with one small handler per command.
package chat

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command. It receives the model and the
// arguments after the command name, and returns the updated model plus an
// optional command.
type CommandHandler func(m *Model, args []string) (tea.Model, tea.Cmd)

// commandHandlers maps command names (and their short aliases) to
// handlers.
var commandHandlers = map[string]CommandHandler{
	"help": handleHelpCommand,
	"h":    handleHelpCommand,
	"?":    handleHelpCommand,

	"new": handleNewCommand,
	"n":   handleNewCommand,

	"clear": handleClearCommand,
	"c":     handleClearCommand,

	"export": handleExportCommand,
	"e":      handleExportCommand,

	"history": handleHistoryCommand,
	"hist":    handleHistoryCommand,

	"copy": handleCopyCommand,

	"quit": handleQuitCommand,
	"q":    handleQuitCommand,
	"exit": handleQuitCommand,
}

// handleCommand dispatches a "/" command line to its handler. Unknown
// commands flash a hint instead of entering the transcript.
func (m Model) handleCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return m, nil
	}

	name := strings.ToLower(fields[0])
	args := fields[1:]

	handler, ok := commandHandlers[name]
	if !ok {
		return m, m.setFlash("Unknown command /" + name + " (try /help)")
	}
	return handler(&m, args)
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelpCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	m.showHelp = true
	return *m, nil
}

func handleQuitCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	if m.state == stateStreaming {
		m.cancel()
	}
	m.quitting = true
	return *m, tea.Quit
}

func handleNewCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	updated, cmd := m.startNewConversation()
	if cmd == nil {
		return updated, m.setFlash("Finish the current turn first")
	}
	return updated, cmd
}

func handleClearCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	updated, _ := m.clearTranscript()
	return updated, nil
}

func handleExportCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if m.ctrl.Snapshot().IsEmpty() {
		return *m, m.setFlash("Nothing to export yet")
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return *m, m.exportConversationCmd(path)
}

func handleHistoryCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	n := 10
	if len(args) > 0 {
		if parsed, err := strconv.Atoi(args[0]); err == nil && parsed > 0 {
			n = parsed
		}
	}

	summary := formatHistory(m.ctrl.Snapshot(), n)
	if err := copyToClipboard(summary); err != nil {
		return *m, m.setFlash("History summary: clipboard unavailable")
	}
	return *m, m.setFlash("History summary copied to clipboard")
}

func handleCopyCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	return m.copyLastReply()
}
