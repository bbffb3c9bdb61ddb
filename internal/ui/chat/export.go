// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file exports the conversation transcript to a markdown file.
package chat

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mentor-tui/internal/model"
	"github.com/jeranaias/mentor-tui/internal/util"
)

// =============================================================================
// EXPORT
// =============================================================================

// exportConversationCmd writes the transcript to path (or a timestamped
// default) off the event loop. The in-progress tail, if any, is exported
// with whatever content it has so far.
func (m *Model) exportConversationCmd(path string) tea.Cmd {
	conv := m.ctrl.Snapshot()
	if path == "" {
		path = defaultExportPath()
	}

	return func() tea.Msg {
		data := renderTranscriptMarkdown(conv)
		err := util.AtomicWriteFileWithDir(path, data, 0o644, 0o755)
		return ConversationExportedMsg{Path: path, Error: err}
	}
}

// handleExportComplete reports the export outcome in the status line.
func (m Model) handleExportComplete(msg ConversationExportedMsg) (tea.Model, tea.Cmd) {
	if msg.Error != nil {
		return m, m.setFlash("Export failed: " + msg.Error.Error())
	}
	return m, m.setFlash("Exported to " + msg.Path)
}

// defaultExportPath builds a timestamped filename in the working
// directory.
func defaultExportPath() string {
	name := "mentor-" + time.Now().Format("20060102-150405") + ".md"
	return filepath.Join(".", name)
}

// renderTranscriptMarkdown renders the conversation as a markdown
// document: a title, then one section per message.
func renderTranscriptMarkdown(conv *model.Conversation) []byte {
	var b strings.Builder

	title := conv.GetTitle()
	if title == "" {
		title = "Mentor conversation"
	}
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString("Exported ")
	b.WriteString(time.Now().Format("2006-01-02 15:04"))
	b.WriteString("\n\n---\n\n")

	for _, msg := range conv.GetHistory() {
		label := msg.Role.DisplayName()
		if msg.IsError {
			label = "Notice"
		}

		b.WriteString("## ")
		b.WriteString(label)
		b.WriteString(" (")
		b.WriteString(msg.Timestamp.Format("15:04:05"))
		b.WriteString(")\n\n")
		b.WriteString(msg.GetDisplayContent())
		b.WriteString("\n\n")
	}

	return []byte(b.String())
}
