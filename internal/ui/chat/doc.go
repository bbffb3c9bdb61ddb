// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view component for the mentor TUI.

The chat package implements a complete terminal-based chat interface using
the Bubble Tea framework: an interactive, real-time mentoring conversation
backed by the Gemini API.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model that maintains all chat
state:
  - The conversation controller (transcript, turn state, session)
  - Input handling with slash-command dispatch
  - Viewport for transcript scrolling
  - Streaming state for real-time mentor replies

## View Rendering (view.go)

Rendering logic for the complete chat interface:
  - Header with model name and branding
  - Message bubbles with role-specific styling (user, mentor, notices)
  - Markdown rendering of completed mentor replies
  - Status line with connection state and keyboard shortcuts

## Streaming (streaming.go)

Optimized streaming implementation for smooth replies:
  - StreamingBuffer for batched fragment rendering
  - Flicker-free updates at capped frame rates
  - Thread-safe streaming state management

## Commands (commands.go)

Slash command handler registry supporting:
  - /help - Show keyboard shortcuts and commands
  - /new - Start a new conversation
  - /clear - Clear the transcript
  - /export - Export the conversation to markdown
  - /history - Copy a transcript summary to the clipboard
  - /quit - Exit

# Usage

Create a new chat model and run it as a Bubble Tea program:

	client, _ := gemini.NewClient(cfg)
	ctrl := controller.NewGemini(client)
	m := chat.New(ctrl, cfg.Gemini.Model, version)
	p := tea.NewProgram(m, tea.WithAltScreen())
	chat.SetProgram(p)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
