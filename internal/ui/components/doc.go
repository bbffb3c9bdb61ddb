// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the mentor TUI.

This package contains a collection of styled components built on top of
the Bubble Tea and Lip Gloss libraries. Each component is designed to be
visually polished and consistent with the mentor design language.

# Core Components

## Display Components

Header (header.go) - Application header with branding and the active model.
StatusBar (statusbar.go) - Bottom status bar with connection state, turn
status, message count, and shortcuts.
MessageBubble (message.go) - Styled bubbles for user messages, mentor
replies (with markdown rendering and a streaming cursor), and error
notices.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma,
for plain-terminal rendering outside the TUI.

## Progress and Feedback

Spinner (spinner.go) - Animated thinking spinner with an elapsed timer.
ErrorDisplay (error.go) - Error overlay with actionable suggestions.

## Screens

Welcome (welcome.go) - First-run welcome screen with quick-start tips.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	header := components.NewHeader(theme)
	header.SetWidth(80)
	header.SetModel("gemini-2.0-flash")
	view := header.View()

# Bubble Tea Integration

Stateful components implement the Bubble Tea model shape:

	type Component interface {
		Init() tea.Cmd
		Update(tea.Msg) (Component, tea.Cmd)
		View() string
	}

# Helper Functions

The package includes shared helper functions in helpers.go:
  - toStr() - Integer to string conversion without fmt
  - fmtNumber() - Thousands-separated counts for the status bar
  - fmtPercent() - Percentage formatting
*/
package components
