// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines keyboard bindings and shortcuts for the chat interface,
// along with help text generation for the help overlay.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
// Each binding supports multiple keys and includes help text for documentation.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
	Clear     key.Binding
	NewChat   key.Binding
	CopyReply key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("Home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("End", "go to bottom"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send message"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel / dismiss"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("C-h", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear transcript"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new conversation"),
		),
		CopyReply: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy last reply"),
		),
	}
}

// ShortHelp returns the most important key bindings for the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewChat, k.Help, k.Quit}
}

// FullHelp returns all key bindings grouped by category for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Cancel, k.NewChat, k.Clear, k.CopyReply}, // conversation
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End}, // navigation
		{k.Help, k.Quit},                                 // application
	}
}

// =============================================================================
// HELP ITEMS
// =============================================================================

// HelpItem pairs a key combination with its description for display in the
// help overlay.
type HelpItem struct {
	Key         string
	Description string
	Category    string
}

// Help categories, in display order.
const (
	CategoryConversation = "Conversation"
	CategoryNavigation   = "Navigation"
	CategoryCommands     = "Commands"
	CategoryApplication  = "Application"
)

// GetHelpItems returns the full list of help items shown in the help overlay,
// including slash commands that have no key binding.
func GetHelpItems() []HelpItem {
	return []HelpItem{
		{Key: "Enter", Description: "Send message", Category: CategoryConversation},
		{Key: "Esc", Description: "Cancel streaming / dismiss overlay", Category: CategoryConversation},
		{Key: "Ctrl+N", Description: "Start a new conversation", Category: CategoryConversation},
		{Key: "Ctrl+L", Description: "Clear the transcript", Category: CategoryConversation},
		{Key: "Ctrl+Y", Description: "Copy the last mentor reply", Category: CategoryConversation},

		{Key: "Up/Down", Description: "Scroll one line", Category: CategoryNavigation},
		{Key: "PgUp/PgDn", Description: "Scroll one page", Category: CategoryNavigation},
		{Key: "Home/End", Description: "Jump to top / bottom", Category: CategoryNavigation},

		{Key: "/help", Description: "Show this help", Category: CategoryCommands},
		{Key: "/new", Description: "Start a new conversation", Category: CategoryCommands},
		{Key: "/clear", Description: "Clear the transcript", Category: CategoryCommands},
		{Key: "/export [path]", Description: "Export conversation to markdown", Category: CategoryCommands},
		{Key: "/quit", Description: "Exit", Category: CategoryCommands},

		{Key: "Ctrl+H", Description: "Toggle help overlay", Category: CategoryApplication},
		{Key: "Ctrl+C", Description: "Quit", Category: CategoryApplication},
	}
}

// GetCategoryOrder returns categories in the order the help overlay renders
// them.
func GetCategoryOrder() []string {
	return []string{
		CategoryConversation,
		CategoryNavigation,
		CategoryCommands,
		CategoryApplication,
	}
}

// GetHelpItemsByCategory returns help items grouped by category, keyed by
// category name.
func GetHelpItemsByCategory() map[string][]HelpItem {
	grouped := make(map[string][]HelpItem)
	for _, item := range GetHelpItems() {
		grouped[item.Category] = append(grouped[item.Category], item)
	}
	return grouped
}
