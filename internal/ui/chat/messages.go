// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat interface.
// Messages are organized into the following categories:
//   - Streaming: Stream start, fragment delivery, completion, and errors
//   - Input: User input submission and cancellation
//   - Viewport: Scrolling and navigation
//   - Conversation: New, clear, and export
//   - UI State: Resize, focus, and blur events
//   - Thinking/Loading: Animation and progress indicators
//   - Errors: Error display and dismissal
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"strings"
	"time"

	"github.com/jeranaias/mentor-tui/internal/gemini"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamRequestMsg requests the main model to start streaming a reply.
// This is sent from the chat model to the program root to initiate a turn.
type StreamRequestMsg struct {
	Text string
}

// StreamStartMsg signals that streaming has begun.
type StreamStartMsg struct {
	StartTime time.Time
}

// StreamFragmentMsg delivers a new text fragment from the stream.
type StreamFragmentMsg struct {
	Chunk   string
	IsFirst bool // True if this is the first fragment
}

// StreamCompleteMsg signals that streaming has finished.
type StreamCompleteMsg struct {
	Stats *gemini.StreamStats
	Error error
}

// StreamErrorMsg signals an error during streaming.
type StreamErrorMsg struct {
	Error error
}

// StreamTickMsg is sent at 30fps during streaming to batch render fragments.
// This prevents excessive rendering which causes flicker and high CPU.
type StreamTickMsg struct {
	Time time.Time
}

// NewStreamTickMsg creates a streaming tick message.
func NewStreamTickMsg() StreamTickMsg {
	return StreamTickMsg{Time: time.Now()}
}

// =============================================================================
// INPUT MESSAGES
// =============================================================================

// SubmitInputMsg signals that the user submitted input.
type SubmitInputMsg struct {
	Content string
}

// CancelInputMsg signals that the user cancelled input (Escape).
type CancelInputMsg struct{}

// ClearInputMsg signals that the input should be cleared.
type ClearInputMsg struct{}

// =============================================================================
// VIEWPORT MESSAGES
// =============================================================================

// ViewportScrollMsg requests a viewport scroll.
type ViewportScrollMsg struct {
	Direction int // -1 for up, +1 for down
	Amount    int // Number of lines
}

// ViewportScrollToBottomMsg scrolls to the bottom.
type ViewportScrollToBottomMsg struct{}

// ViewportScrollToTopMsg scrolls to the top.
type ViewportScrollToTopMsg struct{}

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

// NewConversationMsg starts a new conversation.
type NewConversationMsg struct{}

// ClearConversationMsg clears the current conversation.
type ClearConversationMsg struct{}

// ExportConversationMsg requests exporting the transcript to a file.
type ExportConversationMsg struct {
	Path string // Optional explicit path
}

// ConversationExportedMsg confirms an export operation.
type ConversationExportedMsg struct {
	Path  string
	Error error
}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// ResizeMsg signals a terminal resize.
type ResizeMsg struct {
	Width  int
	Height int
}

// FocusMsg sets focus to a component.
type FocusMsg struct {
	Component string // "input" or "viewport"
}

// BlurMsg removes focus from a component.
type BlurMsg struct {
	Component string
}

// =============================================================================
// THINKING/LOADING MESSAGES
// =============================================================================

// ThinkingStartMsg starts the thinking animation.
type ThinkingStartMsg struct {
	Message string // e.g., "Thinking"
}

// ThinkingStopMsg stops the thinking animation.
type ThinkingStopMsg struct{}

// SpinnerTickMsg advances the spinner animation.
type SpinnerTickMsg struct {
	Time time.Time
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// ErrorMsg displays an error to the user.
type ErrorMsg struct {
	Title       string
	Message     string
	Suggestions []string
	Dismissible bool
}

// ErrorDismissMsg dismisses the current error.
type ErrorDismissMsg struct{}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// NewStreamStartMsg creates a new StreamStartMsg with the current timestamp.
func NewStreamStartMsg() StreamStartMsg {
	return StreamStartMsg{
		StartTime: time.Now(),
	}
}

// NewStreamFragmentMsg creates a new StreamFragmentMsg for delivering
// streaming content. The isFirst flag indicates whether this is the first
// fragment in the stream.
func NewStreamFragmentMsg(chunk string, isFirst bool) StreamFragmentMsg {
	return StreamFragmentMsg{
		Chunk:   chunk,
		IsFirst: isFirst,
	}
}

// NewStreamCompleteMsg creates a new StreamCompleteMsg to signal stream
// completion. Includes optional statistics and error information.
func NewStreamCompleteMsg(stats *gemini.StreamStats, err error) StreamCompleteMsg {
	return StreamCompleteMsg{
		Stats: stats,
		Error: err,
	}
}

// NewErrorMsg creates a new dismissible error message.
// Use this for non-critical errors that users can dismiss.
func NewErrorMsg(title, message string) ErrorMsg {
	return ErrorMsg{
		Title:       title,
		Message:     message,
		Dismissible: true,
	}
}

// NewErrorMsgWithSuggestions creates an error message with actionable
// suggestions. Use this when you can provide helpful guidance for resolving
// the error.
func NewErrorMsgWithSuggestions(title, message string, suggestions []string) ErrorMsg {
	return ErrorMsg{
		Title:       title,
		Message:     message,
		Suggestions: suggestions,
		Dismissible: true,
	}
}

// SmartErrorMsg creates an error message with auto-detected suggestions.
// This analyzes the error message and automatically provides relevant
// suggestions based on common failure modes.
func SmartErrorMsg(title, message string) ErrorMsg {
	if suggestions := detectErrorSuggestions(message); suggestions != nil {
		return NewErrorMsgWithSuggestions(title, message, suggestions)
	}
	return NewErrorMsg(title, message)
}

// detectErrorSuggestions analyzes an error message and returns relevant
// suggestions.
func detectErrorSuggestions(errMsg string) []string {
	errLower := strings.ToLower(errMsg)

	// Missing or bad API key
	if strings.Contains(errLower, "api key") ||
		strings.Contains(errLower, "api_key") ||
		strings.Contains(errLower, "unauthorized") ||
		strings.Contains(errLower, "401") {
		return []string{
			"Set the GEMINI_API_KEY environment variable",
			"Or add the key to ~/.mentor/config.toml",
			"Get a key at https://aistudio.google.com/apikey",
		}
	}

	// Network/Connection errors
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "dial tcp") ||
		strings.Contains(errLower, "no such host") {
		return []string{
			"Check your network connection",
			"Verify you can reach generativelanguage.googleapis.com",
			"Try again in a moment",
		}
	}

	// Session invalid
	if strings.Contains(errLower, "session") &&
		(strings.Contains(errLower, "invalid") ||
			strings.Contains(errLower, "expired") ||
			strings.Contains(errLower, "not found")) {
		return []string{
			"Send your message again to start a fresh session",
			"Use /new to reset the conversation",
		}
	}

	// Timeout
	if strings.Contains(errLower, "timeout") || strings.Contains(errLower, "timed out") {
		return []string{
			"Try again",
			"Check your network connection",
			"Ask a shorter question",
		}
	}

	// Rate limit
	if strings.Contains(errLower, "rate limit") ||
		strings.Contains(errLower, "too many requests") ||
		strings.Contains(errLower, "429") {
		return []string{
			"Wait a moment and retry",
			"Check your API quota",
		}
	}

	// No suggestions found
	return nil
}
