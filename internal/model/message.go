// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mentor-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message. The transcript carries exactly
// two roles; error notices are assistant messages flagged with IsError.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Mentor"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// IsError marks assistant messages that report a failed turn rather
	// than mentor output (synthetic error notices, config errors).
	IsError bool `json:"is_error,omitempty"`

	// Streaming state
	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"` // Content being streamed, merged into Content when done

	// Stream metrics (for assistant messages)
	TTFF          time.Duration `json:"ttff_ns,omitempty"`           // Time to first fragment
	TotalDuration time.Duration `json:"total_duration_ns,omitempty"` // Total generation time
	Fragments     int           `json:"fragments,omitempty"`         // Fragment count
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message in streaming state.
// Content arrives through AppendFragment until FinalizeStream.
func NewAssistantMessage() *Message {
	return &Message{
		ID:          generateID(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// NewErrorMessage creates a finalized assistant message carrying an error
// notice instead of mentor output.
func NewErrorMessage(content string) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.IsError = true
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendFragment appends a reply fragment to a streaming message.
func (m *Message) AppendFragment(fragment string) {
	if m.IsStreaming {
		m.streamContent.WriteString(fragment)
	}
}

// FinalizeStream completes streaming, merging buffered fragments into
// Content. Safe to call on an already-final message.
func (m *Message) FinalizeStream() {
	if !m.IsStreaming {
		return
	}

	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false
}

// Clone returns an independent copy of the message. A streaming message
// is cloned with the fragments received so far; the copy shares no state
// with the original, so it stays readable while the original keeps
// streaming.
func (m *Message) Clone() *Message {
	clone := &Message{
		ID:            m.ID,
		Role:          m.Role,
		Timestamp:     m.Timestamp,
		Content:       m.Content,
		IsError:       m.IsError,
		IsStreaming:   m.IsStreaming,
		TTFF:          m.TTFF,
		TotalDuration: m.TotalDuration,
		Fragments:     m.Fragments,
	}
	if m.IsStreaming {
		clone.streamContent.WriteString(m.streamContent.String())
	}
	return clone
}

// SetStreamMetrics records timing info from a completed stream.
func (m *Message) SetStreamMetrics(ttff, total time.Duration, fragments int) {
	m.TTFF = ttff
	m.TotalDuration = total
	m.Fragments = fragments
}

// GetDisplayContent returns the content to display (streaming or final).
func (m *Message) GetDisplayContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	return util.TruncateRunes(m.GetDisplayContent(), maxLen)
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// FormatStats returns a formatted string of message statistics.
func (m *Message) FormatStats() string {
	if m.Role != RoleAssistant || m.TotalDuration == 0 {
		return ""
	}

	// Format: "2.5s | 42 fragments | TTFF 234ms"
	totalSec := m.TotalDuration.Seconds()
	ttffMs := m.TTFF.Milliseconds()

	return formatDuration(totalSec) + " | " +
		formatInt(m.Fragments) + " fragments | " +
		"TTFF " + formatInt(int(ttffMs)) + "ms"
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}

// formatInt formats an integer without using fmt.
// Handles negative numbers and zero correctly.
func formatInt(n int) string {
	if n == 0 {
		return "0"
	}

	// Handle math.MinInt64 edge case to prevent overflow on negation
	if n == -9223372036854775808 {
		return "-9223372036854775808"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// formatFloat64 formats a float with one decimal place.
// NOTE: This is a simplified formatter that truncates (does not round).
func formatFloat64(f float64) string {
	if f != f { // NaN check
		return "NaN"
	}
	if f > 9223372036854775807 {
		return "Inf"
	}
	if f < -9223372036854775808 {
		return "-Inf"
	}

	whole := int(f)

	absF := f
	if f < 0 {
		absF = -f
	}
	absWhole := whole
	if whole < 0 {
		absWhole = -whole
	}
	frac := int((absF - float64(absWhole)) * 10)

	return formatInt(whole) + "." + formatInt(frac)
}

// formatDuration formats seconds as a nice duration string.
func formatDuration(seconds float64) string {
	if seconds < 1 {
		ms := int(seconds * 1000)
		return formatInt(ms) + "ms"
	}
	return formatFloat64(seconds) + "s"
}
