// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("How do I price my first project?")

	if msg.Role != RoleUser {
		t.Errorf("Expected user role, got %s", msg.Role)
	}
	if msg.Content != "How do I price my first project?" {
		t.Errorf("Unexpected content: %q", msg.Content)
	}
	if msg.IsStreaming {
		t.Error("User messages should never be streaming")
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("Message ID should have msg_ prefix, got %q", msg.ID)
	}
}

func TestNewAssistantMessageStreams(t *testing.T) {
	msg := NewAssistantMessage()

	if msg.Role != RoleAssistant {
		t.Errorf("Expected assistant role, got %s", msg.Role)
	}
	if !msg.IsStreaming {
		t.Error("New assistant message should start streaming")
	}
	if !msg.IsEmpty() {
		t.Error("New assistant message should be empty")
	}
}

func TestMessageAppendAndFinalize(t *testing.T) {
	msg := NewAssistantMessage()

	msg.AppendFragment("Start with ")
	msg.AppendFragment("a day rate.")

	if msg.GetDisplayContent() != "Start with a day rate." {
		t.Errorf("Streaming display content wrong: %q", msg.GetDisplayContent())
	}
	if msg.Content != "" {
		t.Error("Content should stay empty until finalized")
	}

	msg.FinalizeStream()

	if msg.IsStreaming {
		t.Error("Message should not be streaming after finalize")
	}
	if msg.Content != "Start with a day rate." {
		t.Errorf("Finalized content wrong: %q", msg.Content)
	}

	// Finalize is idempotent
	msg.FinalizeStream()
	if msg.Content != "Start with a day rate." {
		t.Error("Second finalize should not change content")
	}
}

func TestAppendFragmentIgnoredWhenFinal(t *testing.T) {
	msg := NewMessage(RoleAssistant, "done")

	msg.AppendFragment("extra")

	if msg.GetDisplayContent() != "done" {
		t.Error("Fragments must not be appended to a finalized message")
	}
}

func TestNewErrorMessage(t *testing.T) {
	msg := NewErrorMessage("Something went wrong. Please try again.")

	if msg.Role != RoleAssistant {
		t.Error("Error notices are assistant messages")
	}
	if !msg.IsError {
		t.Error("Error notice should be flagged")
	}
	if msg.IsStreaming {
		t.Error("Error notices are final from the start")
	}
}

func TestMessagePreviewUnicode(t *testing.T) {
	msg := NewUserMessage(strings.Repeat("世", 60))

	preview := msg.Preview(10)
	runes := []rune(preview)
	if len(runes) != 10 {
		t.Errorf("Preview should be 10 runes (7 + ellipsis), got %d", len(runes))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Error("Truncated preview should end with ellipsis")
	}
}

func TestRoleDisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Errorf("User display name wrong: %s", RoleUser.DisplayName())
	}
	if RoleAssistant.DisplayName() != "Mentor" {
		t.Errorf("Assistant display name wrong: %s", RoleAssistant.DisplayName())
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation(t *testing.T) {
	conv := NewConversation()

	if !conv.IsEmpty() {
		t.Error("New conversation should be empty")
	}
	if !strings.HasPrefix(conv.ID, "conv_") {
		t.Errorf("Conversation ID should have conv_ prefix, got %q", conv.ID)
	}
}

func TestConversationOrdering(t *testing.T) {
	conv := NewConversation()

	conv.AddAssistantText("greeting")
	conv.AddUserMessage("question")
	conv.AddAssistantMessage()

	if conv.MessageCount() != 3 {
		t.Fatalf("Expected 3 messages, got %d", conv.MessageCount())
	}
	roles := []Role{RoleAssistant, RoleUser, RoleAssistant}
	for i, want := range roles {
		if conv.Messages[i].Role != want {
			t.Errorf("Message %d: expected role %s, got %s", i, want, conv.Messages[i].Role)
		}
	}
}

func TestStreamingTailInvariant(t *testing.T) {
	conv := NewConversation()

	if conv.StreamingTail() != nil {
		t.Error("Empty conversation has no streaming tail")
	}

	conv.AddUserMessage("question")
	if conv.StreamingTail() != nil {
		t.Error("User message is not a streaming tail")
	}

	reply := conv.AddAssistantMessage()
	if conv.StreamingTail() != reply {
		t.Error("New assistant message should be the streaming tail")
	}

	conv.FinalizeLast()
	if conv.StreamingTail() != nil {
		t.Error("No streaming tail after finalize")
	}
}

func TestAppendToLastRoutesFragments(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.AddAssistantMessage()

	conv.AppendToLast("part one, ")
	conv.AppendToLast("part two")
	conv.FinalizeLast()

	last := conv.GetLastMessage()
	if last.Content != "part one, part two" {
		t.Errorf("Fragments not accumulated in order: %q", last.Content)
	}
}

func TestAppendToLastNoOpWithoutTail(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")

	conv.AppendToLast("stray fragment")

	if conv.GetLastMessage().Content != "question" {
		t.Error("Fragments must not land on non-streaming messages")
	}
}

func TestDropEmptyTail(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.AddAssistantMessage()

	if !conv.DropEmptyTail() {
		t.Error("Empty streaming tail should be dropped")
	}
	if conv.MessageCount() != 1 {
		t.Errorf("Expected 1 message after drop, got %d", conv.MessageCount())
	}
}

func TestDropEmptyTailKeepsPartialContent(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.AddAssistantMessage()
	conv.AppendToLast("partial reply")

	if conv.DropEmptyTail() {
		t.Error("Tail with content must not be dropped")
	}
	if conv.MessageCount() != 2 {
		t.Errorf("Expected 2 messages, got %d", conv.MessageCount())
	}
}

func TestClearHistory(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.AddAssistantText("answer")

	conv.ClearHistory()

	if !conv.IsEmpty() {
		t.Error("ClearHistory should remove all messages")
	}
	if conv.Title != "" {
		t.Error("ClearHistory should reset the auto title")
	}
}

func TestConversationTitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	conv.AddAssistantText("greeting")

	if conv.GetTitle() != "New Conversation" {
		t.Error("Greeting alone should not set a title")
	}

	conv.AddUserMessage("How do I price my first project?")
	if conv.GetTitle() != "How do I price my first project?" {
		t.Errorf("Title should come from first user message, got %q", conv.GetTitle())
	}
}

func TestPruneOldMessages(t *testing.T) {
	conv := NewConversation()

	for i := 0; i < MaxMessages+50; i++ {
		conv.AddUserMessage("message")
	}

	if conv.MessageCount() != MaxMessages {
		t.Errorf("Expected %d messages after pruning, got %d", MaxMessages, conv.MessageCount())
	}
}

// =============================================================================
// MODEL REGISTRY TESTS
// =============================================================================

func TestModels_Registry(t *testing.T) {
	essentialModels := []string{"gemini-2.0-flash", "gemini-2.5-flash", "gemini-2.5-pro"}

	for _, id := range essentialModels {
		if _, ok := Models[id]; !ok {
			t.Errorf("Essential model %q missing from registry", id)
		}
	}
}

func TestModels_HaveRequiredFields(t *testing.T) {
	for id, model := range Models {
		t.Run(id, func(t *testing.T) {
			if model.ID == "" {
				t.Error("Model.ID should not be empty")
			}
			if model.Name == "" {
				t.Error("Model.Name should not be empty")
			}
			if model.MaxTokens <= 0 {
				t.Error("Model.MaxTokens should be positive")
			}
		})
	}
}

// =============================================================================
// LOOKUP TESTS
// =============================================================================

func TestGetModelInfo(t *testing.T) {
	// Test existing model by ID
	model, ok := GetModelInfo("gemini-2.5-flash")
	if !ok {
		t.Error("GetModelInfo(gemini-2.5-flash) should return true")
	}
	if model.Name != "Gemini 2.5 Flash" {
		t.Errorf("GetModelInfo(gemini-2.5-flash).Name = %q", model.Name)
	}

	// Versioned IDs resolve to the family entry
	model, ok = GetModelInfo("gemini-2.5-flash-preview-05-20")
	if !ok {
		t.Error("GetModelInfo should resolve versioned IDs to the family")
	}
	if model.ID != "gemini-2.5-flash-preview-05-20" {
		t.Errorf("Resolved entry should keep the full ID, got %q", model.ID)
	}

	// Test non-existent model
	_, ok = GetModelInfo("nonexistent-model")
	if ok {
		t.Error("GetModelInfo(nonexistent-model) should return false")
	}
}

func TestGetModelsByTier(t *testing.T) {
	fastModels := GetModelsByTier("Fast")
	if len(fastModels) == 0 {
		t.Error("Should have Fast tier models")
	}
	for _, m := range fastModels {
		if m.Tier != "Fast" {
			t.Errorf("GetModelsByTier(Fast) returned %s tier model", m.Tier)
		}
	}
}

func TestModelShortNames(t *testing.T) {
	names := ModelShortNames()
	if len(names) != len(Models) {
		t.Errorf("Expected %d short names, got %d", len(Models), len(names))
	}
}

// =============================================================================
// CLONE TESTS
// =============================================================================

func TestMessageCloneCopiesStreamingContent(t *testing.T) {
	msg := NewAssistantMessage()
	msg.AppendFragment("partial ")

	clone := msg.Clone()
	if clone.GetDisplayContent() != "partial " {
		t.Errorf("Clone should carry the fragments received so far, got %q", clone.GetDisplayContent())
	}
	if !clone.IsStreaming {
		t.Error("Clone of a streaming message should still be streaming")
	}

	// The original keeps streaming; the clone must not see it.
	msg.AppendFragment("more")
	if clone.GetDisplayContent() != "partial " {
		t.Errorf("Clone should be isolated from later fragments, got %q", clone.GetDisplayContent())
	}
}

func TestConversationCloneIsDeep(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.AddAssistantMessage()
	conv.AppendToLast("reply in prog")

	clone := conv.Clone()
	if clone.MessageCount() != 2 {
		t.Errorf("Clone should carry both messages, got %d", clone.MessageCount())
	}
	if clone.GetLastMessage() == conv.GetLastMessage() {
		t.Error("Clone must not share message pointers with the original")
	}

	conv.AppendToLast("ress")
	conv.FinalizeLast()

	last := clone.GetLastMessage()
	if last.GetDisplayContent() != "reply in prog" {
		t.Errorf("Clone should hold the content at clone time, got %q", last.GetDisplayContent())
	}
	if !last.IsStreaming {
		t.Error("Clone should keep the streaming state at clone time")
	}
}
