// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the
// application for representing the chat transcript.
//
// # Key Types
//
//   - Conversation: ordered transcript with at most one streaming tail
//   - Message: single message with role, content, and streaming state
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
// Create a new conversation:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("How do I price my first project?")
//	reply := conv.AddAssistantMessage()
//	reply.AppendFragment("Start with a day rate...")
//	conv.FinalizeLast()
//
// Only the last message can be in streaming state; AppendToLast and
// FinalizeLast are no-ops when the tail is already final.
package model
