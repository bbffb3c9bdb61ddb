// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// =============================================================================
// SESSION
// =============================================================================

// FragmentCallback is invoked for each reply fragment as it arrives.
// Fragments arrive in order; concatenating them yields the full reply.
type FragmentCallback func(fragment string)

// Session is a remote-backed chat session bound to the mentor persona.
//
// A Session is single-conversation and single-owner: it is not safe for
// concurrent SendMessage calls, matching the one-turn-at-a-time model of
// the conversation controller. A session that returned a session-invalid
// error is dead; drop the reference and create a new one.
type Session struct {
	ID      string
	Created time.Time

	chat   *genai.Chat
	config *ClientConfig
}

// CreateSession establishes a new chat session with the persona bound as
// the system instruction. Failures are classified as session-creation
// errors.
func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	if err := c.ensureGenai(ctx); err != nil {
		return nil, err
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(c.config.Temperature),
		SystemInstruction: genai.NewContentFromText(c.config.SystemPrompt, genai.RoleUser),
	}

	chat, err := c.genai.Chats.Create(ctx, c.config.Model, genConfig, nil)
	if err != nil {
		return nil, &ClientError{
			Type:    ErrTypeSessionCreation,
			Message: "failed to create chat session",
			Cause:   err,
		}
	}

	return &Session{
		ID:      "sess_" + uuid.NewString(),
		Created: time.Now(),
		chat:    chat,
		config:  c.config,
	}, nil
}

// Greeting returns the canned opener for a fresh conversation.
func (c *Client) Greeting() string {
	return c.config.Greeting
}

// SendMessage sends one user turn and streams the reply. onFragment is
// invoked for each fragment in arrival order; the full accumulated reply
// is returned once the stream ends.
//
// There are no internal retries: any failure surfaces to the caller
// classified through the client error taxonomy, and a session-invalid
// failure means this session must not be used again.
func (s *Session) SendMessage(ctx context.Context, text string, onFragment FragmentCallback) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.StreamTimeout)
	defer cancel()

	acc := NewStreamAccumulator()

	for resp, err := range s.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
		if err != nil {
			// Keep nothing from a failed turn here; the caller decides what
			// to do with partial content it already received via onFragment.
			return acc.Content(), ClassifyError(err)
		}

		fragment := extractText(resp)
		if fragment == "" {
			continue
		}

		acc.Append(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}

	if acc.Empty() {
		return "", ErrEmptyReply
	}
	return acc.Content(), nil
}

// extractText pulls the visible text out of one streamed response chunk.
// Thought parts are model-internal reasoning and are skipped.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var text string
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		text += part.Text
	}
	return text
}
