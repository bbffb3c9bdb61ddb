// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the client for communicating with the Google
// Gemini API and the remote-backed chat sessions built on top of it.
package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Gemini client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota

	// ErrTypeSessionCreation covers failures to establish a new chat
	// session: missing API key, client construction failure, or a rejected
	// session request.
	ErrTypeSessionCreation

	// ErrTypeSessionInvalid means the remote rejected the session itself
	// (expired or garbage-collected server side). The session that produced
	// this error is dead and must not be reused.
	ErrTypeSessionInvalid

	// ErrTypeStream covers failures during an in-flight reply stream:
	// connection drops, timeouts, and malformed responses.
	ErrTypeStream
)

// Sentinel errors for easy checking.
var (
	ErrNoAPIKey       = &ClientError{Type: ErrTypeSessionCreation, Message: "no API key configured (set GEMINI_API_KEY)"}
	ErrSessionInvalid = &ClientError{Type: ErrTypeSessionInvalid, Message: "chat session is no longer valid"}
	ErrEmptyReply     = &ClientError{Type: ErrTypeStream, Message: "stream ended with no reply content"}
)

// IsSessionInvalid reports whether err indicates a dead session that must
// be dropped and recreated.
func IsSessionInvalid(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeSessionInvalid
	}
	return false
}

// IsSessionCreationFailure reports whether err came from session setup
// rather than from an in-flight stream.
func IsSessionCreationFailure(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeSessionCreation
	}
	return false
}

// IsStreamFailure reports whether err came from an in-flight reply stream.
func IsStreamFailure(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeStream
	}
	return false
}

// ClassifyError maps a raw SDK or transport error onto the client error
// taxonomy. Already-classified errors pass through unchanged.
//
// The remote signals a dead session with an INVALID_ARGUMENT / NOT_FOUND
// style message naming the cached content or session entity; everything
// else observed mid-stream is a stream failure.
func ClassifyError(err error) *ClientError {
	if err == nil {
		return nil
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}

	if isInvalidSessionError(err) {
		return &ClientError{
			Type:    ErrTypeSessionInvalid,
			Message: "chat session is no longer valid",
			Cause:   err,
		}
	}

	return &ClientError{
		Type:    ErrTypeStream,
		Message: "reply stream failed",
		Cause:   err,
	}
}

// isInvalidSessionError sniffs the remote "invalid entity" signature.
func isInvalidSessionError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 404 {
			return true
		}
		msg := strings.ToLower(apiErr.Message)
		if strings.Contains(msg, "session") &&
			(strings.Contains(msg, "invalid") || strings.Contains(msg, "expired") || strings.Contains(msg, "not found")) {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid session") ||
		strings.Contains(msg, "session expired") ||
		strings.Contains(msg, "session not found")
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Gemini client.
type ClientConfig struct {
	// APIKey authenticates against the Gemini API.
	APIKey string

	// Model is the model identifier for new sessions (default: "gemini-2.0-flash").
	Model string

	// SystemPrompt is the persona bound to every session this client creates.
	SystemPrompt string

	// Greeting is the canned opener sessions surface before the first turn.
	Greeting string

	// Temperature for reply sampling (default: 0.7).
	Temperature float32

	// StreamTimeout bounds a single reply stream end to end (default: 2m).
	StreamTimeout time.Duration
}

// DefaultConfig returns the default client configuration with the mentor
// persona bound in.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Model:         DefaultModel,
		SystemPrompt:  MentorSystemPrompt,
		Greeting:      MentorGreeting,
		Temperature:   0.7,
		StreamTimeout: 2 * time.Minute,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client manages the Gemini SDK connection and mints chat sessions.
//
// The underlying SDK client is created lazily on first use so that
// constructing a Client never touches the network.
//
// Example:
//
//	client := gemini.NewClientWithConfig(&gemini.ClientConfig{APIKey: key})
//	session, err := client.CreateSession(ctx)
//	if err != nil {
//	    // ErrTypeSessionCreation
//	}
//	reply, err := session.SendMessage(ctx, "How do I price my first project?", onFragment)
type Client struct {
	config *ClientConfig
	genai  *genai.Client
}

// NewClient creates a new Gemini client with default configuration.
// The API key is read from GEMINI_API_KEY when the config carries none.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new Gemini client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.SystemPrompt == "" {
		config.SystemPrompt = MentorSystemPrompt
	}
	if config.Greeting == "" {
		config.Greeting = MentorGreeting
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.StreamTimeout == 0 {
		config.StreamTimeout = 2 * time.Minute
	}

	return &Client{config: config}
}

// Config returns the client configuration (read-only by convention).
func (c *Client) Config() *ClientConfig {
	return c.config
}

// ensureGenai lazily constructs the SDK client.
func (c *Client) ensureGenai(ctx context.Context) error {
	if c.genai != nil {
		return nil
	}
	if c.config.APIKey == "" {
		return ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: c.config.APIKey,
	})
	if err != nil {
		return &ClientError{
			Type:    ErrTypeSessionCreation,
			Message: "failed to create Gemini client",
			Cause:   err,
		}
	}

	c.genai = client
	return nil
}
