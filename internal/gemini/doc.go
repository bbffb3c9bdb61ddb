// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the client for communicating with the Google
// Gemini API and the chat sessions built on top of it.
//
// This package is the application's only remote dependency. It wraps the
// official SDK behind a small surface: a lazily-initialized Client that
// mints Sessions bound to the fixed mentor persona, and a streaming
// SendMessage that delivers reply fragments through a callback.
//
// # Key Types
//
//   - Client: SDK wrapper with lazy initialization and error taxonomy
//   - Session: remote-backed chat session (single-owner, no reuse after
//     a session-invalid error)
//   - ClientError: typed error with ErrorType for turn-boundary handling
//   - StreamAccumulator: fragment collector with timing statistics
//
// # Usage
//
// Create a session and stream one turn:
//
//	client := gemini.NewClientWithConfig(&gemini.ClientConfig{APIKey: key})
//	session, err := client.CreateSession(ctx)
//	if err != nil {
//	    // session-creation failure: no session exists
//	}
//	reply, err := session.SendMessage(ctx, text, func(fragment string) {
//	    // fragments arrive in order
//	})
//
// # Error Handling
//
// Every error surfaced by this package is a *ClientError carrying one of
// three types: ErrTypeSessionCreation, ErrTypeSessionInvalid, or
// ErrTypeStream. ClassifyError maps raw SDK errors onto the taxonomy;
// IsSessionInvalid and friends check classified errors. A session that
// produced a session-invalid error is dead and must be dropped.
package gemini
