// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller owns the conversation lifecycle: the transcript, the
// turn state machine, and the chat session behind it.
//
// The transcript only changes by applying events (UserSubmitted,
// FragmentReceived, StreamEnded, StreamFailed) through the reducer in
// Apply, which keeps every transition auditable in one switch. The
// Controller wraps the reducer with session ownership: it creates the
// session on Init, drops it when the remote invalidates it, and
// transparently recreates it on the next submitted turn.
//
// # Turn Shape
//
// Event-loop callers (the TUI) split a turn into Submit, a goroutine
// running Stream, and Handle calls fed back through the loop. Blocking
// callers (the plain REPL, one-shot ask) use SendTurn, which runs the
// whole turn synchronously.
//
// The stream goroutine mutates the transcript through the reducer, so
// consumers that render while a turn may be in flight read through
// Snapshot, a deep copy taken under the controller lock. Conversation
// hands out the live transcript and is reserved for callers sequenced
// with turn execution.
//
// # Failure Policy
//
// All three failure kinds - session creation, session invalid, stream -
// are absorbed at the turn boundary: the transcript gains a synthetic
// assistant notice when the turn produced no content, partial content is
// kept and finalized, and the state always returns to Idle. Nothing
// retries; the user decides what happens next.
package controller
