// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller owns the conversation lifecycle: the transcript, the
// turn state machine, and the chat session behind it.
package controller

import (
	"strings"

	"github.com/jeranaias/mentor-tui/internal/gemini"
	"github.com/jeranaias/mentor-tui/internal/model"
)

// =============================================================================
// TURN STATE
// =============================================================================

// State is the turn state of a conversation.
//
// Transitions:
//
//	Idle --UserSubmitted--> Sending
//	Sending --FragmentReceived--> Streaming
//	Sending|Streaming --StreamEnded--> Idle
//	Sending|Streaming --StreamFailed--> Failed (transient) --> Idle
//
// Failed exists only inside the StreamFailed transition: the failure is
// written into the transcript and the state lands back on Idle, so the
// next submit needs no special casing.
type State int

const (
	// StateIdle means no turn is in flight; submit is accepted.
	StateIdle State = iota

	// StateSending means a turn was submitted but no fragment arrived yet.
	StateSending

	// StateStreaming means reply fragments are arriving.
	StateStreaming
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is one conversation event. The transcript only changes by applying
// events through the reducer, which keeps every transition in one place.
type Event interface {
	isEvent()
}

// UserSubmitted carries one submitted user turn.
type UserSubmitted struct {
	Text string
}

// FragmentReceived carries one reply fragment, in arrival order.
type FragmentReceived struct {
	Chunk string
}

// StreamEnded marks the normal end of a reply stream.
type StreamEnded struct{}

// StreamFailed marks an aborted turn, classified by error kind.
type StreamFailed struct {
	Kind gemini.ErrorType
	Err  error
}

func (UserSubmitted) isEvent()    {}
func (FragmentReceived) isEvent() {}
func (StreamEnded) isEvent()      {}
func (StreamFailed) isEvent()     {}

// =============================================================================
// REDUCER
// =============================================================================

// Synthetic assistant notices appended at the turn boundary when a turn
// yields no reply content.
const (
	noticeSessionLost = "Our session was interrupted, so I couldn't answer that. Please send your message again."
	noticeStreamLost  = "I ran into a problem answering that. Please try again."
	noticeEmptyReply  = "I didn't manage to produce an answer to that. Please try rephrasing."
)

// Apply advances the transcript and turn state by one event. It is the
// single place where events alter the transcript. The returned state is
// the turn state after the event; transcript mutation happens in place on
// the conversation, matching how the rest of the codebase treats it.
//
// Invariant maintained here: at most one streaming message exists and it
// is always the transcript tail.
func Apply(conv *model.Conversation, state State, ev Event) State {
	switch ev := ev.(type) {
	case UserSubmitted:
		if state != StateIdle {
			return state
		}
		text := strings.TrimSpace(ev.Text)
		if text == "" {
			return state
		}
		conv.AddUserMessage(text)
		conv.AddAssistantMessage()
		return StateSending

	case FragmentReceived:
		if state != StateSending && state != StateStreaming {
			return state
		}
		conv.AppendToLast(ev.Chunk)
		return StateStreaming

	case StreamEnded:
		if state != StateSending && state != StateStreaming {
			return state
		}
		if conv.DropEmptyTail() {
			// Stream ended without any content; the turn still gets an answer.
			conv.AddErrorMessage(noticeEmptyReply)
		} else {
			conv.FinalizeLast()
		}
		return StateIdle

	case StreamFailed:
		if state != StateSending && state != StateStreaming {
			return state
		}
		if conv.DropEmptyTail() {
			conv.AddErrorMessage(failureNotice(ev.Kind, ev.Err))
		} else {
			// Partial content survives the failure; keep what arrived.
			conv.FinalizeLast()
		}
		return StateIdle

	default:
		return state
	}
}

// failureNotice picks the synthetic notice for a failure kind.
func failureNotice(kind gemini.ErrorType, err error) string {
	switch kind {
	case gemini.ErrTypeSessionInvalid:
		return noticeSessionLost
	case gemini.ErrTypeSessionCreation:
		return gemini.ConfigErrorMessage(err)
	default:
		return noticeStreamLost
	}
}
