// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/mentor-tui/internal/gemini"
	"github.com/jeranaias/mentor-tui/internal/model"
)

// =============================================================================
// SESSION PORTS
// =============================================================================

// Session is the controller's view of one chat session: a single
// streaming send. A session that returned a session-invalid error is dead
// and must not be reused.
type Session interface {
	SendMessage(ctx context.Context, text string, onFragment gemini.FragmentCallback) (string, error)
}

// SessionClient mints sessions and owns the greeting text.
type SessionClient interface {
	CreateSession(ctx context.Context) (Session, error)
	Greeting() string
}

// geminiClient adapts *gemini.Client to the SessionClient port.
type geminiClient struct {
	client *gemini.Client
}

func (g geminiClient) CreateSession(ctx context.Context) (Session, error) {
	session, err := g.client.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (g geminiClient) Greeting() string {
	return g.client.Greeting()
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns one conversation: its transcript, its turn state, and
// the chat session behind it. The session is controller-owned and never
// shared; when it dies (session-invalid), the controller drops it and the
// next submitted turn transparently creates a fresh one.
//
// All exported methods are safe for concurrent use. The intended shape is
// one writer driving turns (the UI event loop or the REPL) with the
// streaming goroutine feeding fragments back through Handle.
type Controller struct {
	mu sync.Mutex

	client  SessionClient
	session Session

	conv  *model.Conversation
	state State

	// lastErr holds the error of the most recent failed turn, for status
	// display. Cleared on the next successful submit.
	lastErr error
}

// New creates a controller around the given session client with an empty
// transcript. Call Init to create the session and seed the greeting.
func New(client SessionClient) *Controller {
	return &Controller{
		client: client,
		conv:   model.NewConversation(),
		state:  StateIdle,
	}
}

// NewGemini creates a controller backed by the Gemini client.
func NewGemini(client *gemini.Client) *Controller {
	return New(geminiClient{client: client})
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Init creates the chat session and seeds the opening message: the mentor
// greeting on success, a configuration-error notice on failure. The
// conversation is usable either way; a failed Init just means the first
// submit will retry session creation.
func (c *Controller) Init(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.client.CreateSession(ctx)
	if err != nil {
		c.lastErr = err
		c.conv.AddErrorMessage(gemini.ConfigErrorMessage(err))
		return
	}

	c.session = session
	c.conv.AddAssistantText(c.client.Greeting())
}

// Reset discards the transcript and the session, then starts over as Init
// does. Refused while a turn is in flight.
func (c *Controller) Reset(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return false
	}

	c.conv.ClearHistory()
	c.session = nil
	c.lastErr = nil

	session, err := c.client.CreateSession(ctx)
	if err != nil {
		c.lastErr = err
		c.conv.AddErrorMessage(gemini.ConfigErrorMessage(err))
		return true
	}

	c.session = session
	c.conv.AddAssistantText(c.client.Greeting())
	return true
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Conversation returns the live transcript. Safe only for callers that
// are sequenced with turn execution (tests, the synchronous REPL between
// turns); anything that reads while a stream may be in flight uses
// Snapshot instead.
func (c *Controller) Conversation() *model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv
}

// Snapshot returns an independent deep copy of the transcript, taken
// under the controller lock. This is the read path for consumers running
// concurrently with a stream: the copy shares no state with the live
// conversation, including the streaming tail.
func (c *Controller) Snapshot() *model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.Clone()
}

// ClearTranscript drops the visible history while keeping the session
// alive. Refused while a turn is in flight.
func (c *Controller) ClearTranscript() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return false
	}
	c.conv.ClearHistory()
	return true
}

// State returns the current turn state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a turn is in flight. While busy, Submit and Reset
// are no-ops.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != StateIdle
}

// LastError returns the error of the most recent failed turn, or nil.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// HasSession reports whether a live session is currently held. A false
// return after a turn means the session was invalidated and will be
// recreated on the next submit.
func (c *Controller) HasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// =============================================================================
// EVENT HANDLING
// =============================================================================

// Handle applies one event to the transcript through the reducer. The
// session-invalid failure additionally drops the dead session so the next
// turn recreates it.
func (c *Controller) Handle(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if failed, ok := ev.(StreamFailed); ok {
		c.lastErr = failed.Err
		if failed.Kind == gemini.ErrTypeSessionInvalid {
			c.session = nil
		}
	}

	c.state = Apply(c.conv, c.state, ev)
}

// =============================================================================
// TURN EXECUTION
// =============================================================================

// Submit starts one turn. It validates and applies UserSubmitted; blank
// text and busy states are no-ops returning ok=false. On success it
// returns the trimmed text that entered the transcript; the caller must
// then run Stream (typically on a goroutine) with that text.
func (c *Controller) Submit(text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trimmed := strings.TrimSpace(text)
	if c.state != StateIdle || trimmed == "" {
		return "", false
	}

	c.lastErr = nil
	c.state = Apply(c.conv, c.state, UserSubmitted{Text: trimmed})
	return trimmed, c.state != StateIdle
}

// Stream performs the network half of a submitted turn: it ensures a live
// session exists (recreating a dropped one), streams the reply, and feeds
// every outcome back through Handle. onFragment, when non-nil, observes
// fragments as they arrive, after they are applied to the transcript.
//
// Every failure is absorbed at this boundary: the transcript gains either
// reply content or a synthetic notice, and the state returns to Idle.
//
// Returns the stream statistics for a completed turn, nil when the turn
// failed. Completed turns also carry their timing on the finalized reply
// message, where the transcript renderers pick it up.
func (c *Controller) Stream(ctx context.Context, text string, onFragment gemini.FragmentCallback) *gemini.StreamStats {
	session, err := c.ensureSession(ctx)
	if err != nil {
		c.Handle(StreamFailed{Kind: gemini.ErrTypeSessionCreation, Err: err})
		return nil
	}

	stats := gemini.NewStreamStats()
	_, err = session.SendMessage(ctx, text, func(fragment string) {
		stats.RecordFirstFragment()
		stats.Fragments++
		stats.Runes += len([]rune(fragment))
		c.Handle(FragmentReceived{Chunk: fragment})
		if onFragment != nil {
			onFragment(fragment)
		}
	})
	if err != nil {
		classified := gemini.ClassifyError(err)
		c.Handle(StreamFailed{Kind: classified.Type, Err: classified})
		return nil
	}

	c.Handle(StreamEnded{})
	stats.Finalize()
	c.recordTurnMetrics(stats)
	return stats
}

// recordTurnMetrics stamps a completed turn's timing onto the finalized
// reply. Skipped when the turn ended in a synthetic notice.
func (c *Controller) recordTurnMetrics(stats *gemini.StreamStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	last := c.conv.GetLastAssistantMessage()
	if last == nil || last.IsStreaming || last.IsError {
		return
	}
	last.SetStreamMetrics(stats.TTFF, stats.EndTime.Sub(stats.StartTime), stats.Fragments)
}

// SendTurn runs one complete turn synchronously: Submit plus Stream. This
// is the entry point for line-oriented callers that have no event loop.
// Returns false when the submit was rejected (blank or busy).
func (c *Controller) SendTurn(ctx context.Context, text string, onFragment gemini.FragmentCallback) bool {
	trimmed, ok := c.Submit(text)
	if !ok {
		return false
	}
	c.Stream(ctx, trimmed, onFragment)
	return true
}

// ensureSession returns the live session, creating one if the previous
// session was dropped (or Init failed).
func (c *Controller) ensureSession(ctx context.Context) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}

	session, err := c.client.CreateSession(ctx)
	if err != nil {
		return nil, err
	}
	c.session = session
	return session, nil
}
