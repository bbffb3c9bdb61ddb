// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mentor-tui/internal/gemini"
	"github.com/jeranaias/mentor-tui/internal/model"
)

// =============================================================================
// FAKES
// =============================================================================

// fakeSession scripts one SendMessage outcome per call.
type fakeSession struct {
	fragments []string
	err       error
	calls     int
}

func (s *fakeSession) SendMessage(_ context.Context, _ string, onFragment gemini.FragmentCallback) (string, error) {
	s.calls++
	var full strings.Builder
	for _, f := range s.fragments {
		full.WriteString(f)
		if onFragment != nil {
			onFragment(f)
		}
	}
	if s.err != nil {
		return full.String(), s.err
	}
	if full.Len() == 0 {
		return "", gemini.ErrEmptyReply
	}
	return full.String(), nil
}

// fakeClient mints scripted sessions in order; once the script runs out,
// the last entry repeats.
type fakeClient struct {
	sessions   []*fakeSession
	createErrs []error
	created    int
	greeting   string
}

func (c *fakeClient) CreateSession(_ context.Context) (Session, error) {
	idx := c.created
	c.created++
	if idx < len(c.createErrs) && c.createErrs[idx] != nil {
		return nil, &gemini.ClientError{
			Type:    gemini.ErrTypeSessionCreation,
			Message: "failed to create chat session",
			Cause:   c.createErrs[idx],
		}
	}
	if len(c.sessions) == 0 {
		return &fakeSession{fragments: []string{"ok"}}, nil
	}
	if idx >= len(c.sessions) {
		idx = len(c.sessions) - 1
	}
	return c.sessions[idx], nil
}

func (c *fakeClient) Greeting() string {
	if c.greeting == "" {
		return "Hi, I'm your mentor."
	}
	return c.greeting
}

func newTestController(client *fakeClient) *Controller {
	ctrl := New(client)
	ctrl.Init(context.Background())
	return ctrl
}

// =============================================================================
// INIT AND RESET
// =============================================================================

func TestInitSeedsGreeting(t *testing.T) {
	ctrl := newTestController(&fakeClient{greeting: "Welcome!"})

	conv := ctrl.Conversation()
	require.Equal(t, 1, conv.MessageCount())
	msg := conv.GetLastMessage()
	assert.Equal(t, model.RoleAssistant, msg.Role)
	assert.Equal(t, "Welcome!", msg.Content)
	assert.False(t, msg.IsError)
	assert.True(t, ctrl.HasSession())
	assert.False(t, ctrl.Busy())
}

func TestInitSeedsConfigErrorWhenSessionCreationFails(t *testing.T) {
	client := &fakeClient{createErrs: []error{errors.New("no API key")}}
	ctrl := newTestController(client)

	conv := ctrl.Conversation()
	require.Equal(t, 1, conv.MessageCount())
	msg := conv.GetLastMessage()
	assert.True(t, msg.IsError)
	assert.Contains(t, msg.Content, "GEMINI_API_KEY")
	assert.False(t, ctrl.HasSession())
	assert.False(t, ctrl.Busy(), "a failed init must still leave the conversation usable")
}

func TestResetClearsTranscriptAndRecreatesSession(t *testing.T) {
	client := &fakeClient{sessions: []*fakeSession{
		{fragments: []string{"first answer"}},
		{fragments: []string{"unused"}},
	}}
	ctrl := newTestController(client)
	ctrl.SendTurn(context.Background(), "question", nil)
	require.Equal(t, 3, ctrl.Conversation().MessageCount())

	ok := ctrl.Reset(context.Background())

	require.True(t, ok)
	conv := ctrl.Conversation()
	require.Equal(t, 1, conv.MessageCount(), "reset transcript holds only the fresh greeting")
	assert.Equal(t, model.RoleAssistant, conv.GetLastMessage().Role)
	assert.Equal(t, 2, client.created, "reset must mint a new session")
	assert.True(t, ctrl.HasSession())
}

func TestResetRefusedWhileBusy(t *testing.T) {
	ctrl := newTestController(&fakeClient{})
	_, ok := ctrl.Submit("question")
	require.True(t, ok)

	assert.False(t, ctrl.Reset(context.Background()), "reset must be refused mid-turn")
	assert.True(t, ctrl.Busy())
}

// =============================================================================
// SUBMIT GATING
// =============================================================================

func TestSubmitRejectsBlankText(t *testing.T) {
	ctrl := newTestController(&fakeClient{})

	for _, text := range []string{"", "   ", "\n\t  "} {
		_, ok := ctrl.Submit(text)
		assert.False(t, ok, "blank submit %q must be a no-op", text)
	}
	assert.Equal(t, 1, ctrl.Conversation().MessageCount(), "transcript unchanged by blank submits")
	assert.False(t, ctrl.Busy())
}

func TestSubmitRejectedWhileBusy(t *testing.T) {
	ctrl := newTestController(&fakeClient{})
	_, ok := ctrl.Submit("first")
	require.True(t, ok)

	_, ok = ctrl.Submit("second")
	assert.False(t, ok, "submit while busy must be a no-op")

	conv := ctrl.Conversation()
	// greeting + user + streaming placeholder, nothing from the second submit
	assert.Equal(t, 3, conv.MessageCount())
}

func TestSubmitTrimsText(t *testing.T) {
	ctrl := newTestController(&fakeClient{})

	trimmed, ok := ctrl.Submit("  How do I price my first project?  ")

	require.True(t, ok)
	assert.Equal(t, "How do I price my first project?", trimmed)
	assert.Equal(t, "How do I price my first project?", ctrl.Conversation().GetLastUserMessage().Content)
}

// =============================================================================
// HAPPY-PATH TURNS
// =============================================================================

func TestSendTurnStreamsReply(t *testing.T) {
	client := &fakeClient{sessions: []*fakeSession{
		{fragments: []string{"Charge ", "a day ", "rate."}},
	}}
	ctrl := newTestController(client)

	var seen []string
	ok := ctrl.SendTurn(context.Background(), "How do I price my first project?", func(fragment string) {
		seen = append(seen, fragment)
	})

	require.True(t, ok)
	assert.Equal(t, []string{"Charge ", "a day ", "rate."}, seen, "fragments surface in arrival order")

	conv := ctrl.Conversation()
	require.Equal(t, 3, conv.MessageCount())
	reply := conv.GetLastMessage()
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "Charge a day rate.", reply.Content)
	assert.False(t, reply.IsStreaming)
	assert.False(t, ctrl.Busy())
	assert.Equal(t, StateIdle, ctrl.State())
}

func TestConsecutiveTurnsReuseSession(t *testing.T) {
	session := &fakeSession{fragments: []string{"answer"}}
	client := &fakeClient{sessions: []*fakeSession{session}}
	ctrl := newTestController(client)

	ctrl.SendTurn(context.Background(), "one", nil)
	ctrl.SendTurn(context.Background(), "two", nil)

	assert.Equal(t, 1, client.created, "a healthy session is reused across turns")
	assert.Equal(t, 2, session.calls)
}

func TestTurnStateTransitions(t *testing.T) {
	ctrl := newTestController(&fakeClient{})

	assert.Equal(t, StateIdle, ctrl.State())
	_, ok := ctrl.Submit("question")
	require.True(t, ok)
	assert.Equal(t, StateSending, ctrl.State())

	ctrl.Handle(FragmentReceived{Chunk: "a"})
	assert.Equal(t, StateStreaming, ctrl.State())

	ctrl.Handle(StreamEnded{})
	assert.Equal(t, StateIdle, ctrl.State())
}

// =============================================================================
// FAILURE HANDLING
// =============================================================================

func TestStreamFailureAppendsSyntheticNotice(t *testing.T) {
	client := &fakeClient{sessions: []*fakeSession{
		{err: errors.New("connection reset by peer")},
	}}
	ctrl := newTestController(client)

	ctrl.SendTurn(context.Background(), "question", nil)

	conv := ctrl.Conversation()
	require.Equal(t, 3, conv.MessageCount(), "greeting + user + synthetic notice")
	notice := conv.GetLastMessage()
	assert.True(t, notice.IsError)
	assert.Equal(t, noticeStreamLost, notice.Content)
	assert.False(t, ctrl.Busy(), "failure must land back on idle")
	assert.Error(t, ctrl.LastError())
}

func TestStreamFailureKeepsPartialContent(t *testing.T) {
	client := &fakeClient{sessions: []*fakeSession{
		{fragments: []string{"Here's the thing: "}, err: errors.New("connection reset")},
	}}
	ctrl := newTestController(client)

	ctrl.SendTurn(context.Background(), "question", nil)

	conv := ctrl.Conversation()
	require.Equal(t, 3, conv.MessageCount())
	reply := conv.GetLastMessage()
	assert.Equal(t, "Here's the thing: ", reply.Content, "partial reply survives the failure")
	assert.False(t, reply.IsStreaming)
	assert.False(t, reply.IsError)
}

func TestEmptyReplyGetsSyntheticNotice(t *testing.T) {
	client := &fakeClient{sessions: []*fakeSession{
		{fragments: nil}, // stream ends with no content
	}}
	ctrl := newTestController(client)

	ctrl.SendTurn(context.Background(), "question", nil)

	notice := ctrl.Conversation().GetLastMessage()
	assert.True(t, notice.IsError)
	assert.Equal(t, model.RoleAssistant, notice.Role)
	assert.False(t, ctrl.Busy())
}

func TestSessionCreationFailureMidConversation(t *testing.T) {
	client := &fakeClient{createErrs: []error{errors.New("no API key"), errors.New("no API key")}}
	ctrl := newTestController(client)

	ctrl.SendTurn(context.Background(), "question", nil)

	conv := ctrl.Conversation()
	// config-error seed + user + creation-failure notice
	require.Equal(t, 3, conv.MessageCount())
	notice := conv.GetLastMessage()
	assert.True(t, notice.IsError)
	assert.Contains(t, notice.Content, "GEMINI_API_KEY")
	assert.False(t, ctrl.Busy())
}

// =============================================================================
// SESSION-INVALID RECOVERY
// =============================================================================

func TestSessionInvalidDropsSessionAndRecovers(t *testing.T) {
	dead := &fakeSession{err: gemini.ErrSessionInvalid}
	fresh := &fakeSession{fragments: []string{"recovered answer"}}
	client := &fakeClient{sessions: []*fakeSession{dead, fresh}}
	ctrl := newTestController(client)

	// First turn dies with the session.
	ctrl.SendTurn(context.Background(), "first question", nil)
	assert.False(t, ctrl.HasSession(), "invalid session must be dropped")
	notice := ctrl.Conversation().GetLastMessage()
	assert.True(t, notice.IsError)
	assert.Equal(t, noticeSessionLost, notice.Content)

	// Next submit transparently recreates the session; no user-visible
	// session management.
	ctrl.SendTurn(context.Background(), "second question", nil)
	assert.True(t, ctrl.HasSession())
	assert.Equal(t, 2, client.created)
	reply := ctrl.Conversation().GetLastMessage()
	assert.Equal(t, "recovered answer", reply.Content)
	assert.False(t, reply.IsError)
	assert.Equal(t, 1, fresh.calls, "recovery happens without retrying the failed turn")
}

func TestSessionInvalidWithPartialContentStillDropsSession(t *testing.T) {
	dead := &fakeSession{fragments: []string{"partial"}, err: gemini.ErrSessionInvalid}
	client := &fakeClient{sessions: []*fakeSession{dead}}
	ctrl := newTestController(client)

	ctrl.SendTurn(context.Background(), "question", nil)

	assert.False(t, ctrl.HasSession())
	reply := ctrl.Conversation().GetLastMessage()
	assert.Equal(t, "partial", reply.Content)
}

// =============================================================================
// REDUCER
// =============================================================================

func TestApplyIgnoresEventsOutOfState(t *testing.T) {
	conv := model.NewConversation()

	// Fragments and terminators mean nothing while idle.
	state := Apply(conv, StateIdle, FragmentReceived{Chunk: "x"})
	assert.Equal(t, StateIdle, state)
	state = Apply(conv, StateIdle, StreamEnded{})
	assert.Equal(t, StateIdle, state)
	state = Apply(conv, StateIdle, StreamFailed{Kind: gemini.ErrTypeStream})
	assert.Equal(t, StateIdle, state)
	assert.True(t, conv.IsEmpty())

	// A second submit mid-turn is ignored.
	state = Apply(conv, StateIdle, UserSubmitted{Text: "q"})
	require.Equal(t, StateSending, state)
	count := conv.MessageCount()
	state = Apply(conv, state, UserSubmitted{Text: "again"})
	assert.Equal(t, StateSending, state)
	assert.Equal(t, count, conv.MessageCount())
}

func TestApplyMaintainsSingleStreamingTail(t *testing.T) {
	conv := model.NewConversation()
	state := Apply(conv, StateIdle, UserSubmitted{Text: "q"})
	state = Apply(conv, state, FragmentReceived{Chunk: "a"})
	state = Apply(conv, state, FragmentReceived{Chunk: "b"})

	streaming := 0
	for _, msg := range conv.GetHistory() {
		if msg.IsStreaming {
			streaming++
		}
	}
	assert.Equal(t, 1, streaming)
	assert.Same(t, conv.GetLastMessage(), conv.StreamingTail())

	Apply(conv, state, StreamEnded{})
	assert.Nil(t, conv.StreamingTail())
}

// =============================================================================
// SNAPSHOTS AND CONCURRENT READS
// =============================================================================

// drippingSession emits fragments with a pause between them so a reader
// can overlap the stream.
type drippingSession struct {
	fragments []string
	gap       time.Duration
}

func (s *drippingSession) SendMessage(_ context.Context, _ string, onFragment gemini.FragmentCallback) (string, error) {
	var full strings.Builder
	for _, f := range s.fragments {
		full.WriteString(f)
		if onFragment != nil {
			onFragment(f)
		}
		time.Sleep(s.gap)
	}
	return full.String(), nil
}

// drippingClient mints the same dripping session on every call.
type drippingClient struct {
	session Session
}

func (c *drippingClient) CreateSession(context.Context) (Session, error) {
	return c.session, nil
}

func (c *drippingClient) Greeting() string { return "Hi, I'm your mentor." }

func TestSnapshotSafeWhileStreaming(t *testing.T) {
	session := &drippingSession{
		fragments: []string{"a", "b", "c", "d", "e"},
		gap:       time.Millisecond,
	}
	ctrl := New(&drippingClient{session: session})
	ctrl.Init(context.Background())

	text, ok := ctrl.Submit("question")
	require.True(t, ok)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ctrl.Stream(context.Background(), text, nil)
	}()

	// Render loop: read snapshots while fragments are still arriving, the
	// way the TUI tick loop does.
	for ctrl.Busy() {
		for _, msg := range ctrl.Snapshot().GetHistory() {
			_ = msg.GetDisplayContent()
		}
	}
	<-done

	last := ctrl.Snapshot().GetLastAssistantMessage()
	require.NotNil(t, last)
	assert.Equal(t, "abcde", last.Content)
}

func TestSnapshotIsolatedFromLaterTurns(t *testing.T) {
	ctrl := newTestController(&fakeClient{sessions: []*fakeSession{
		{fragments: []string{"first answer"}},
	}})
	ctrl.SendTurn(context.Background(), "first question", nil)

	snap := ctrl.Snapshot()
	count := snap.MessageCount()

	ctrl.SendTurn(context.Background(), "second question", nil)

	assert.Equal(t, count, snap.MessageCount(), "snapshot does not see later turns")
	assert.NotSame(t, ctrl.Conversation(), snap)
	assert.NotSame(t, ctrl.Conversation().GetLastMessage(), snap.GetLastMessage())
}

// =============================================================================
// CLEAR TRANSCRIPT
// =============================================================================

func TestClearTranscriptKeepsSession(t *testing.T) {
	session := &fakeSession{fragments: []string{"answer"}}
	ctrl := newTestController(&fakeClient{sessions: []*fakeSession{session}})
	ctrl.SendTurn(context.Background(), "question", nil)

	require.True(t, ctrl.ClearTranscript())
	assert.True(t, ctrl.Conversation().IsEmpty())
	assert.True(t, ctrl.HasSession())

	ctrl.SendTurn(context.Background(), "another", nil)
	assert.Equal(t, 2, session.calls, "the session survives a clear")
}

func TestClearTranscriptRefusedWhileBusy(t *testing.T) {
	ctrl := newTestController(&fakeClient{})
	_, ok := ctrl.Submit("question")
	require.True(t, ok)

	assert.False(t, ctrl.ClearTranscript())
	assert.False(t, ctrl.Conversation().IsEmpty())
}

// =============================================================================
// STREAM METRICS
// =============================================================================

func TestCompletedTurnCarriesStreamMetrics(t *testing.T) {
	session := &drippingSession{
		fragments: []string{"an", "swer"},
		gap:       time.Millisecond,
	}
	ctrl := New(&drippingClient{session: session})
	ctrl.Init(context.Background())

	text, ok := ctrl.Submit("question")
	require.True(t, ok)
	stats := ctrl.Stream(context.Background(), text, nil)

	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.Fragments)

	last := ctrl.Conversation().GetLastAssistantMessage()
	require.NotNil(t, last)
	assert.Equal(t, 2, last.Fragments)
	assert.NotZero(t, last.TotalDuration)
	assert.NotEmpty(t, last.FormatStats())
}

func TestFailedTurnRecordsNoMetrics(t *testing.T) {
	ctrl := newTestController(&fakeClient{sessions: []*fakeSession{
		{fragments: []string{"partial"}, err: errors.New("connection reset by peer")},
	}})

	text, ok := ctrl.Submit("question")
	require.True(t, ok)
	stats := ctrl.Stream(context.Background(), text, nil)

	assert.Nil(t, stats)
	last := ctrl.Conversation().GetLastAssistantMessage()
	require.NotNil(t, last)
	assert.Zero(t, last.TotalDuration, "failed turns carry no timing footer")
}
