// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea model for the mentor chat screen: a
// scrollable transcript viewport, a single-line input, a status bar, and
// the streaming plumbing that drives a turn from Enter to the final
// rendered reply.
package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/mentor-tui/internal/config"
	"github.com/jeranaias/mentor-tui/internal/controller"
	"github.com/jeranaias/mentor-tui/internal/ui/components"
	"github.com/jeranaias/mentor-tui/internal/ui/styles"
)

// =============================================================================
// UI STATE
// =============================================================================

// uiState tracks which screen the chat model is showing. It mirrors the
// controller's turn state for the streaming case but also covers purely
// visual states the controller does not know about (the welcome screen).
type uiState int

const (
	// stateWelcome shows the splash screen until the first keypress.
	stateWelcome uiState = iota
	// stateReady accepts input; no turn is in flight.
	stateReady
	// stateStreaming has a turn in flight; input is locked.
	stateStreaming
)

// maxInputLength caps the input field.
const maxInputLength = 4000

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen. It owns the widgets
// and rendering state; the conversation itself lives in the controller,
// which the model only drives through Submit/Stream/Reset.
type Model struct {
	ctrl *controller.Controller

	theme *styles.Theme
	keys  KeyMap

	width  int
	height int
	ready  bool

	// Widgets
	viewport    viewport.Model
	input       textinput.Model
	spinner     components.Spinner
	header      *components.Header
	statusBar   *components.StatusBar
	messageList *components.MessageList
	welcome     components.Welcome
	errorView   components.ErrorDisplay

	state    uiState
	showHelp bool
	quitting bool

	// Streaming pacing. Fragments land in the buffer from the stream
	// goroutine; the tick loop drains it into the viewport at a bounded
	// frame rate.
	buffer    *StreamingBuffer
	optimizer *ViewportOptimizer
	cancelMgr *cancelManager

	streamStart time.Time

	// markdown renders completed mentor replies. Rebuilt on resize so the
	// word wrap follows the terminal.
	markdown *glamour.TermRenderer

	// flash is a transient status-line notice (export results and the
	// like), cleared by flashClearMsg.
	flash string

	modelName string
	version   string
}

// sessionReadyMsg reports that controller.Init finished. Either way the
// transcript has its opening message by then.
type sessionReadyMsg struct{}

// flashClearMsg clears the transient status-line notice.
type flashClearMsg struct{}

// New creates the chat model around a controller that has not been
// initialized yet; Init creates the session in the background. modelName
// and version feed the header, welcome screen, and status bar.
func New(ctrl *controller.Controller, modelName, version string) Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask your mentor anything..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.TextStyle = theme.InputText
	input.CharLimit = maxInputLength
	input.Focus()

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	header := components.NewHeader(theme)
	header.SetModel(modelName)

	statusBar := components.NewStatusBar(theme)
	statusBar.SetModel(modelName)

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(version)
	welcome.SetModelName(modelName)

	m := Model{
		ctrl:        ctrl,
		theme:       theme,
		keys:        DefaultKeyMap(),
		viewport:    vp,
		input:       input,
		spinner:     components.NewThinkingSpinner(),
		header:      header,
		statusBar:   statusBar,
		messageList: components.NewMessageList(theme),
		welcome:     welcome,
		errorView:   components.NewErrorDisplay(),
		state:       stateWelcome,
		buffer:      NewStreamingBuffer(),
		optimizer:   NewViewportOptimizer(),
		cancelMgr:   newCancelManager(),
		modelName:   modelName,
		version:     version,
	}
	m.messageList.ShowStats = config.Global().UI.ShowStats
	return m
}

// =============================================================================
// PROGRAM BRIDGE
// =============================================================================

// programRef lets the stream goroutine deliver messages into the Bubble
// Tea event loop. Set once after tea.NewProgram, before Run.
var (
	programMu  sync.Mutex
	programRef *tea.Program
)

// SetProgram installs the running program as the cross-goroutine message
// bridge. Must be called before the first submit.
func SetProgram(p *tea.Program) {
	programMu.Lock()
	defer programMu.Unlock()
	programRef = p
}

// send delivers a message to the event loop; a nop when no program is
// installed (tests).
func send(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// =============================================================================
// BUBBLE TEA LIFECYCLE
// =============================================================================

// Init starts the cursor blink and creates the chat session in the
// background so the welcome screen appears immediately.
func (m Model) Init() tea.Cmd {
	ctrl := m.ctrl
	return tea.Batch(
		textinput.Blink,
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			ctrl.Init(ctx)
			return sessionReadyMsg{}
		},
	)
}

// Update is the single event dispatcher for the chat screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionReadyMsg:
		m.statusBar.SetConnected(m.ctrl.HasSession())
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case StreamFragmentMsg:
		// The fragment is already in the transcript (the controller's
		// reducer applied it before notifying); the buffer only paces
		// redraws.
		m.buffer.Write(msg.Chunk)
		if msg.IsFirst {
			m.statusBar.SetStatus(components.StatusStreaming)
		}
		return m, nil

	case StreamTickMsg:
		return m.handleStreamTick()

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)

	case NewConversationMsg:
		m.optimizer.Reset()
		m.statusBar.SetConnected(m.ctrl.HasSession())
		m.updateViewport()
		m.viewport.GotoTop()
		return m, nil

	case ConversationExportedMsg:
		return m.handleExportComplete(msg)

	case flashClearMsg:
		m.flash = ""
		return m, nil

	case ErrorMsg:
		m.errorView = components.NewErrorWithSuggestions(msg.Title, msg.Message, msg.Suggestions)
		m.errorView.SetSize(m.width, m.height)
		return m, nil

	case components.ErrorAutoDismissMsg:
		var cmd tea.Cmd
		m.errorView, cmd = m.errorView.Update(msg)
		return m, cmd
	}

	// Spinner frames and other component-internal messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.statusBar.SetWidth(msg.Width)
	m.welcome.SetSize(msg.Width, msg.Height)
	m.errorView.SetSize(msg.Width, msg.Height)
	m.input.Width = msg.Width - 8

	contentWidth := calculateContentWidth(msg.Width, 4)
	m.messageList.SetWidth(contentWidth)
	m.rebuildMarkdownRenderer(contentWidth)

	m.viewport.Width = msg.Width
	m.viewport.Height = m.viewportHeight()

	m.optimizer.ForceUpdate()
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// rebuildMarkdownRenderer recreates the glamour renderer for the given
// wrap width. A nil renderer (construction failure) degrades to plain
// text rendering.
func (m *Model) rebuildMarkdownRenderer(width int) {
	if width < 10 {
		width = 10
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.markdown = nil
		return
	}
	m.markdown = renderer
	m.messageList.Markdown = m.renderMarkdown
}

// renderMarkdown renders completed mentor replies through glamour,
// falling back to the raw text on any failure.
func (m *Model) renderMarkdown(text string) string {
	if m.markdown == nil {
		return text
	}
	out, err := m.markdown.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The welcome screen dismisses on any key except quit.
	if m.state == stateWelcome {
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		m.state = stateReady
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	// The help overlay swallows everything until dismissed.
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Cancel) || msg.String() == "q" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.state == stateStreaming {
			m.cancel()
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.errorView.IsVisible() {
			m.errorView.Hide()
			return m, nil
		}
		if m.state == stateStreaming {
			// The stream goroutine sees the context error and reports
			// back through StreamCompleteMsg; the partial reply stays.
			m.cancel()
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submitInput()

	case key.Matches(msg, m.keys.NewChat):
		return m.startNewConversation()

	case key.Matches(msg, m.keys.Clear):
		return m.clearTranscript()

	case key.Matches(msg, m.keys.CopyReply):
		return m.copyLastReply()

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	// Everything else is text entry.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// STREAMING
// =============================================================================

// startStreamCmd runs the network half of a submitted turn on a
// goroutine. Fragments reach the event loop through the program bridge;
// completion comes back as the command's own message.
func (m *Model) startStreamCmd(text string) tea.Cmd {
	ctrl := m.ctrl

	ctx, cancel := context.WithCancel(context.Background())
	m.setCancelFunc(cancel)

	return func() tea.Msg {
		defer cancel()

		first := true
		stats := ctrl.Stream(ctx, text, func(fragment string) {
			send(NewStreamFragmentMsg(fragment, first))
			first = false
		})
		return NewStreamCompleteMsg(stats, ctrl.LastError())
	}
}

// handleStreamTick redraws the transcript at the frame rate while a turn
// is in flight, then reschedules itself. The tick loop dies with the
// stream.
func (m Model) handleStreamTick() (tea.Model, tea.Cmd) {
	if m.state != stateStreaming {
		return m, nil
	}
	if m.buffer.ShouldFlush() {
		m.buffer.Flush()
		m.updateViewport()
		m.viewport.GotoBottom()
	}
	return m, streamTickCmd()
}

func (m Model) handleStreamComplete(msg StreamCompleteMsg) (tea.Model, tea.Cmd) {
	m.state = stateReady
	m.spinner.Stop()
	m.clearCancelFunc()
	m.buffer.ForceFlush()

	m.statusBar.SetConnected(m.ctrl.HasSession())
	if msg.Error != nil {
		m.statusBar.SetStatus(components.StatusError)
	} else {
		m.statusBar.SetStatus(components.StatusReady)
	}

	m.optimizer.ForceUpdate()
	m.updateViewport()
	m.viewport.GotoBottom()

	// The transcript already carries the failure notice; the overlay adds
	// actionable suggestions for errors the user can fix.
	if msg.Error != nil {
		errText := msg.Error.Error()
		if suggestions := detectErrorSuggestions(errText); len(suggestions) > 0 {
			m.errorView = components.NewErrorWithSuggestions("Turn failed", errText, suggestions)
			m.errorView.SetSize(m.width, m.height)
		}
		return m, nil
	}

	if msg.Stats != nil && m.messageList.ShowStats {
		return m, m.setFlash(msg.Stats.Format())
	}
	return m, nil
}

// =============================================================================
// CONVERSATION ACTIONS
// =============================================================================

// startNewConversation resets the controller (transcript, session,
// greeting). Refused while streaming.
func (m Model) startNewConversation() (tea.Model, tea.Cmd) {
	if m.ctrl.Busy() {
		return m, nil
	}
	ctrl := m.ctrl
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		ctrl.Reset(ctx)
		return NewConversationMsg{}
	}
}

// clearTranscript drops the visible history but keeps the session alive.
func (m Model) clearTranscript() (tea.Model, tea.Cmd) {
	if !m.ctrl.ClearTranscript() {
		return m, nil
	}
	m.optimizer.Reset()
	m.updateViewport()
	m.viewport.GotoTop()
	return m, nil
}

// copyLastReply copies the most recent completed mentor reply to the
// system clipboard.
func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	last := m.ctrl.Snapshot().GetLastAssistantMessage()
	if last == nil || last.IsStreaming || last.IsError || last.Content == "" {
		return m, m.setFlash("Nothing to copy yet")
	}
	if err := copyToClipboard(last.Content); err != nil {
		return m, m.setFlash("Clipboard unavailable")
	}
	return m, m.setFlash("Reply copied to clipboard")
}

// setFlash shows a transient notice in the status area for a few seconds.
func (m *Model) setFlash(text string) tea.Cmd {
	m.flash = text
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return flashClearMsg{}
	})
}

// =============================================================================
// VIEWPORT
// =============================================================================

// updateViewport rebuilds the transcript rendering and pushes it into the
// viewport if it actually changed. It renders from a snapshot: the stream
// goroutine mutates the live transcript, so the event loop never reads it
// directly.
func (m *Model) updateViewport() {
	conv := m.ctrl.Snapshot()
	m.messageList.SetMessages(conv.GetHistory())
	m.messageList.Markdown = m.renderMarkdown
	content := m.messageList.View()

	if m.optimizer.ShouldUpdate(content) {
		m.viewport.SetContent(content)
		m.optimizer.MarkClean()
	}

	m.statusBar.SetMessageCount(conv.MessageCount())
}
