// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for mentor.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering and input history for better CLI experience
//
// Handles the "mentor chat" command which provides an interactive REPL
// for conversing with the mentor. This is the line-oriented counterpart
// to the full-screen TUI.
//
// Command: chat
// Short:   Start an interactive chat session
// Aliases: (none)
//
// Examples:
//   mentor chat                            Start interactive chat
//   mentor chat --model gemini-2.0-flash   Use specific model
//   mentor chat --plain                    Skip markdown rendering
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Clear conversation history
//   /history [n]        Show the last n exchanges
//   /export [path]      Export the conversation as Markdown
//   /quit, /q           Exit chat
//   Ctrl+C              Cancel current reply
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/mentor-tui/internal/config"
	"github.com/jeranaias/mentor-tui/internal/controller"
	"github.com/jeranaias/mentor-tui/internal/gemini"
	"github.com/jeranaias/mentor-tui/internal/model"
	"github.com/jeranaias/mentor-tui/internal/ui/components"
	"github.com/jeranaias/mentor-tui/internal/ui/styles"
	"github.com/jeranaias/mentor-tui/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	// Prompt style
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true)

	// Welcome banner style
	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Indigo).
			Bold(true)

	// Info style
	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	// Command style
	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	// Warning style
	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
// USABILITY: Supports arrow keys for history navigation and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	// Get history file path in config directory
	configDir, err := config.ConfigDir()
	if err != nil {
		// Fallback to temp directory if config dir unavailable
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}

	cli.LoadHistory()

	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// SaveHistory persists input history to file with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatREPL holds the state for an interactive chat session.
type ChatREPL struct {
	// Conversation controller (owns the transcript and session)
	Ctrl *controller.Controller

	// Configuration
	Config *config.Config
	Model  string
	Quiet  bool
	Plain  bool

	// Tracking
	StartTime time.Time
	Turns     int

	// Cancel function for the in-flight reply stream
	cancelMu   sync.Mutex
	cancelFunc context.CancelFunc

	// Input history handler
	// USABILITY: Provides readline-like input with history
	InputCLI *ChatCLI
}

// NewChatREPL creates a new interactive chat session.
func NewChatREPL(args Args) *ChatREPL {
	cfg := config.Global()

	clientCfg := cfg.ToClientConfig()
	if args.Model != "" {
		clientCfg.Model = args.Model
	}
	client := gemini.NewClientWithConfig(clientCfg)

	return &ChatREPL{
		Ctrl:      controller.NewGemini(client),
		Config:    cfg,
		Model:     clientCfg.Model,
		Quiet:     args.Quiet,
		Plain:     args.Plain,
		StartTime: time.Now(),
		InputCLI:  NewChatCLI(),
	}
}

// setCancel installs the cancel function for the in-flight stream.
func (s *ChatREPL) setCancel(cancel context.CancelFunc) {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	s.cancelFunc = cancel
}

// cancelStream cancels the in-flight stream, if any.
// Returns true when there was a stream to cancel.
func (s *ChatREPL) cancelStream() bool {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancelFunc == nil {
		return false
	}
	s.cancelFunc()
	s.cancelFunc = nil
	return true
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles the "chat" command with full interactive support.
func HandleChatCommand(args Args) error {
	session := NewChatREPL(args)

	// Opening the session up front surfaces config problems (missing API
	// key) before the first prompt instead of on the first question.
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	session.Ctrl.Init(initCtx)
	initCancel()

	if !session.Quiet {
		printWelcome(session)
	}

	// Ensure input history is saved on exit
	defer session.InputCLI.Close()

	// Set up signal handling for graceful Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for range sigChan {
			// First Ctrl+C cancels the current reply
			if session.cancelStream() {
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
			}
		}
	}()

	// Main REPL loop using liner for input history
	// USABILITY: Provides readline-like line editing and history navigation
	for {
		input, err := session.InputCLI.ReadInput(promptStyle.Render("mentor> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C at the prompt - exit gracefully
				fmt.Println()
				printExitSummary(session)
				return nil
			}
			// EOF (Ctrl+D) or other error - exit gracefully
			fmt.Println()
			printExitSummary(session)
			return nil
		}

		input = strings.TrimSpace(input)

		if input == "" {
			continue
		}

		// Handle slash commands
		if strings.HasPrefix(input, "/") {
			shouldContinue, err := handleReplCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n",
					errorStyle.Render("[Error]"), err)
			}
			if !shouldContinue {
				printExitSummary(session)
				return nil
			}
			continue
		}

		// Handle exit/quit without slash
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(session)
			return nil
		}

		if err := runTurn(session, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n",
				errorStyle.Render("[Error]"), err)
		}
	}
}

// =============================================================================
// TURN PROCESSING
// =============================================================================

// runTurn sends one question through the controller and streams the reply.
func runTurn(session *ChatREPL, input string) error {
	ctx, cancel := context.WithCancel(context.Background())
	session.setCancel(cancel)
	defer func() {
		session.setCancel(nil)
		cancel()
	}()

	// Determine rendering mode
	// USABILITY: Render markdown on TTY for better formatting. With
	// --plain, replies still get syntax-highlighted code blocks.
	useMarkdown := IsStdoutTTY() && !session.Plain && session.Config.UI.Markdown

	fmt.Println() // Space before reply

	accumulator := gemini.NewStreamAccumulator()
	ok := session.Ctrl.SendTurn(ctx, input, func(fragment string) {
		accumulator.Append(fragment)
		if !useMarkdown {
			fmt.Print(fragment)
		}
	})
	if !ok {
		return nil
	}

	if err := session.Ctrl.LastError(); err != nil {
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("request failed: %w", err)
	}

	reply := accumulator.Content()
	if useMarkdown {
		displayReply(reply, false)
	} else if IsStdoutTTY() && session.Plain {
		// Plain mode on a TTY: re-render with highlighted code blocks.
		fmt.Print("\r")
		fmt.Print(components.ParseCodeBlocks(reply, GetTerminalWidth()))
	}

	fmt.Println()
	fmt.Println() // Extra space after reply

	session.Turns++

	// Brief stats footer (unless quiet)
	if !session.Quiet && session.Config.UI.ShowStats {
		fmt.Fprintln(os.Stderr, statsStyle.Render(accumulator.Stats().Format()))
	}

	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleReplCommand processes slash commands.
// Returns (shouldContinue, error) where shouldContinue=false means exit.
func handleReplCommand(cmd string, session *ChatREPL) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	command := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	switch command {
	case "help", "h", "?":
		printReplHelp()
		return true, nil

	case "clear", "c":
		session.Ctrl.ClearTranscript()
		fmt.Println(infoStyle.Render("Conversation cleared."))
		return true, nil

	case "history", "hist":
		n := 10
		if len(args) > 0 {
			if parsed, err := strconv.Atoi(args[0]); err == nil && parsed > 0 {
				n = parsed
			}
		}
		printHistory(session, n)
		return true, nil

	case "export", "e":
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return true, exportTranscript(session, path)

	case "quit", "q", "exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command /%s (try /help)", command)
	}
}

// printReplHelp lists the interactive commands.
func printReplHelp() {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("Commands:"))
	commands := [][2]string{
		{"/help", "Show this help"},
		{"/clear", "Clear conversation history"},
		{"/history [n]", "Show the last n exchanges (default 10)"},
		{"/export [path]", "Export the conversation as Markdown"},
		{"/quit", "Exit chat"},
	}
	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-16s", c[0])),
			infoStyle.Render(c[1]))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Ctrl+C cancels the current reply, Ctrl+D exits."))
	fmt.Println()
}

// printHistory prints the last n messages of the transcript.
func printHistory(session *ChatREPL, n int) {
	history := session.Ctrl.Snapshot().GetHistory()
	if len(history) == 0 {
		fmt.Println(infoStyle.Render("No messages yet."))
		return
	}

	start := 0
	if len(history) > n {
		start = len(history) - n
	}

	fmt.Println()
	for _, msg := range history[start:] {
		label := msg.Role.DisplayName()
		if msg.IsError {
			label = "Notice"
		}
		fmt.Printf("%s %s\n",
			GetStyleForTTY(promptStyle).Render("["+label+"]"),
			msg.GetDisplayContent())
	}
	fmt.Println()
}

// exportTranscript writes the conversation to a Markdown file.
func exportTranscript(session *ChatREPL, path string) error {
	conv := session.Ctrl.Snapshot()
	if conv.IsEmpty() {
		fmt.Println(infoStyle.Render("Nothing to export yet."))
		return nil
	}

	if path == "" {
		path = "mentor-" + time.Now().Format("20060102-150405") + ".md"
	}

	validated, err := ValidateOutputPath(path)
	if err != nil {
		return err
	}

	data := renderExportMarkdown(conv)
	if err := util.AtomicWriteFileWithDir(validated, []byte(data), 0o644, 0o755); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("%s Exported to %s\n",
		commandStyle.Render("[+]"), validated)
	return nil
}

// renderExportMarkdown formats the transcript as a Markdown document.
func renderExportMarkdown(conv *model.Conversation) string {
	var b strings.Builder

	title := conv.GetTitle()
	if title == "" {
		title = "Mentor conversation"
	}
	b.WriteString("# " + title + "\n\n")
	b.WriteString("Exported " + time.Now().Format("2006-01-02 15:04:05") + "\n\n")
	b.WriteString("---\n\n")

	for _, msg := range conv.GetHistory() {
		label := msg.Role.DisplayName()
		if msg.IsError {
			label = "Notice"
		}
		b.WriteString("## " + label + " (" + msg.Timestamp.Format("15:04:05") + ")\n\n")
		b.WriteString(msg.GetDisplayContent() + "\n\n")
	}

	return b.String()
}

// =============================================================================
// WELCOME AND EXIT
// =============================================================================

// printWelcome prints the session banner and opening greeting.
func printWelcome(session *ChatREPL) {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("mentor chat"))
	fmt.Printf("%s %s\n",
		infoStyle.Render("Model:"),
		commandStyle.Render(session.Model))
	fmt.Println(infoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()

	// The controller seeds the greeting (or a config error notice) as the
	// opening message. Surface it here so the REPL starts like the TUI.
	if opener := session.Ctrl.Snapshot().GetLastAssistantMessage(); opener != nil {
		fmt.Println(WrapText(opener.GetDisplayContent(), GetTerminalWidth()))
		fmt.Println()
	}
}

// printExitSummary prints a brief summary when the session ends.
func printExitSummary(session *ChatREPL) {
	if session.Quiet {
		return
	}

	elapsed := time.Since(session.StartTime)
	fmt.Println()
	fmt.Printf("%s %d turns in %s\n",
		infoStyle.Render("[Session]"),
		session.Turns,
		formatDurationShort(elapsed))
	fmt.Println(infoStyle.Render("Goodbye."))
}
