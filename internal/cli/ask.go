// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for mentor.
//
// CLI: Comprehensive help and examples for all commands
// USABILITY: Markdown rendering for better CLI experience
//
// Handles the "mentor ask" command which sends a single question to the
// mentor and streams the reply to stdout.
//
// Command: ask [question]
// Short:   Ask a single question
// Aliases: (none)
//
// Examples:
//   mentor ask "How do I price my first project?"
//   mentor ask "Review this contract:" --file contract.md
//   mentor ask --model gemini-2.0-flash "Should I offer a retainer?"
//   cat brief.md | mentor ask "Is this scope too broad?"
//
// Flags:
//   -f, --file FILE     Include file content with the question
//   -m, --model NAME    Use specific model (overrides config)
//   --plain             Skip markdown rendering
//   -q, --quiet         Minimal output
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mentor-tui/internal/config"
	"github.com/jeranaias/mentor-tui/internal/controller"
	"github.com/jeranaias/mentor-tui/internal/gemini"
	"github.com/jeranaias/mentor-tui/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// MaxFileSize is the maximum file size to include (50KB).
	MaxFileSize = 50 * 1024
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the shared glamour renderer for markdown output.
// USABILITY: Renders markdown replies with syntax highlighting and formatting.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdownCLI renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdownCLI(content string) string {
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayReply displays a finished reply with markdown rendering when
// appropriate. Only renders markdown when stdout is a TTY to avoid
// corrupting piped output.
func displayReply(reply string, plain bool) {
	if IsStdoutTTY() && !plain {
		fmt.Print(renderMarkdownCLI(reply))
		return
	}
	fmt.Print(reply)
}

// =============================================================================
// STYLES
// =============================================================================

var (
	// Progress/context note style
	noteStyle = lipgloss.NewStyle().
			Foreground(styles.Teal)

	// Stats footer style
	statsStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// Error style
	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)
)

// =============================================================================
// FILE READING
// =============================================================================

// readFileForContext reads a file and formats it for inclusion in a prompt.
// Returns the formatted content or an error.
// Files larger than MaxFileSize are rejected.
func readFileForContext(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("cannot access file: %w", err)
	}

	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d bytes)", info.Size(), MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("\n--- File: %s ---\n", path))
	builder.Write(content)
	builder.WriteString("\n--- End of file ---\n")

	return builder.String(), nil
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand handles the "ask" command with streaming support.
func HandleAskCommand(args Args) error {
	cfg := config.Global()

	// Get the question from args.Query (built by parseAskArgs from
	// positional args). Raw still contains unparsed flags, don't use it.
	question := args.Query

	// If no question from args, try reading from stdin (for piped input)
	if question == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			reader := bufio.NewReader(os.Stdin)
			stdinData, err := io.ReadAll(reader)
			if err == nil && len(stdinData) > 0 {
				question = strings.TrimSpace(string(stdinData))
				if !args.Quiet {
					fmt.Fprintf(os.Stderr, "%s Read question from stdin (%d bytes)\n",
						noteStyle.Render("[+]"), len(stdinData))
				}
			}
		}
	}

	if question == "" {
		return ErrMissingArgument("question", `mentor ask "your question"`)
	}

	// If file is specified, read and append to question
	if args.File != "" {
		fileContent, err := readFileForContext(args.File)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		question = question + "\n" + fileContent

		if !args.Quiet {
			fmt.Fprintf(os.Stderr, "%s Including file: %s\n",
				noteStyle.Render("[+]"), args.File)
		}
	}

	// Build the client from config, with CLI overrides
	clientCfg := cfg.ToClientConfig()
	if args.Model != "" {
		clientCfg.Model = args.Model
	}
	client := gemini.NewClientWithConfig(clientCfg)
	ctrl := controller.NewGemini(client)

	ctx, cancel := context.WithTimeout(context.Background(), clientCfg.StreamTimeout)
	defer cancel()

	// USABILITY: On a TTY the reply is collected and rendered as markdown
	// at the end. Piped output streams fragments as they arrive.
	useMarkdown := IsStdoutTTY() && !args.Plain && cfg.UI.Markdown

	accumulator := gemini.NewStreamAccumulator()
	ok := ctrl.SendTurn(ctx, question, func(fragment string) {
		accumulator.Append(fragment)
		if !useMarkdown {
			fmt.Print(fragment)
		}
	})
	if !ok {
		return ErrMissingArgument("question", `mentor ask "your question"`)
	}

	if err := ctrl.LastError(); err != nil {
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("request failed: %w", err)
	}

	if useMarkdown {
		displayReply(accumulator.Content(), args.Plain)
	}
	fmt.Println()

	// Stream stats footer (unless quiet)
	if !args.Quiet && cfg.UI.ShowStats {
		fmt.Fprintln(os.Stderr, statsStyle.Render(accumulator.Stats().Format()))
	}

	return nil
}
