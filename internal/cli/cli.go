// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line parsing and dispatch for mentor.
//
// CLI: Comprehensive help and examples for all commands
//
// mentor with no arguments launches the full-screen TUI. The remaining
// commands are line-oriented: ask for one-shot questions, chat for a
// readline-style REPL, plus config/status/version/help.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================

// Version information set at build time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command represents a CLI command.
type Command int

const (
	// CmdTUI launches the full-screen terminal interface (default)
	CmdTUI Command = iota
	// CmdAsk sends a single question and streams the reply
	CmdAsk
	// CmdChat starts a line-oriented interactive chat
	CmdChat
	// CmdConfig views or modifies configuration
	CmdConfig
	// CmdStatus shows configuration and connectivity status
	CmdStatus
	// CmdVersion prints version information
	CmdVersion
	// CmdHelp prints usage text
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdConfig:
		return "config"
	case CmdStatus:
		return "status"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed command-line arguments.
type Args struct {
	// Model overrides the configured model (--model)
	Model string

	// Query is the question text for the ask command
	Query string

	// File is an optional file to include with an ask question (--file)
	File string

	// Subcommand is the first positional argument after the command
	// (e.g. "show" in "mentor config show")
	Subcommand string

	// ConfigKey and ConfigVal carry "config set KEY VALUE" arguments
	ConfigKey string
	ConfigVal string

	// Output control
	Quiet   bool // -q, --quiet: minimal output
	Verbose bool // -v, --verbose: debug output
	JSON    bool // --json: machine-readable output
	Plain   bool // --plain: no markdown rendering

	// Raw holds the unparsed remaining arguments
	Raw []string
}

// =============================================================================
// USAGE TEXT
// =============================================================================

const usageText = `mentor - a freelance-business mentor in your terminal

Usage:
  mentor [command] [flags]

Commands:
  (none)                 Start the full-screen TUI (default)
  ask <question>         Ask a single question and stream the answer
  chat                   Start an interactive chat in the terminal
  config [subcommand]    View and modify configuration
  status                 Show configuration and connectivity status
  version                Print version information
  help                   Show this help

Ask Command:
  mentor ask "How do I price my first project?"
    -f, --file FILE      Include file content with the question
    -m, --model NAME     Use a specific model for this question
    --plain              Skip markdown rendering (plain text output)
    -q, --quiet          Suppress progress and stats output

  Piped input is also accepted:
    cat contract.md | mentor ask "What should I push back on here?"

Chat Command:
  mentor chat
    -m, --model NAME     Use a specific model for this session
    --plain              Skip markdown rendering

  Interactive commands (during chat):
    /help                Show available commands
    /clear               Clear conversation history
    /history [n]         Show the last n exchanges
    /export [path]       Export the conversation as Markdown
    /quit                Exit chat
    Ctrl+C               Cancel the current reply
    Ctrl+D               Exit chat

Config Commands:
  mentor config show             Show current configuration
  mentor config set KEY VALUE    Set a configuration value
  mentor config path             Show configuration file location
  mentor config reset            Reset to default configuration
    --json                       Output in JSON format

  Configuration Keys:
    api_key              Gemini API key (or set GEMINI_API_KEY)
    default_model        Model for new sessions
    temperature          Reply sampling temperature (0.0 - 2.0)
    stream_timeout_secs  Per-reply stream timeout in seconds
    theme                UI theme (dark/light/auto)
    show_stats           Show stream timing under replies (true/false)
    compact_mode         Compact UI layout (true/false)
    markdown             Render replies as markdown (true/false)

Global Flags:
  -q, --quiet     Minimal output
  -v, --verbose   Debug output
  --model NAME    Override the configured model
  --json          Output in JSON format (config, status, version)

Examples:
  mentor                               Start the TUI
  mentor ask "How do I raise my rates?"
  mentor ask "Review this contract:" --file contract.md
  mentor chat --model gemini-2.0-flash
  mentor config set temperature 0.9
  mentor status

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("mentor version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	// Parse global flags first
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	// Check first argument for command
	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command. Suggest a correction on stderr, then treat
		// the whole line as a question so "mentor how do I ..." works.
		if suggestion := SuggestCommand(cmd); suggestion != "" {
			fmt.Fprintln(os.Stderr, RenderConditional(WarningStyle,
				fmt.Sprintf("Unknown command %q. Did you mean %q?", cmd, suggestion)))
			return CmdHelp, parsedArgs
		}
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		parseAskArgs(&parsedArgs, parsedArgs.Raw)
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--plain":
			parsedArgs.Plain = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		default:
			// Check for --file=value or --model=value format
			if strings.HasPrefix(arg, "--file=") {
				args.File = strings.TrimPrefix(arg, "--file=")
			} else if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
			} else if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				args.Model = strings.TrimPrefix(arg, "--model=")
			}
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// ERROR HANDLING: Errors must not be silently ignored

// HandleAsk handles the "ask" command.
// This delegates to the full implementation in ask.go.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
// This delegates to the full implementation in chat.go.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("Error:"), err)
		os.Exit(GetExitCode(err))
	}
}

// NOTE: HandleStatus is implemented in status.go
// NOTE: HandleConfig is implemented in config.go

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		outputJSON(map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
		})
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
