// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for mentor.
//
// This package implements the line-oriented commands of the mentor
// application. Running mentor with no arguments starts the full-screen
// TUI; everything else dispatches through this package.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - ArgParser: Generic subcommand/flag/positional parser
//
// # Usage
//
// Parse and dispatch commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	case cli.CmdChat:
//	    cli.HandleChat(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - ask: Single question with a streamed, markdown-rendered answer
//   - chat: Interactive REPL with input history and slash commands
//   - config: View and modify configuration
//   - status: Configuration and connectivity status
//   - version, help
//
// config, status, and version support --json for machine-readable output.
package cli
