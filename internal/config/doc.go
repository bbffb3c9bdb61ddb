// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management.
//
// Configuration is resolved in layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. ~/.mentor/config.toml, falling back to ~/.mentor/config.json
//  3. A .env file in the working directory (for GEMINI_API_KEY)
//  4. Environment variables (GEMINI_API_KEY, MENTOR_MODEL, MENTOR_THEME,
//     MENTOR_COMPACT, MENTOR_NO_MARKDOWN, MENTOR_TEMPERATURE)
//
// The package exposes a thread-safe Global() singleton loaded on first
// access, plus explicit Load/Save functions for tooling. Validate reports
// all problems at once as ValidateErrors rather than stopping at the
// first.
package config
