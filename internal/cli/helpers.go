// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface functionality.
// This file contains shared helper functions used across multiple CLI commands.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// formatDurationShort formats a short duration string.
func formatDurationShort(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}

// outputJSON outputs data as indented JSON on stdout.
func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ValidateOutputPath ensures path is safe for writing.
// Prevents path traversal attacks by validating the path is within allowed directories.
// SECURITY: Uses isPathWithinDirCLI to prevent HasPrefix bypass attacks.
func ValidateOutputPath(path string) (string, error) {
	// Clean the path
	cleaned := filepath.Clean(path)

	// Resolve to absolute
	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	// Check for traversal attempts
	if strings.Contains(path, "..") {
		return "", errors.New("path traversal not allowed")
	}

	// Ensure within allowed directories
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()

	allowed := []string{home, cwd, os.TempDir()}
	isAllowed := false
	for _, dir := range allowed {
		if dir == "" {
			continue
		}
		// SECURITY: Use proper path boundary checking instead of HasPrefix
		if isPathWithinDirCLI(abs, dir) {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		return "", fmt.Errorf("path must be within home, cwd, or temp directory")
	}

	return abs, nil
}

// isPathWithinDirCLI checks if a path is within a directory, ensuring proper path boundaries.
// SECURITY: Prevents HasPrefix bypass where /home/userEVIL would pass check for /home/user.
func isPathWithinDirCLI(path, dir string) bool {
	// Clean both paths for consistent comparison
	cleanPath := filepath.Clean(path)
	cleanDir := filepath.Clean(dir)

	// Exact match - path is the directory itself
	if cleanPath == cleanDir {
		return true
	}

	// Ensure directory path ends with separator for prefix check
	// This prevents /home/userEVIL from matching /home/user
	dirWithSep := cleanDir + string(filepath.Separator)

	// Check if path starts with directory + separator
	return strings.HasPrefix(cleanPath, dirWithSep)
}
