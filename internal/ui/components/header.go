// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/mentor-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with mentor branding
// =============================================================================

// Header represents the title bar component
type Header struct {
	Title     string // Main title (default: "mentor")
	Tagline   string // Subtitle under the brand
	ModelName string // Current model name
	Width     int    // Available width
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:     "mentor",
		Tagline:   "Freelance Business Mentor",
		ModelName: "",
		Width:     80,
		theme:     theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the current model name
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// View renders the header component
func (h *Header) View() string {
	// Ensure minimum width
	width := h.Width
	if width < 40 {
		width = 40
	}

	// Calculate inner width (accounting for borders and padding)
	innerWidth := width - 6

	// Brand title
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Teal)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Indigo)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	// Subtitle line with tagline and model
	subtitleParts := []string{}

	if h.Tagline != "" {
		taglineStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, taglineStyle.Render(h.Tagline))
	}

	if h.ModelName != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		subtitleParts = append(subtitleParts, modelStyle.Render("["+h.ModelName+"]"))
	}

	subtitle := strings.Join(subtitleParts, " ")

	// Center the content
	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Teal).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a compact single-line header for narrow terminals
func (h *Header) ViewCompact() string {
	// Compact format: <mentor> | model
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Teal)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Indigo)

	brand := accentStyle.Render("<") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(">")

	parts := []string{brand}

	if h.ModelName != "" {
		modelStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		parts = append(parts, modelStyle.Render(h.ModelName))
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// =============================================================================
// GRADIENT TITLE (for terminals with true color support)
// =============================================================================

// GradientTitle creates a gradient text effect.
// Note: This works best in terminals with true color support
func GradientTitle(text string, startColor, endColor lipgloss.Color) string {
	if len(text) == 0 {
		return ""
	}

	// For short text, just use the start color
	if len(text) < 3 {
		return lipgloss.NewStyle().Foreground(startColor).Render(text)
	}

	// Build gradient character by character
	var result strings.Builder
	chars := []rune(text)
	n := len(chars)

	for i, char := range chars {
		// Calculate interpolation factor
		t := float64(i) / float64(n-1)

		color := interpolateColor(startColor, endColor, t)

		style := lipgloss.NewStyle().Foreground(color)
		result.WriteString(style.Render(string(char)))
	}

	return result.String()
}

// interpolateColor interpolates between two colors
// This is a simplified version that works for the gradient effect
func interpolateColor(start, end lipgloss.Color, t float64) lipgloss.Color {
	// Extract RGB values from hex colors
	startHex := string(start)
	endHex := string(end)

	// Handle # prefix
	if len(startHex) > 0 && startHex[0] == '#' {
		startHex = startHex[1:]
	}
	if len(endHex) > 0 && endHex[0] == '#' {
		endHex = endHex[1:]
	}

	// Parse hex colors (default to white if parsing fails)
	sr, sg, sb := parseHexColor(startHex)
	er, eg, eb := parseHexColor(endHex)

	// Interpolate each channel
	r := uint8(float64(sr) + t*(float64(er)-float64(sr)))
	g := uint8(float64(sg) + t*(float64(eg)-float64(sg)))
	b := uint8(float64(sb) + t*(float64(eb)-float64(sb)))

	// Format as hex color
	return lipgloss.Color(formatHexColor(r, g, b))
}

// parseHexColor parses a hex color string into RGB components
func parseHexColor(hex string) (r, g, b uint8) {
	if len(hex) < 6 {
		return 255, 255, 255 // Default to white
	}

	// Parse each component
	r = parseHexByte(hex[0:2])
	g = parseHexByte(hex[2:4])
	b = parseHexByte(hex[4:6])
	return
}

// parseHexByte parses a two-character hex string into a byte
func parseHexByte(s string) uint8 {
	if len(s) != 2 {
		return 255
	}

	var result uint8
	for _, c := range s {
		result *= 16
		switch {
		case c >= '0' && c <= '9':
			result += uint8(c - '0')
		case c >= 'a' && c <= 'f':
			result += uint8(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			result += uint8(c - 'A' + 10)
		default:
			return 255
		}
	}
	return result
}

// formatHexColor formats RGB values as a hex color string
func formatHexColor(r, g, b uint8) string {
	const hexChars = "0123456789ABCDEF"
	return "#" +
		string(hexChars[r>>4]) + string(hexChars[r&0xF]) +
		string(hexChars[g>>4]) + string(hexChars[g&0xF]) +
		string(hexChars[b>>4]) + string(hexChars[b&0xF])
}
