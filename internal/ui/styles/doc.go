// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the mentor TUI.

This package defines the color palette, pre-computed Lip Gloss styles, and
spinner animations used throughout the application. All colors use
AdaptiveColor for automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Teal - Brand color, headers, the mentor identity
  - Indigo - User highlights, prompts, and selections
  - Emerald - Success and connected states
  - Amber - Warnings and busy indicators
  - Rose - Errors and failed turns

## Message Bubbles

User, mentor, and error messages each carry their own background,
foreground, and border tokens:

	UserBubbleBg / UserBubbleFg / UserBubbleBorder
	MentorBubbleBg / MentorBubbleFg / MentorBubbleBorder
	ErrorBubbleBg / ErrorBubbleFg / ErrorBubbleBorder

## Surfaces and Text

	Surface / SurfaceDim         - Backgrounds
	Overlay / OverlayDim         - Borders and separators
	TextPrimary / TextSecondary
	TextMuted / TextInverse

# Theme (theme.go)

Theme holds every styled component as a pre-computed lipgloss.Style.
Construct it once at startup:

	theme := styles.NewTheme()

NewTheme detects the terminal color profile and background via termenv.
SetSize updates dimensions on resize, and GetLayoutMode maps the width to
narrow, medium, or wide layouts.

# Animations (animations.go)

SpinnerConfig defines ASCII-only spinner frames with a frame rate. The
chat view uses BrailleSpinner while waiting for the first reply fragment;
the plain terminal mode uses DotsSpinner.
*/
package styles
