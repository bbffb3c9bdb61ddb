// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import "strings"

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo contains detailed information about a model.
// This is used for model validation and display in the UI.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Tier categorizes the model's capability level
	Tier string `json:"tier"`

	// MaxTokens is the maximum context window size
	MaxTokens int `json:"max_tokens"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Models is the registry of known Gemini models with their metadata.
var Models = map[string]ModelInfo{
	"gemini-2.0-flash": {
		ID:          "gemini-2.0-flash",
		Name:        "Gemini 2.0 Flash",
		Tier:        "Fast",
		MaxTokens:   1048576,
		Description: "Fast general-purpose model, good default for chat",
	},
	"gemini-2.0-flash-lite": {
		ID:          "gemini-2.0-flash-lite",
		Name:        "Gemini 2.0 Flash-Lite",
		Tier:        "Fast",
		MaxTokens:   1048576,
		Description: "Lowest latency for short exchanges",
	},
	"gemini-2.5-flash": {
		ID:          "gemini-2.5-flash",
		Name:        "Gemini 2.5 Flash",
		Tier:        "Balanced",
		MaxTokens:   1048576,
		Description: "Balanced speed and reasoning depth",
	},
	"gemini-2.5-pro": {
		ID:          "gemini-2.5-pro",
		Name:        "Gemini 2.5 Pro",
		Tier:        "Powerful",
		MaxTokens:   1048576,
		Description: "Strongest reasoning, slower responses",
	},
}

// =============================================================================
// MODEL INFO METHODS
// =============================================================================

// TierIcon returns an icon character for the model tier.
func (m ModelInfo) TierIcon() string {
	switch m.Tier {
	case "Fast":
		return "⚡"
	case "Balanced":
		return "◆"
	case "Powerful":
		return "★"
	default:
		return "·"
	}
}

// ContextString returns a formatted context window string.
func (m ModelInfo) ContextString() string {
	if m.MaxTokens >= 1000000 {
		return formatInt(m.MaxTokens/1000000) + "M context"
	}
	if m.MaxTokens >= 1000 {
		return formatInt(m.MaxTokens/1000) + "K context"
	}
	return formatInt(m.MaxTokens) + " context"
}

// =============================================================================
// MODEL LOOKUP FUNCTIONS
// =============================================================================

// GetModelInfo looks up a model by short name or ID.
// Returns the ModelInfo and true if found, otherwise empty ModelInfo and false.
func GetModelInfo(nameOrID string) (ModelInfo, bool) {
	// Try direct lookup
	if info, ok := Models[nameOrID]; ok {
		return info, true
	}

	// Versioned IDs like "gemini-2.5-flash-preview-05-20" resolve to the
	// family entry, keeping display info available for preview releases.
	for key, info := range Models {
		if strings.HasPrefix(nameOrID, key) {
			resolved := info
			resolved.ID = nameOrID
			return resolved, true
		}
	}

	// Try partial match on name
	lowerName := strings.ToLower(nameOrID)
	for _, info := range Models {
		if strings.Contains(strings.ToLower(info.Name), lowerName) {
			return info, true
		}
	}

	return ModelInfo{}, false
}

// IsKnownModel reports whether the ID resolves to a registry entry.
func IsKnownModel(nameOrID string) bool {
	_, ok := GetModelInfo(nameOrID)
	return ok
}

// GetModelsByTier returns all models of a specific tier.
func GetModelsByTier(tier string) []ModelInfo {
	result := []ModelInfo{}
	lowerTier := strings.ToLower(tier)

	for _, info := range Models {
		if strings.ToLower(info.Tier) == lowerTier {
			result = append(result, info)
		}
	}

	return result
}

// ModelShortNames returns a slice of all model short names.
func ModelShortNames() []string {
	names := make([]string, 0, len(Models))
	for name := range Models {
		names = append(names, name)
	}
	return names
}
