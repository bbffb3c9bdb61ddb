// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// ERROR TAXONOMY TESTS
// =============================================================================

func TestClientErrorMessage(t *testing.T) {
	err := &ClientError{Type: ErrTypeStream, Message: "reply stream failed"}
	if err.Error() != "reply stream failed" {
		t.Errorf("Expected bare message, got '%s'", err.Error())
	}

	wrapped := &ClientError{Type: ErrTypeStream, Message: "reply stream failed", Cause: errors.New("EOF")}
	if wrapped.Error() != "reply stream failed: EOF" {
		t.Errorf("Expected message with cause, got '%s'", wrapped.Error())
	}
}

func TestClientErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &ClientError{Type: ErrTypeStream, Message: "reply stream failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause to errors.Is")
	}
}

func TestClassifyErrorNil(t *testing.T) {
	if ClassifyError(nil) != nil {
		t.Error("Classifying nil should return nil")
	}
}

func TestClassifyErrorPassthrough(t *testing.T) {
	original := &ClientError{Type: ErrTypeSessionCreation, Message: "no key"}

	classified := ClassifyError(original)
	if classified != original {
		t.Error("Already-classified errors should pass through unchanged")
	}
}

func TestClassifyErrorSessionInvalid(t *testing.T) {
	cases := []string{
		"rpc error: invalid session entity",
		"session expired, please create a new one",
		"session not found",
	}

	for _, msg := range cases {
		classified := ClassifyError(errors.New(msg))
		if classified.Type != ErrTypeSessionInvalid {
			t.Errorf("Expected session-invalid for %q, got type %d", msg, classified.Type)
		}
		if !IsSessionInvalid(classified) {
			t.Errorf("IsSessionInvalid should be true for %q", msg)
		}
	}
}

func TestClassifyErrorStreamFallback(t *testing.T) {
	classified := ClassifyError(errors.New("connection reset by peer"))

	if classified.Type != ErrTypeStream {
		t.Errorf("Expected stream failure fallback, got type %d", classified.Type)
	}
	if !IsStreamFailure(classified) {
		t.Error("IsStreamFailure should be true for unclassified transport errors")
	}
	if IsSessionInvalid(classified) {
		t.Error("IsSessionInvalid should be false for transport errors")
	}
}

func TestErrorPredicatesOnWrappedErrors(t *testing.T) {
	inner := &ClientError{Type: ErrTypeSessionInvalid, Message: "chat session is no longer valid"}
	wrapped := errors.Join(errors.New("turn failed"), inner)

	if !IsSessionInvalid(wrapped) {
		t.Error("IsSessionInvalid should see through wrapping")
	}
	if IsSessionCreationFailure(wrapped) {
		t.Error("IsSessionCreationFailure should be false for session-invalid")
	}
}

func TestErrorPredicatesOnPlainErrors(t *testing.T) {
	plain := errors.New("some other error")

	if IsSessionInvalid(plain) || IsSessionCreationFailure(plain) || IsStreamFailure(plain) {
		t.Error("Predicates should be false for non-client errors")
	}
}

// =============================================================================
// CLIENT CONFIGURATION TESTS
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Model != DefaultModel {
		t.Errorf("Expected default model %s, got %s", DefaultModel, config.Model)
	}
	if config.SystemPrompt == "" {
		t.Error("Default config should carry the persona")
	}
	if config.Greeting == "" {
		t.Error("Default config should carry the greeting")
	}
	if config.StreamTimeout != 2*time.Minute {
		t.Errorf("Expected 2m stream timeout, got %v", config.StreamTimeout)
	}
}

func TestNewClientWithConfigFillsDefaults(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{APIKey: "test-key"})

	config := client.Config()
	if config.Model != DefaultModel {
		t.Errorf("Zero model should get default, got %s", config.Model)
	}
	if config.SystemPrompt == "" {
		t.Error("Zero system prompt should get the persona")
	}
	if config.Temperature == 0 {
		t.Error("Zero temperature should get a default")
	}
}

func TestNewClientWithNilConfig(t *testing.T) {
	client := NewClientWithConfig(nil)

	if client.Config() == nil {
		t.Fatal("Nil config should fall back to defaults")
	}
	if client.Config().Model != DefaultModel {
		t.Error("Nil config should get the default model")
	}
}

func TestCreateSessionWithoutAPIKey(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{})

	_, err := client.CreateSession(context.Background())
	if err == nil {
		t.Fatal("CreateSession without API key should fail")
	}
	if !IsSessionCreationFailure(err) {
		t.Error("Missing API key should classify as session-creation failure")
	}
}

func TestGreeting(t *testing.T) {
	client := NewClient()

	if client.Greeting() != MentorGreeting {
		t.Error("Greeting should return the configured opener")
	}
}

func TestConfigErrorMessage(t *testing.T) {
	msg := ConfigErrorMessage(errors.New("no API key"))

	if !strings.Contains(msg, "GEMINI_API_KEY") {
		t.Error("Config error message should name the env var")
	}
	if !strings.Contains(msg, "no API key") {
		t.Error("Config error message should include the cause")
	}

	if !strings.Contains(ConfigErrorMessage(nil), "unknown") {
		t.Error("Nil cause should render as unknown")
	}
}

// =============================================================================
// STREAM ACCUMULATOR TESTS
// =============================================================================

func TestStreamAccumulatorAppend(t *testing.T) {
	acc := NewStreamAccumulator()

	if !acc.Empty() {
		t.Error("New accumulator should be empty")
	}

	acc.Append("Hello")
	acc.Append(", ")
	acc.Append("world")

	if acc.Empty() {
		t.Error("Accumulator with content should not be empty")
	}
	if acc.Content() != "Hello, world" {
		t.Errorf("Expected 'Hello, world', got '%s'", acc.Content())
	}
}

func TestStreamAccumulatorStats(t *testing.T) {
	acc := NewStreamAccumulator()

	acc.Append("one")
	acc.Append("two")

	stats := acc.Stats()
	if stats.Fragments != 2 {
		t.Errorf("Expected 2 fragments, got %d", stats.Fragments)
	}
	if stats.Runes != 6 {
		t.Errorf("Expected 6 runes, got %d", stats.Runes)
	}
	if stats.TTFF <= 0 {
		t.Error("TTFF should be recorded on first fragment")
	}
	if stats.EndTime.IsZero() {
		t.Error("Finalize should set end time")
	}
}

func TestStreamAccumulatorUnicode(t *testing.T) {
	acc := NewStreamAccumulator()

	acc.Append("世界")

	if acc.Content() != "世界" {
		t.Errorf("Expected '世界', got '%s'", acc.Content())
	}
	if acc.Stats().Runes != 2 {
		t.Errorf("Expected 2 runes for CJK fragment, got %d", acc.Stats().Runes)
	}
}

func TestStreamStatsRecordFirstFragmentOnce(t *testing.T) {
	stats := NewStreamStats()

	stats.RecordFirstFragment()
	first := stats.FirstFragmentTime
	time.Sleep(2 * time.Millisecond)
	stats.RecordFirstFragment()

	if stats.FirstFragmentTime != first {
		t.Error("RecordFirstFragment should only record the first arrival")
	}
}

func TestStreamStatsFormat(t *testing.T) {
	stats := NewStreamStats()
	stats.RecordFirstFragment()
	stats.Fragments = 10
	stats.Finalize()

	formatted := stats.Format()
	if !strings.Contains(formatted, "fragments") {
		t.Errorf("Format should mention fragments, got '%s'", formatted)
	}
	if !strings.Contains(formatted, "TTFF") {
		t.Errorf("Format should mention TTFF, got '%s'", formatted)
	}
}

// =============================================================================
// FORMAT HELPER TESTS
// =============================================================================

func TestFormatStatsInt(t *testing.T) {
	cases := map[int]string{
		0:    "0",
		7:    "7",
		42:   "42",
		1234: "1234",
		-15:  "-15",
	}

	for input, expected := range cases {
		if got := formatStatsInt(input); got != expected {
			t.Errorf("formatStatsInt(%d) = '%s', expected '%s'", input, got, expected)
		}
	}
}

func TestFormatStatsFloat(t *testing.T) {
	if got := formatStatsFloat(3.75); got != "3.7" {
		t.Errorf("formatStatsFloat(3.75) = '%s', expected '3.7'", got)
	}
	if got := formatStatsFloat(0.0); got != "0.0" {
		t.Errorf("formatStatsFloat(0.0) = '%s', expected '0.0'", got)
	}
}
