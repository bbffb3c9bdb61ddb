// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"strings"
	"time"
)

// =============================================================================
// STREAM STATISTICS
// =============================================================================

// StreamStats holds statistics collected during a reply stream.
type StreamStats struct {
	// Timing
	StartTime         time.Time
	FirstFragmentTime time.Time
	EndTime           time.Time

	// Counts
	Fragments int
	Runes     int

	// Computed
	TTFF            time.Duration // Time to first fragment
	FragmentsPerSec float64
}

// NewStreamStats creates a new StreamStats with start time set.
func NewStreamStats() *StreamStats {
	return &StreamStats{
		StartTime: time.Now(),
	}
}

// RecordFirstFragment marks the time of first fragment arrival.
func (s *StreamStats) RecordFirstFragment() {
	if s.FirstFragmentTime.IsZero() {
		s.FirstFragmentTime = time.Now()
		s.TTFF = s.FirstFragmentTime.Sub(s.StartTime)
	}
}

// Finalize computes final statistics once the stream ends.
func (s *StreamStats) Finalize() {
	s.EndTime = time.Now()

	elapsed := s.EndTime.Sub(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FragmentsPerSec = float64(s.Fragments) / elapsed
	}
}

// Format returns a formatted string representation.
func (s *StreamStats) Format() string {
	totalSec := s.EndTime.Sub(s.StartTime).Seconds()
	ttffMs := s.TTFF.Milliseconds()

	return formatStatsDuration(totalSec) + " | " +
		formatStatsInt(s.Fragments) + " fragments | " +
		formatStatsFloat(s.FragmentsPerSec) + " frag/s | " +
		"TTFF " + formatStatsInt(int(ttffMs)) + "ms"
}

// =============================================================================
// STREAM ACCUMULATOR
// =============================================================================

// StreamAccumulator collects reply fragments and builds statistics.
type StreamAccumulator struct {
	content strings.Builder
	stats   *StreamStats
}

// NewStreamAccumulator creates a new accumulator with stats tracking.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{
		stats: NewStreamStats(),
	}
}

// Append adds one fragment to the accumulated reply.
func (a *StreamAccumulator) Append(fragment string) {
	a.stats.RecordFirstFragment()
	a.stats.Fragments++
	a.stats.Runes += len([]rune(fragment))
	a.content.WriteString(fragment)
}

// Content returns the reply accumulated so far.
func (a *StreamAccumulator) Content() string {
	return a.content.String()
}

// Empty reports whether no non-empty fragment has arrived.
func (a *StreamAccumulator) Empty() bool {
	return a.content.Len() == 0
}

// Stats finalizes and returns the stream statistics.
func (a *StreamAccumulator) Stats() *StreamStats {
	a.stats.Finalize()
	return a.stats
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatStatsInt formats an integer without using fmt.
func formatStatsInt(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// formatStatsFloat formats a float with one decimal place without fmt.
func formatStatsFloat(f float64) string {
	whole := int(f)
	frac := int((f - float64(whole)) * 10)
	if frac < 0 {
		frac = -frac
	}
	return formatStatsInt(whole) + "." + formatStatsInt(frac)
}

// formatStatsDuration formats seconds as "1.2s" without fmt.
func formatStatsDuration(seconds float64) string {
	return formatStatsFloat(seconds) + "s"
}
