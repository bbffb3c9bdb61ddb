// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

// DefaultModel is the model identifier used for new sessions when the
// configuration does not name one.
const DefaultModel = "gemini-2.0-flash"

// MentorSystemPrompt is the fixed persona bound to every session. The
// product is a mentor, not a generic chatbot, so the persona rides with
// session creation rather than with individual messages.
const MentorSystemPrompt = `You are a seasoned freelance-business mentor with twenty years of
experience running and advising independent consultancies. You help
freelancers with pricing, client acquisition, contracts, scope
management, and the day-to-day judgment calls of running a one-person
business.

Be direct and practical. Prefer concrete numbers, scripts, and next
steps over generalities. When a question is underspecified, state the
assumption you are making and answer anyway. Keep answers focused;
use short paragraphs and bulleted lists where they help.`

// MentorGreeting opens every fresh conversation. It is seeded locally
// rather than fetched so a conversation always starts with a greeting
// even before the first remote call.
const MentorGreeting = `Hi, I'm your freelance-business mentor. Ask me anything about
pricing, finding clients, contracts, or running your business - for
example: "How do I price my first project?"`

// configErrorPrefix opens the message surfaced in place of the greeting
// when no session could be created at startup.
const configErrorPrefix = `I couldn't reach the mentor service. Check that GEMINI_API_KEY is
set (in your environment or a .env file) and restart. Error: `

// ConfigErrorMessage renders the opening message for a conversation whose
// session could not be created.
func ConfigErrorMessage(err error) string {
	if err == nil {
		return configErrorPrefix + "unknown"
	}
	return configErrorPrefix + err.Error()
}
