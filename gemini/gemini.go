// Package gemini implements [counsel.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between counsel's
// domain types and the Gemini API types. Requests are single blocking
// generateContent calls; rate-limit and server-side failures are marked
// with [counsel.ErrTransient] so the chat service can retry them.
package gemini

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 2048
)
