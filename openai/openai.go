// Package openai implements [counsel.Provider] for the OpenAI chat
// completions API via the sashabaranov/go-openai SDK. Rate-limit and
// server-side failures are marked with [counsel.ErrTransient] so the chat
// service can retry them.
package openai

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 2048
)
