package counsel

import "context"

// Provider is a strategy pattern interface for LLM providers.
// Generate performs one blocking request/response exchange. Cancellation
// and timeouts flow through the context.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request carries model selection and generation parameters.
// The provider uses its own defaults when fields are zero/nil.
type Request struct {
	Model        string // model ID, provider-specific; empty = provider default
	SystemPrompt string
	// History is the trailing conversation, oldest first. It must not
	// include the prompt being sent.
	History []Turn
	// Prompt is the user message to complete.
	Prompt      string
	MaxTokens   int      // 0 = provider default
	Temperature *float64 // nil = provider default
	TopP        *float64 // nil = provider default
	TopK        *int     // nil = provider default; ignored by providers without top-k sampling
}

// Response is the provider's reply to a Request.
type Response struct {
	Text  string
	Usage Usage
	// Model is the model that served the request, when reported.
	Model string
}
