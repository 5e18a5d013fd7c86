package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	counsel "github.com/mlevan/counsel"
	openai "github.com/sashabaranov/go-openai"
)

// Interface compliance check.
var _ counsel.Provider = (*Client)(nil)

// Client implements [counsel.Provider] for the OpenAI chat completions API.
type Client struct {
	client *openai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gpt-4o-mini.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new OpenAI [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		client: openai.NewClient(apiKey),
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate sends a blocking chat completion request to the OpenAI API.
func (c *Client) Generate(ctx context.Context, req counsel.Request) (*counsel.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	resp, err := c.client.CreateChatCompletion(ctx, buildRequest(req, c.model))
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("openai: empty response from model %s", resp.Model)
	}

	return &counsel.Response{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
		Usage: counsel.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func buildRequest(req counsel.Request, defaultModelID string) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = defaultModelID
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	out := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  ConvertTurns(req.SystemPrompt, req.History, req.Prompt),
		MaxTokens: maxTokens,
	}
	if req.Temperature != nil {
		out.Temperature = float32(*req.Temperature)
	}
	if req.TopP != nil {
		out.TopP = float32(*req.TopP)
	}
	// TopK is ignored: the chat completions API has no top-k parameter.
	return out
}

// ConvertTurns assembles the chat completion message list: optional system
// prompt, then history oldest first, then the user prompt.
// Exported for testing.
func ConvertTurns(systemPrompt string, history []counsel.Turn, prompt string) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if systemPrompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, t := range history {
		role := openai.ChatMessageRoleUser
		if t.Role == counsel.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	return msgs
}

// classify wraps rate-limit and server-side API errors with
// counsel.ErrTransient so callers can retry them.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("openai: %v: %w", err, counsel.ErrTransient)
		}
		return fmt.Errorf("openai: %w", err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("openai: %v: %w", err, counsel.ErrTransient)
		}
		return fmt.Errorf("openai: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("openai: %w", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// A single attempt timing out is a transient network condition.
		return fmt.Errorf("openai: %v: %w", err, counsel.ErrTransient)
	}
	// Anything else is a transport-level failure, which is worth a retry.
	return fmt.Errorf("openai: %v: %w", err, counsel.ErrTransient)
}
