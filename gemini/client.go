package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	counsel "github.com/mlevan/counsel"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ counsel.Provider = (*Client)(nil)

// Client implements [counsel.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Generate sends a blocking generateContent request to the Gemini API.
func (c *Client) Generate(ctx context.Context, req counsel.Request) (*counsel.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	contents := ConvertTurns(req.History)
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: req.Prompt}},
	})

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, buildConfig(req))
	if err != nil {
		return nil, classify(err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini: empty response from model %s", model)
	}

	out := &counsel.Response{
		Text:  text,
		Model: model,
	}
	if resp.UsageMetadata != nil {
		out.Usage = counsel.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

func buildConfig(req counsel.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}

	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	if req.TopP != nil {
		topP := float32(*req.TopP)
		config.TopP = &topP
	}
	if req.TopK != nil {
		topK := float32(*req.TopK)
		config.TopK = &topK
	}

	return config
}

// ConvertTurns converts counsel Turns to genai Contents.
// Exported for testing.
func ConvertTurns(turns []counsel.Turn) []*genai.Content {
	var result []*genai.Content
	for _, t := range turns {
		role := "user"
		if t.Role == counsel.RoleAssistant {
			role = "model"
		}
		result = append(result, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Content}},
		})
	}
	return result
}

// classify wraps rate-limit and server-side API errors with
// counsel.ErrTransient so callers can retry them.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("gemini: %v: %w", err, counsel.ErrTransient)
		}
		return fmt.Errorf("gemini: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("gemini: %w", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// A single attempt timing out is a transient network condition.
		return fmt.Errorf("gemini: %v: %w", err, counsel.ErrTransient)
	}
	// Anything else is a transport-level failure (connection reset, DNS),
	// which is worth a retry.
	return fmt.Errorf("gemini: %v: %w", err, counsel.ErrTransient)
}
