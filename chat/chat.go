// Package chat orchestrates a conversation exchange: it appends the user's
// turn to the session store, sends the prompt with trailing history to the
// provider, retries transient failures with exponential backoff, and
// degrades to a static fallback message when retries are exhausted.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	counsel "github.com/mlevan/counsel"
	"github.com/mlevan/counsel/metrics"
	"github.com/mlevan/counsel/prompt"
	"github.com/mlevan/counsel/store"
)

const (
	defaultMaxRetries = 2
	defaultTimeout    = 30 * time.Second
)

// Service joins the session store, the prompt templates, and a provider.
type Service struct {
	provider counsel.Provider
	store    *store.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger

	systemPrompt string
	model        string
	maxTokens    int
	temperature  *float64
	topP         *float64
	topK         *int
	maxRetries   int
	timeout      time.Duration
	backoff      func(attempt int) time.Duration
}

// Option configures a [Service].
type Option func(*Service)

// WithModel sets the model ID sent with each request. Empty means the
// provider's default.
func WithModel(model string) Option {
	return func(s *Service) { s.model = model }
}

// WithSystemPrompt overrides the built-in system prompt.
func WithSystemPrompt(p string) Option {
	return func(s *Service) { s.systemPrompt = p }
}

// WithMaxTokens bounds the generated reply. Zero means provider default.
func WithMaxTokens(n int) Option {
	return func(s *Service) { s.maxTokens = n }
}

// WithSampling sets the generation parameters. Nil values mean provider
// defaults.
func WithSampling(temperature, topP *float64, topK *int) Option {
	return func(s *Service) {
		s.temperature = temperature
		s.topP = topP
		s.topK = topK
	}
}

// WithMaxRetries sets how many times a transient failure is retried before
// the fallback message is served. Default is 2.
func WithMaxRetries(n int) Option {
	return func(s *Service) { s.maxRetries = n }
}

// WithTimeout bounds each individual provider attempt. Default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithMetrics attaches Prometheus counters. Nil disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the structured logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithBackoff overrides the sleep between retry attempts. Used by tests.
func WithBackoff(f func(attempt int) time.Duration) Option {
	return func(s *Service) { s.backoff = f }
}

// New creates a chat Service over the given provider and session store.
func New(provider counsel.Provider, st *store.Store, opts ...Option) *Service {
	s := &Service{
		provider:     provider,
		store:        st,
		logger:       slog.Default(),
		systemPrompt: prompt.System(),
		maxRetries:   defaultMaxRetries,
		timeout:      defaultTimeout,
		backoff: func(attempt int) time.Duration {
			return time.Second << attempt
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Reply is the outcome of a Send call.
type Reply struct {
	Text  string
	Usage counsel.Usage
	Model string
	// Fallback is true when the text is the static fallback message
	// served after retries were exhausted.
	Fallback bool
}

// Send processes one user message in the identified session. The user turn
// is appended before the provider is called; the assistant turn is
// appended only for genuine model output, never for the fallback message.
//
// Transient provider failures are retried up to the configured count with
// exponential backoff. Exhaustion yields the fallback reply and a nil
// error; non-transient failures are returned to the caller.
func (s *Service) Send(ctx context.Context, sessionID, text string) (Reply, error) {
	req := counsel.Request{
		Model:        s.model,
		SystemPrompt: s.systemPrompt,
		History:      s.store.History(sessionID),
		Prompt:       text,
		MaxTokens:    s.maxTokens,
		Temperature:  s.temperature,
		TopP:         s.topP,
		TopK:         s.topK,
	}
	if err := req.Validate(); err != nil {
		return Reply{}, err
	}

	s.store.Append(sessionID, counsel.NewUserTurn(text))

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			s.count(func(m *metrics.Metrics) { m.Retries.Inc() })
			s.logger.Warn("retrying after transient failure",
				slog.String("session", sessionID),
				slog.Int("attempt", attempt),
				slog.Any("error", lastErr))
			if err := s.sleep(ctx, s.backoff(attempt-1)); err != nil {
				return Reply{}, err
			}
		}

		start := time.Now()
		resp, err := s.generate(ctx, req)
		if err == nil {
			reply := s.record(sessionID, resp)
			s.logger.Info("turn complete",
				slog.String("session", sessionID),
				slog.String("model", resp.Model),
				slog.Int("tokens", reply.Usage.Total()),
				slog.Duration("elapsed", time.Since(start)))
			return reply, nil
		}

		if !errors.Is(err, counsel.ErrTransient) {
			s.count(func(m *metrics.Metrics) { m.Failures.Inc() })
			return Reply{}, fmt.Errorf("chat: %w", err)
		}
		lastErr = err
	}

	s.count(func(m *metrics.Metrics) { m.Fallbacks.Inc() })
	s.logger.Error("retries exhausted, serving fallback",
		slog.String("session", sessionID),
		slog.Int("attempts", s.maxRetries+1),
		slog.Any("error", lastErr))
	return Reply{Text: prompt.Fallback(), Fallback: true}, nil
}

func (s *Service) generate(ctx context.Context, req counsel.Request) (*counsel.Response, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.provider.Generate(ctx, req)
}

// record appends the assistant turn with its token count and bumps counters.
func (s *Service) record(sessionID string, resp *counsel.Response) Reply {
	s.store.Append(sessionID, counsel.NewAssistantTurn(resp.Text, resp.Usage.Total()))
	s.count(func(m *metrics.Metrics) {
		m.Requests.Inc()
		m.PromptTokens.Add(float64(resp.Usage.PromptTokens))
		m.CompletionTokens.Add(float64(resp.Usage.CompletionTokens))
		m.TotalTokens.Add(float64(resp.Usage.Total()))
	})
	return Reply{Text: resp.Text, Usage: resp.Usage, Model: resp.Model}
}

func (s *Service) count(f func(*metrics.Metrics)) {
	if s.metrics != nil {
		f(s.metrics)
	}
}

// sleep waits for d or until the context is done.
func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
