package counsel

import (
	"fmt"
	"strings"
)

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("prompt must not be empty: %w", ErrValidation)
	}
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.TopP != nil {
		if *r.TopP <= 0 || *r.TopP > 1 {
			return fmt.Errorf("top_p must be in (0, 1], got %g: %w", *r.TopP, ErrValidation)
		}
	}
	if r.TopK != nil && *r.TopK < 1 {
		return fmt.Errorf("top_k must be positive, got %d: %w", *r.TopK, ErrValidation)
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	for i, t := range r.History {
		if t.Role != RoleUser && t.Role != RoleAssistant {
			return fmt.Errorf("history turn %d has unknown role %q: %w", i, t.Role, ErrValidation)
		}
	}
	return nil
}
