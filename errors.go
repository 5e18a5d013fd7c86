package counsel

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrTemplate indicates a prompt template could not be rendered,
	// typically because a required placeholder value was missing.
	ErrTemplate = errors.New("template error")

	// ErrTransient marks a provider failure as retryable (rate limits,
	// upstream overload, network errors). Providers wrap retryable
	// failures with this sentinel so callers can errors.Is them.
	ErrTransient = errors.New("transient provider error")
)
