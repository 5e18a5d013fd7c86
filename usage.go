package counsel

// Usage tracks token consumption reported in a provider response.
//
// Invariant across all providers:
//
//	PromptTokens     = tokens in the request (history + prompt + system)
//	CompletionTokens = tokens in the generated reply
//	TotalTokens      = PromptTokens + CompletionTokens as reported by the
//	                   provider; when the provider omits a total it is
//	                   derived from the two parts.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Total returns the provider-reported total, deriving it from the parts
// when the provider left it unset.
func (u Usage) Total() int {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.PromptTokens + u.CompletionTokens
}
