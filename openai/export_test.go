package openai

// Test-only exports.
var (
	BuildRequest = buildRequest
	Classify     = classify
)
