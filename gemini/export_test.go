package gemini

// Test-only exports.
var (
	BuildConfig = buildConfig
	Classify    = classify
)
