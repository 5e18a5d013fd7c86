package main

import (
	"context"
	"fmt"

	counsel "github.com/mlevan/counsel"
	"github.com/mlevan/counsel/gemini"
	"github.com/mlevan/counsel/openai"
)

// resolveProvider constructs the model backend. The credential is passed in
// as a value so environment access stays in run().
func resolveProvider(ctx context.Context, name, apiKey, model string) (counsel.Provider, error) {
	switch name {
	case "gemini":
		var opts []gemini.Option
		if model != "" {
			opts = append(opts, gemini.WithModel(model))
		}
		client, err := gemini.New(ctx, apiKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil

	case "openai":
		var opts []openai.Option
		if model != "" {
			opts = append(opts, openai.WithModel(model))
		}
		return openai.New(apiKey, opts...), nil

	default:
		return nil, fmt.Errorf("unknown provider %q: must be \"gemini\" or \"openai\"", name)
	}
}
