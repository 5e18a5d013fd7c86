// Package mock provides test doubles for counsel interfaces using
// function fields.
package mock

import (
	"context"

	counsel "github.com/mlevan/counsel"
)

// Interface compliance check.
var _ counsel.Provider = (*Provider)(nil)

// Provider is a test double for counsel.Provider.
// Set GenerateFn before calling Generate; it panics when nil to catch
// missing setup.
type Provider struct {
	GenerateFn func(ctx context.Context, req counsel.Request) (*counsel.Response, error)
}

// Generate delegates to GenerateFn.
func (p *Provider) Generate(ctx context.Context, req counsel.Request) (*counsel.Response, error) {
	return p.GenerateFn(ctx, req)
}
