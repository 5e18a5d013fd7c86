// Package prompt holds the assistant's prompt templates and renders them
// with placeholder substitution. Templates are stateless and shared across
// sessions; all prompt text is centralized here rather than scattered
// across other packages.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	counsel "github.com/mlevan/counsel"
)

// Registry is a set of named prompt templates. The zero value is not
// usable; construct one with NewRegistry.
type Registry struct {
	templates map[string]*template.Template
}

// NewRegistry returns a Registry preloaded with the built-in career
// advisor templates.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]*template.Template)}
	for name, text := range builtinTemplates {
		// Built-in templates are compile-time constants; a parse failure
		// is a programming error.
		r.templates[name] = template.Must(
			template.New(name).Option("missingkey=error").Parse(text),
		)
	}
	return r
}

// Names returns the registered template names in unspecified order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// Render executes the named template with the given substitution values.
// A missing template or a missing required placeholder returns an error
// wrapping counsel.ErrTemplate.
func (r *Registry) Render(name string, data map[string]any) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q: %w", name, counsel.ErrTemplate)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render template %q: %v: %w", name, err, counsel.ErrTemplate)
	}
	return b.String(), nil
}
