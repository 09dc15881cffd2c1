// Package template renders the installer script skeleton using Handlebars.
// The assembler computes the loop-heavy fragments (helper routines, install
// and uninstall sections, adjustment ledger) and this package injects them
// into the skeleton, which callers may replace with their own template.
package template

import (
	_ "embed"
	"fmt"

	"github.com/aymerick/raymond"
)

//go:embed script.nsi.hbs
var defaultSkeleton string

// Renderer fills the script skeleton with generated content.
type Renderer struct {
	// CustomSkeleton replaces the embedded skeleton when non-empty.
	CustomSkeleton string
}

// Render produces the final script text from the context.
// Context values are injected triple-stache in the default skeleton, so no
// HTML escaping is applied to them.
func (r *Renderer) Render(ctx map[string]interface{}) (string, error) {
	skeleton := defaultSkeleton
	if r.CustomSkeleton != "" {
		skeleton = r.CustomSkeleton
	}
	result, err := raymond.Render(skeleton, ctx)
	if err != nil {
		return "", fmt.Errorf("rendering script template: %w", err)
	}
	return result, nil
}

// RenderString renders an arbitrary Handlebars template with the context.
func RenderString(tmpl string, ctx map[string]interface{}) (string, error) {
	return raymond.Render(tmpl, ctx)
}

// DefaultSkeleton returns the embedded skeleton text.
func DefaultSkeleton() string {
	return defaultSkeleton
}
