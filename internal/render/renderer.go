package render

import (
	"context"
	"fmt"
)

// Renderer produces vector markup from a template identifier and a context.
type Renderer interface {
	Render(ctx context.Context, templateID string, data Context) (string, error)
}

// TemplateError reports a template that failed to parse or execute.
type TemplateError struct {
	TemplateID string
	Target     string
	Err        error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("template %s (rendering %s): %v", e.TemplateID, e.Target, e.Err)
	}
	return fmt.Sprintf("template %s: %v", e.TemplateID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TemplateError) Unwrap() error {
	return e.Err
}
