// Package rendering exports analysis results as Markdown or plain text.
package rendering

import (
	"errors"
	"fmt"
	"io/fs"
)

// RenderError reports an export format that has no renderer.
type RenderError struct {
	Format string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("unknown export format %q: use markdown or text", e.Format)
}

// TemplateError wraps a failure to load, parse or execute a custom export template.
type TemplateError struct {
	Path string
	Op   string // "read", "parse" or "execute"
	Err  error
}

func (e *TemplateError) Error() string {
	switch e.Op {
	case "read":
		if errors.Is(e.Err, fs.ErrNotExist) {
			return fmt.Sprintf("template file not found: %s", e.Path)
		}
		return fmt.Sprintf("failed to read template file %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("failed to %s template %s: %v", e.Op, e.Path, e.Err)
	}
}

func (e *TemplateError) Unwrap() error { return e.Err }
