// Package redact scrubs personal contact data from analysis output.
package redact

import (
	"regexp"

	"github.com/jonathan/resume-reviewer/internal/types"
)

// Placeholders substituted for redacted values.
const (
	EmailPlaceholder = "[REDACTED_EMAIL]"
	PhonePlaceholder = "[REDACTED_PHONE]"
	URLPlaceholder   = "[REDACTED_URL]"
)

// Pattern is a named replacement rule.
type Pattern struct {
	Name        string
	Regexp      *regexp.Regexp
	Replacement string
}

// Patterns are applied in order: email, phone, url.
var Patterns = []Pattern{
	{
		Name:        "email",
		Regexp:      regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`),
		Replacement: EmailPlaceholder,
	},
	{
		Name:        "phone",
		Regexp:      regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		Replacement: PhonePlaceholder,
	},
	{
		Name:        "url",
		Regexp:      regexp.MustCompile(`(?i)\bhttps?://\S+\b`),
		Replacement: URLPlaceholder,
	},
}

// Redactor applies an ordered pattern table.
type Redactor struct {
	patterns []Pattern
}

// New returns a Redactor over the default patterns.
func New() *Redactor {
	return &Redactor{patterns: Patterns}
}

// String redacts a single value.
func (r *Redactor) String(s string) string {
	for _, p := range r.patterns {
		s = p.Regexp.ReplaceAllLiteralString(s, p.Replacement)
	}
	return s
}

// Result returns a redacted copy of res. The input is not modified.
func (r *Redactor) Result(res types.AnalysisResult) types.AnalysisResult {
	return res.MapStrings(r.String)
}
