package ingestion

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"mvdan.cc/xurls/v2"

	"github.com/jonathan/resume-reviewer/internal/redact"
	"github.com/jonathan/resume-reviewer/internal/types"
)

const (
	maxHeadings     = 50
	maxBullets      = 500
	maxHeadingRunes = 80
)

var (
	markdownHeading = regexp.MustCompile(`^#{1,6}\s+`)
	bulletLine      = regexp.MustCompile(`^(?:•|\*|-|\+)\s+`)
	capsHeading     = regexp.MustCompile(`^[A-Z0-9 &/+\-]{3,}$`)
	longDigitRun    = regexp.MustCompile(`\d{4,}`)
	relaxedURLs     = xurls.Relaxed()
)

// DeriveHints scans text (or Markdown) for contact details, links, headings and bullets.
func DeriveHints(text string) types.DocHints {
	hints := types.DocHints{
		Emails:    uniq(patternByName("email").FindAllString(text, -1)),
		Phones:    uniq(patternByName("phone").FindAllString(text, -1)),
		Links:     uniq(relaxedURLs.FindAllString(text, -1)),
		Headings:  []string{},
		Bullets:   []string{},
		CharCount: utf8.RuneCountInString(text),
		Method:    types.MethodPlain,
	}

	var headings []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if markdownHeading.MatchString(line) {
			headings = append(headings, strings.TrimSpace(markdownHeading.ReplaceAllString(line, "")))
			continue
		}
		if bulletLine.MatchString(line) {
			if len(hints.Bullets) < maxBullets {
				hints.Bullets = append(hints.Bullets, strings.TrimSpace(bulletLine.ReplaceAllString(line, "")))
			}
			continue
		}
		if utf8.RuneCountInString(line) <= maxHeadingRunes && capsHeading.MatchString(line) && !longDigitRun.MatchString(line) {
			headings = append(headings, line)
		}
	}

	hints.Headings = uniq(headings)
	if len(hints.Headings) > maxHeadings {
		hints.Headings = hints.Headings[:maxHeadings]
	}
	return hints
}

// EnsureHints returns a copy of h with every list field non-nil.
// A nil input yields empty plain-decode hints.
func EnsureHints(h *types.DocHints) *types.DocHints {
	out := types.DocHints{Method: types.MethodPlain}
	if h != nil {
		out = *h
	}
	for _, field := range []*[]string{&out.Emails, &out.Phones, &out.Links, &out.Headings, &out.Bullets} {
		if *field == nil {
			*field = []string{}
		}
	}
	if out.Method == "" {
		out.Method = types.MethodPlain
	}
	return &out
}

func patternByName(name string) *regexp.Regexp {
	for _, p := range redact.Patterns {
		if p.Name == name {
			return p.Regexp
		}
	}
	panic("ingestion: unknown redaction pattern " + name)
}

func uniq(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
