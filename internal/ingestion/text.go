// Package ingestion turns uploaded documents and job postings into clean text plus structural hints.
package ingestion

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	dashVariants = regexp.MustCompile(`[\x{2010}-\x{2015}]`)
	doubleQuotes = regexp.MustCompile(`[\x{201C}\x{201D}\x{201E}\x{201F}]`)
	singleQuotes = regexp.MustCompile(`[\x{2018}\x{2019}\x{201A}\x{201B}]`)
	// a word split across a line break by a hyphen
	wrappedWord   = regexp.MustCompile(`([A-Za-z])-\s*\n\s*([A-Za-z])`)
	bulletGlyphs  = regexp.MustCompile(`[•·▪●▶►■□]`)
	excessNewline = regexp.MustCompile(`\n{3,}`)
	spaceRun      = regexp.MustCompile(`[ \t]{2,}`)

	codeFence      = regexp.MustCompile("(?s)```.*?```")
	mdHeading      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdListItem     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdLink         = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdEmphasis     = regexp.MustCompile("[*_~`]")
	horizontalRuns = regexp.MustCompile(`[ \t]+`)
)

// Sanitize cleans extracted document text while keeping its line structure.
// Typographic dashes and quotes are unified, words hyphenated across a line break are
// rejoined and every bullet glyph becomes "•".
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ReplaceAll(raw, "\u00a0", " ")
	s = norm.NFKC.String(s)
	s = dashVariants.ReplaceAllString(s, "-")
	s = doubleQuotes.ReplaceAllString(s, `"`)
	s = singleQuotes.ReplaceAllString(s, "'")
	s = wrappedWord.ReplaceAllString(s, "$1$2")
	s = bulletGlyphs.ReplaceAllString(s, "•")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", "  ")
	s = excessNewline.ReplaceAllString(s, "\n\n")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// MarkdownToText strips lightweight Markdown so the analyzer sees plain prose.
// List items keep a "•" marker so bullet heuristics still fire.
func MarkdownToText(md string) string {
	s := codeFence.ReplaceAllString(md, " ")
	s = mdHeading.ReplaceAllString(s, "")
	s = mdListItem.ReplaceAllString(s, "• ")
	s = mdLink.ReplaceAllString(s, "$1 ($2)")
	s = mdEmphasis.ReplaceAllString(s, " ")
	s = horizontalRuns.ReplaceAllString(s, " ")
	s = excessNewline.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
