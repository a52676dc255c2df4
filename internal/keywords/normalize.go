package keywords

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	techSuffixPattern = regexp.MustCompile(`(?i)\.(js|ts|tsx|jsx)\b`)

	punctuationReplacer = strings.NewReplacer(
		// dash variants U+2010..U+2015
		"\u2010", "-", "\u2011", "-", "\u2012", "-", "\u2013", "-", "\u2014", "-", "\u2015", "-",
		// curly double quotes
		"\u201c", `"`, "\u201d", `"`, "\u201e", `"`, "\u201f", `"`,
		// curly single quotes
		"\u2018", "'", "\u2019", "'", "\u201a", "'", "\u201b", "'",
		"\u00a0", " ",
	)

	separatorReplacer = strings.NewReplacer(
		// bullet glyphs and pipes
		"|", " ", "•", " ", "·", " ", "●", " ", "▪", " ", "▶", " ", "►", " ",
		"(", " ", ")", " ",
		"-", " ", "_", " ", "/", " ", `\`, " ",
	)

	// combining diacritical marks block
	combiningMarks = runes.Predicate(func(r rune) bool {
		return r >= 0x0300 && r <= 0x036f
	})
)

// Normalize canonicalizes raw text before tokenization.
// The result is lowercase, free of diacritics and separators, and single-spaced.
// Normalize is idempotent.
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	s = punctuationReplacer.Replace(s)
	s = separatorReplacer.Replace(s)
	s = techSuffixPattern.ReplaceAllString(s, " $1 ")
	s = strings.ToLower(s)
	s = stripDiacritics(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(combiningMarks))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
