package feedback

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/resume-reviewer/internal/scoring"
)

const (
	// MaxRewrites caps the number of suggested bullets
	MaxRewrites = 6

	minRewriteChars = 40
	fallbackVerb    = "Delivered"
	fallbackRest    = "measurable outcomes for stakeholders."
	quantifySuffix  = " - quantify impact (%, $, time, or volume)."
)

var (
	lineBreak     = regexp.MustCompile(`\r?\n`)
	leadingBullet = regexp.MustCompile(`^[-*•▪●]\s*`)
	auxiliary     = regexp.MustCompile(`(?i)\b(was|were|been|being|be)\b\s*`)
	nonWordChars  = regexp.MustCompile(`[^\w-]`)
)

// SuggestRewrites rewrites qualifying résumé lines into action-led bullets.
// Lines under 40 characters are skipped and at most six rewrites are returned.
func SuggestRewrites(text string) []string {
	rewrites := []string{}
	for _, raw := range lineBreak.Split(text, -1) {
		if len(rewrites) == MaxRewrites {
			break
		}
		line := strings.TrimSpace(raw)
		if utf8.RuneCountInString(line) < minRewriteChars {
			continue
		}
		if rewritten := rewriteLine(line); utf8.RuneCountInString(rewritten) >= minRewriteChars {
			rewrites = append(rewrites, rewritten)
		}
	}
	return rewrites
}

func rewriteLine(line string) string {
	line = strings.TrimSpace(leadingBullet.ReplaceAllString(line, ""))
	if loc := auxiliary.FindStringIndex(line); loc != nil {
		line = line[:loc[0]] + line[loc[1]:]
	}

	words := strings.Fields(line)
	verb := fallbackVerb
	rest := fallbackRest
	if len(words) > 0 {
		if v := capitalize(nonWordChars.ReplaceAllString(words[0], "")); v != "" {
			verb = v
		}
		if len(words) > 1 {
			rest = strings.Join(words[1:], " ")
		}
	}

	var b strings.Builder
	b.WriteString("• ")
	b.WriteString(verb)
	b.WriteString(" ")
	b.WriteString(rest)
	if !scoring.MetricPattern.MatchString(line) {
		b.WriteString(quantifySuffix)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
