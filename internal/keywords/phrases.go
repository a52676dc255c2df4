package keywords

import (
	"regexp"
	"strings"
)

var (
	// bigrams led by a function word are connective noise, not terms
	leadingFunctionWord = regexp.MustCompile(`^(and|the|for|with|from|over|under|into|onto)\b`)
	// unigram shape of a domain term: lowercase letters, digits and . + # -
	domainTermShape = regexp.MustCompile(`^[a-z0-9.+#-]{2,}$`)
)

// ExtractKeyPhrases filters tokens down to candidate domain terms, deduplicated in first-seen order.
func (l *Lexicon) ExtractKeyPhrases(tokens []string) []string {
	phrases := NewTermSet()
	for _, t := range tokens {
		if strings.Contains(t, " ") {
			if !leadingFunctionWord.MatchString(t) {
				phrases.Add(t)
			}
			continue
		}
		if domainTermShape.MatchString(t) && !l.IsStopword(t) {
			phrases.Add(t)
		}
	}
	return phrases.Items()
}
