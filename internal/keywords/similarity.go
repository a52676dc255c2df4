package keywords

import (
	"math"
	"regexp"
	"strings"
)

var lexicalToken = regexp.MustCompile(`[a-z0-9.+#-]+`)

// similarityStopwords is a broader English list used only for lexical similarity.
var similarityStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {}, "for": {},
	"from": {}, "has": {}, "he": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"that": {}, "the": {}, "to": {}, "was": {}, "were": {}, "will": {}, "with": {}, "this": {},
	"i": {}, "you": {}, "your": {}, "we": {}, "our": {}, "they": {}, "their": {}, "them": {},
	"or": {}, "but": {}, "if": {}, "than": {}, "then": {}, "so": {}, "such": {}, "these": {},
	"those": {}, "over": {}, "under": {}, "into": {}, "out": {}, "about": {}, "up": {},
	"down": {}, "not": {},
}

func lexicalTokens(text string) []string {
	raw := lexicalToken.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if len(t) <= 1 {
			continue
		}
		if _, stop := similarityStopwords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

func termFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// TFIDFCosine returns the TF-IDF cosine similarity of two texts on a 0..100 scale.
// IDF is smoothed over the two-document corpus: ln((N+1)/(df+1)) + 1 with N=2.
func TFIDFCosine(a, b string) float64 {
	ta, tb := lexicalTokens(a), lexicalTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	fa, fb := termFrequencies(ta), termFrequencies(tb)

	const n = 2.0
	vocab := make(map[string]struct{}, len(fa)+len(fb))
	for t := range fa {
		vocab[t] = struct{}{}
	}
	for t := range fb {
		vocab[t] = struct{}{}
	}

	var dot, na, nb float64
	for term := range vocab {
		df := 0.0
		if fa[term] > 0 {
			df++
		}
		if fb[term] > 0 {
			df++
		}
		idf := math.Log((n+1)/(df+1)) + 1
		wa := fa[term] * idf
		wb := fb[term] * idf
		dot += wa * wb
		na += wa * wa
		nb += wb * wb
	}

	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)) * 100
}
