// Package keywords provides text normalization, tokenization and JD-to-résumé term matching.
package keywords

import "sync"

// defaultStopwords are function words plus résumé/JD boilerplate that never count as domain terms.
var defaultStopwords = []string{
	"and", "or", "the", "a", "an", "for", "of", "to", "with", "in", "on", "at", "by",
	"from", "as", "is", "are", "be", "our", "we", "you", "their", "they", "i",
	"company", "role", "position", "candidate", "seeking", "opportunity",
	"responsibilities", "requirements", "skills", "experience",
}

// defaultAliases maps surface variants to one canonical domain term.
var defaultAliases = map[string]string{
	// tech
	"nextjs":      "next.js",
	"next":        "next.js",
	"node":        "node.js",
	"nodejs":      "node.js",
	"typescript":  "ts",
	"javascript":  "js",
	"tailwindcss": "tailwind",
	"reactjs":     "react",
	"mssql":       "sql server",
	"ms sql":      "sql server",
	"aws s3":      "s3",
	// finance, ops, health
	"ap/ar": "ap ar",
	"a/p":   "ap",
	"a/r":   "ar",
	"ehr":   "electronic health record",
	"hipaa": "hipaa",
	"gaap":  "gaap",
}

// Lexicon owns the stopword and alias tables used by the tokenizer.
// A Lexicon is read-only after construction and safe for concurrent use.
type Lexicon struct {
	stopwords map[string]struct{}
	aliases   map[string]string
}

// NewLexicon builds a Lexicon from the given tables. The inputs are copied.
func NewLexicon(stopwords []string, aliases map[string]string) *Lexicon {
	l := &Lexicon{
		stopwords: make(map[string]struct{}, len(stopwords)),
		aliases:   make(map[string]string, len(aliases)),
	}
	for _, w := range stopwords {
		l.stopwords[w] = struct{}{}
	}
	for k, v := range aliases {
		l.aliases[k] = v
	}
	return l
}

var defaultLexicon = sync.OnceValue(func() *Lexicon {
	return NewLexicon(defaultStopwords, defaultAliases)
})

// DefaultLexicon returns the shared built-in lexicon.
func DefaultLexicon() *Lexicon {
	return defaultLexicon()
}

// IsStopword reports whether w is filtered out of token streams.
func (l *Lexicon) IsStopword(w string) bool {
	_, ok := l.stopwords[w]
	return ok
}

// Canonical maps a token to its canonical alias, or returns it unchanged.
func (l *Lexicon) Canonical(tok string) string {
	if canonical, ok := l.aliases[tok]; ok {
		return canonical
	}
	return tok
}
