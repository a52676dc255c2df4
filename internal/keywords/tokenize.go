package keywords

import (
	"regexp"
	"strings"
)

// suffixPattern strips one trailing inflection; leftmost match means the longest suffix wins.
var suffixPattern = regexp.MustCompile(`(?:ing|ed|es|s)$`)

// Tokenize splits normalized text into unigrams followed by bigrams.
// Aliases are applied before the stopword and length filters, and bigrams are built
// from the surviving unigrams. The output may contain duplicates.
func (l *Lexicon) Tokenize(normalized string) []string {
	words := make([]string, 0, strings.Count(normalized, " ")+1)
	for _, raw := range strings.Split(normalized, " ") {
		w := l.Canonical(raw)
		if len(w) <= 1 || l.IsStopword(w) {
			continue
		}
		words = append(words, w)
	}

	tokens := make([]string, 0, len(words)*2)
	tokens = append(tokens, words...)
	for i := 0; i+1 < len(words); i++ {
		tokens = append(tokens, words[i]+" "+words[i+1])
	}
	return tokens
}

// BaseForm strips a single trailing ing/ed/es/s suffix. It never recurses.
func BaseForm(tok string) string {
	return suffixPattern.ReplaceAllString(tok, "")
}

// BaseSet reduces tokens to their base forms, keeping only bases longer than one byte.
func BaseSet(tokens []string) *TermSet {
	set := NewTermSet()
	for _, t := range tokens {
		if base := BaseForm(t); len(base) > 1 {
			set.Add(base)
		}
	}
	return set
}

// TermSet is an insertion-ordered set of strings.
type TermSet struct {
	order []string
	index map[string]struct{}
}

// NewTermSet creates a TermSet holding the given items.
func NewTermSet(items ...string) *TermSet {
	s := &TermSet{index: make(map[string]struct{}, len(items))}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item and reports whether it was new.
func (s *TermSet) Add(item string) bool {
	if _, ok := s.index[item]; ok {
		return false
	}
	s.index[item] = struct{}{}
	s.order = append(s.order, item)
	return true
}

// Has reports membership. A nil set is empty.
func (s *TermSet) Has(item string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[item]
	return ok
}

// Len returns the number of distinct items.
func (s *TermSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Items returns the items in insertion order. The slice must not be modified.
func (s *TermSet) Items() []string {
	if s == nil {
		return nil
	}
	return s.order
}
