package keywords

import "github.com/jonathan/resume-reviewer/internal/types"

// Near reports whether a and b are identical or differ by at most one character edit.
// The scan is a single left-to-right pass. On a mismatch it advances the longer string
// (a skip) or both strings when lengths are equal (a substitution).
func Near(a, b string) bool {
	if a == b {
		return true
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la-lb > 1 || lb-la > 1 {
		return false
	}

	diff := 0
	i, j := 0, 0
	for i < la && j < lb {
		if ra[i] == rb[j] {
			i++
			j++
			continue
		}
		diff++
		if diff > 1 {
			return false
		}
		switch {
		case la > lb:
			i++
		case lb > la:
			j++
		default:
			i++
			j++
		}
	}
	return true
}

// Match aligns JD key phrases against the résumé.
//
// The phrase pass marks a JD phrase matched when the résumé has it verbatim, has a
// near phrase, or has its base form among résumé base tokens. The token pass then
// classifies every JD base token by membership in the résumé base set. Both lists
// are deduplicated and capped, and anything matched is removed from missing.
func Match(jdPhrases, resPhrases []string, jdBase, resBase *TermSet) types.KeywordSets {
	resPhraseSet := NewTermSet(resPhrases...)

	var matched, missing []string
	for _, p := range jdPhrases {
		if resPhraseSet.Has(p) || anyNear(resPhraseSet.Items(), p) || resBase.Has(BaseForm(p)) {
			matched = append(matched, p)
		} else {
			missing = append(missing, p)
		}
	}

	for _, tok := range jdBase.Items() {
		if resBase.Has(tok) {
			matched = append(matched, tok)
		} else {
			missing = append(missing, tok)
		}
	}

	allMatched := NewTermSet(matched...)
	remaining := make([]string, 0, len(missing))
	for _, m := range missing {
		if !allMatched.Has(m) {
			remaining = append(remaining, m)
		}
	}

	return types.KeywordSets{
		Matched: capped(allMatched.Items(), types.MaxKeywords),
		Missing: capped(NewTermSet(remaining...).Items(), types.MaxKeywords),
	}
}

func anyNear(candidates []string, p string) bool {
	for _, q := range candidates {
		if Near(q, p) {
			return true
		}
	}
	return false
}

func capped(items []string, limit int) []string {
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
