package types

// MaxKeywords caps each of the matched and missing keyword sets.
const MaxKeywords = 200

// DefaultDisplayLimit is the number of keywords shown per list in a result.
const DefaultDisplayLimit = 10

// KeywordSets holds the outcome of JD-to-résumé term alignment.
// Both lists are duplicate-free, disjoint and capped at MaxKeywords.
type KeywordSets struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

// Coverage returns matched / max(1, matched+missing) as a fraction.
func (k KeywordSets) Coverage() float64 {
	total := len(k.Matched) + len(k.Missing)
	if total < 1 {
		total = 1
	}
	return float64(len(k.Matched)) / float64(total)
}

// ScoreBundle holds the overall score and its four components, each in [0,100].
type ScoreBundle struct {
	Overall      int `json:"overall"`
	ATS          int `json:"ats"`
	KeywordMatch int `json:"keyword_match"`
	Impact       int `json:"impact"`
	Clarity      int `json:"clarity"`
}

// AnalysisResult is the structured assessment returned for one request.
type AnalysisResult struct {
	Scores            ScoreBundle `json:"scores"`
	MatchedKeywords   []string    `json:"matched_keywords"`
	MissingKeywords   []string    `json:"missing_keywords"`
	MatchedTotal      int         `json:"matched_total"`
	MissingTotal      int         `json:"missing_total"`
	Flags             []string    `json:"flags"`
	FixList           []string    `json:"fix_list"`
	SuggestedRewrites []string    `json:"suggested_rewrites"`
	TailoredSummary   string      `json:"tailored_summary"`
}

// MapStrings returns a copy of the result with fn applied to every string field.
// Scores and counts are carried over unchanged.
func (r AnalysisResult) MapStrings(fn func(string) string) AnalysisResult {
	out := r
	out.MatchedKeywords = mapAll(r.MatchedKeywords, fn)
	out.MissingKeywords = mapAll(r.MissingKeywords, fn)
	out.Flags = mapAll(r.Flags, fn)
	out.FixList = mapAll(r.FixList, fn)
	out.SuggestedRewrites = mapAll(r.SuggestedRewrites, fn)
	out.TailoredSummary = fn(r.TailoredSummary)
	return out
}

func mapAll(in []string, fn func(string) string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fn(s)
	}
	return out
}
