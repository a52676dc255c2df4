package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/resume-reviewer/internal/types"
)

var (
	// MetricPattern matches a quantified result: a percentage or a number with two or more digits.
	MetricPattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?%|\b\d{2,}(?:k|m)?\b`)
	// PassivePattern matches an auxiliary followed by a past participle.
	PassivePattern = regexp.MustCompile(`(?i)\b(was|were|been|being|be)\b\s+\w+ed\b`)

	sentenceBoundary = regexp.MustCompile(`[.!?]\s`)
)

// actionVerbs are counted once each when present anywhere in the résumé.
var actionVerbs = []string{
	"built", "led", "reduced", "increased", "optimized", "designed", "developed", "deployed",
	"automated", "delivered", "launched", "implemented", "streamlined", "improved", "created", "managed",
}

const (
	impactBase        = 30
	impactMetricCap   = 40
	impactMetricUnit  = 6
	impactVerbCap     = 20
	impactVerbUnit    = 4
	impactBulletCap   = 10
	impactBulletUnit  = 2
	impactBulletGroup = 5

	longSentenceWords   = 28.0
	longSentencePenalty = 40.0
	passivePenaltyUnit  = 3.0
	passivePenaltyCap   = 30.0

	defaultAvgSentence = 18.0
)

// ATS scores how well the résumé exposes the structure an applicant tracking system expects.
func ATS(text string, hints *types.DocHints) int {
	total := 0
	for _, r := range rules {
		if r.Passes(text, hints) {
			total += r.Points
		}
	}
	return Clamp(total)
}

// Impact scores the density of quantified results, action verbs and bullets.
func Impact(text string, hints *types.DocHints) int {
	metrics := len(MetricPattern.FindAllStringIndex(text, -1))

	lower := strings.ToLower(text)
	verbs := 0
	for _, v := range actionVerbs {
		if strings.Contains(lower, v) {
			verbs++
		}
	}

	bullets := BulletCount(text, hints)

	score := impactBase +
		min(impactMetricCap, metrics*impactMetricUnit) +
		min(impactVerbCap, verbs*impactVerbUnit) +
		min(impactBulletCap, (bullets/impactBulletGroup)*impactBulletUnit)
	return Clamp(score)
}

// Stats summarises sentence structure.
type Stats struct {
	Sentences int
	Words     int
	AvgWords  float64
}

// SentenceStats splits text on sentence terminators followed by whitespace.
// Text without any sentence reports an average of 18 words.
func SentenceStats(text string) Stats {
	collapsed := strings.Join(strings.Fields(text), " ")

	sentences := 0
	for _, s := range sentenceBoundary.Split(collapsed, -1) {
		if s != "" {
			sentences++
		}
	}
	words := len(strings.Fields(collapsed))

	avg := defaultAvgSentence
	if sentences > 0 {
		avg = float64(words) / float64(sentences)
	}
	return Stats{Sentences: sentences, Words: words, AvgWords: avg}
}

// Clarity starts at 100 and subtracts capped penalties for long sentences and passive voice.
func Clarity(text string) int {
	score := 100.0

	stats := SentenceStats(text)
	if stats.AvgWords > longSentenceWords {
		score -= math.Min(longSentencePenalty, (stats.AvgWords-longSentenceWords)*2)
	}

	passive := len(PassivePattern.FindAllStringIndex(text, -1))
	score -= math.Min(passivePenaltyCap, float64(passive)*passivePenaltyUnit)

	return Clamp(int(math.Round(score)))
}

// KeywordMatch converts keyword coverage to a percentage.
func KeywordMatch(sets types.KeywordSets) int {
	return Clamp(int(math.Round(sets.Coverage() * 100)))
}

// BlendSimilarity mixes keyword coverage with a 0..100 lexical similarity at 60/40.
func BlendSimilarity(coverage int, similarity float64) int {
	return Clamp(int(math.Round(0.6*float64(coverage) + 0.4*similarity)))
}

// Combine computes the weighted overall score from the four component scores.
// A zero weight sum falls back to a denominator of 1.
func Combine(parts types.ScoreBundle, w types.Weights) types.ScoreBundle {
	out := types.ScoreBundle{
		ATS:          Clamp(parts.ATS),
		KeywordMatch: Clamp(parts.KeywordMatch),
		Impact:       Clamp(parts.Impact),
		Clarity:      Clamp(parts.Clarity),
	}

	sum := w.Sum()
	if sum == 0 {
		sum = 1
	}
	weighted := float64(out.ATS)*w.ATS +
		float64(out.KeywordMatch)*w.KeywordMatch +
		float64(out.Impact)*w.Impact +
		float64(out.Clarity)*w.Clarity
	out.Overall = Clamp(int(math.Round(weighted / sum)))
	return out
}

// Clamp bounds a score to [0,100].
func Clamp(n int) int {
	return max(0, min(100, n))
}
