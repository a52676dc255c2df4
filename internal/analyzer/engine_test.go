package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jonathan/resume-reviewer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJD = `Senior Backend Engineer
We are hiring an engineer to build distributed payment services in Go and Python.
You will own Kubernetes deployments, Terraform modules and PostgreSQL schemas.
Experience with Kafka, gRPC and observability tooling is a plus.`

const sampleResume = `SUMMARY
Backend engineer focused on payment platforms.
EXPERIENCE
• Built distributed payment services in Go serving 40k requests per second
• Reduced PostgreSQL query latency by 35% through schema redesign
• Automated Kubernetes deployments with Terraform modules
EDUCATION
BS Computer Science
SKILLS
Go, Python, Kubernetes, Terraform, PostgreSQL
jane.doe@example.com | 555-123-4567 | github.com/janedoe`

func assertScoresInRange(t *testing.T, s types.ScoreBundle) {
	t.Helper()
	for name, v := range map[string]int{
		"overall":       s.Overall,
		"ats":           s.ATS,
		"keyword_match": s.KeywordMatch,
		"impact":        s.Impact,
		"clarity":       s.Clarity,
	} {
		assert.GreaterOrEqual(t, v, 0, name)
		assert.LessOrEqual(t, v, 100, name)
	}
}

func TestAnalyze_IdenticalText(t *testing.T) {
	engine := NewEngine(Options{})

	result := engine.Analyze(types.NewAnalysisRequest(sampleJD, sampleJD))

	assert.Equal(t, 100, result.Scores.KeywordMatch)
	assert.Empty(t, result.MissingKeywords)
	assert.Zero(t, result.MissingTotal)
	assert.NotEmpty(t, result.MatchedKeywords)
}

func TestAnalyze_EmptyResume(t *testing.T) {
	engine := NewEngine(Options{})

	result := engine.Analyze(types.NewAnalysisRequest("", sampleJD))

	assert.Zero(t, result.Scores.KeywordMatch)
	assert.Empty(t, result.MatchedKeywords)
	assert.NotEmpty(t, result.MissingKeywords)
	assert.LessOrEqual(t, len(result.MissingKeywords), types.DefaultDisplayLimit)
	assert.LessOrEqual(t, result.MissingTotal, types.MaxKeywords)
	assertScoresInRange(t, result.Scores)
}

func TestAnalyze_EmptyInputs(t *testing.T) {
	engine := NewEngine(Options{})

	result := engine.Analyze(types.NewAnalysisRequest("", ""))

	assert.Zero(t, result.Scores.KeywordMatch)
	assert.Empty(t, result.MatchedKeywords)
	assert.Empty(t, result.MissingKeywords)
	assert.Empty(t, result.SuggestedRewrites)
	assertScoresInRange(t, result.Scores)
}

func TestAnalyze_UnstructuredResume(t *testing.T) {
	engine := NewEngine(Options{})
	resume := "Jane Doe\njane@example.com\nI enjoy building things"

	result := engine.Analyze(types.NewAnalysisRequest(resume, sampleJD))

	assert.Equal(t, 10, result.Scores.ATS)
	require.GreaterOrEqual(t, len(result.Flags), 5)
	assert.Equal(t, []string{
		"Add a brief Professional Summary (2-3 lines).",
		"Add an Education section.",
		"Add an Experience section.",
		"Add a Skills section.",
		"Use bullet points for readability and scannability.",
	}, result.Flags[:5])
	require.Len(t, result.FixList, len(result.Flags))
	assert.Equal(t, "Fix: "+result.Flags[0], result.FixList[0])
}

func TestAnalyze_SingleWeight(t *testing.T) {
	engine := NewEngine(Options{})
	req := types.NewAnalysisRequest(sampleResume, sampleJD)
	req.Weights = types.Weights{ATS: 1}

	result := engine.Analyze(req)

	assert.Equal(t, result.Scores.ATS, result.Scores.Overall)
}

func TestAnalyze_ZeroWeights(t *testing.T) {
	engine := NewEngine(Options{})
	req := types.NewAnalysisRequest(sampleResume, sampleJD)
	req.Weights = types.Weights{}

	result := engine.Analyze(req)

	assert.Zero(t, result.Scores.Overall)
	assertScoresInRange(t, result.Scores)
}

func TestAnalyze_Redaction(t *testing.T) {
	engine := NewEngine(Options{})
	resume := "Contact me anytime at jane.doe@example.com for references and code samples"

	plainReq := types.NewAnalysisRequest(resume, sampleJD+" Contact jane.doe@example.com")
	redactedReq := plainReq
	redactedReq.Redact = true

	plain := engine.Analyze(plainReq)
	redacted := engine.Analyze(redactedReq)

	assert.Equal(t, plain.Scores, redacted.Scores, "redaction must not affect scoring")

	all := strings.Join(append(append(append(append([]string{redacted.TailoredSummary},
		redacted.Flags...), redacted.FixList...), redacted.SuggestedRewrites...), redacted.MatchedKeywords...), "\n")
	assert.NotContains(t, all, "jane.doe@example.com")
	assert.Contains(t, strings.Join(redacted.SuggestedRewrites, "\n"), "[REDACTED_EMAIL]")
	assert.Contains(t, strings.Join(plain.SuggestedRewrites, "\n"), "jane.doe@example.com")
}

func TestAnalyze_CoverageMonotonic(t *testing.T) {
	engine := NewEngine(Options{})
	resume := "Python developer with Postgres"

	before := engine.Analyze(types.NewAnalysisRequest(resume, "Python Kubernetes Terraform"))
	after := engine.Analyze(types.NewAnalysisRequest(resume, "Python Kubernetes Terraform Postgres"))

	assert.GreaterOrEqual(t, after.Scores.KeywordMatch, before.Scores.KeywordMatch)
}

func TestAnalyze_ScoresAlwaysClamped(t *testing.T) {
	engine := NewEngine(Options{})
	inputs := []struct{ resume, jd string }{
		{sampleResume, sampleJD},
		{strings.Repeat("• Led 10% growth was improved\n", 200), sampleJD},
		{strings.Repeat("word ", 500), "word"},
		{"", ""},
	}
	for _, in := range inputs {
		req := types.NewAnalysisRequest(in.resume, in.jd)
		req.Weights = types.Weights{ATS: 5, KeywordMatch: 0.1, Impact: 3, Clarity: 9}
		assertScoresInRange(t, engine.Analyze(req).Scores)
	}
}

func TestAnalyze_KeywordListsDisjoint(t *testing.T) {
	engine := NewEngine(Options{})
	sets := engine.Match(types.NewAnalysisRequest(sampleResume, sampleJD))

	seen := map[string]bool{}
	for _, m := range sets.Matched {
		require.False(t, seen[m], "duplicate %q", m)
		seen[m] = true
	}
	for _, m := range sets.Missing {
		require.False(t, seen[m], "%q in both lists or duplicated", m)
		seen[m] = true
	}
}

func TestAnalyze_DisplayLimit(t *testing.T) {
	engine := NewEngine(Options{DisplayLimit: 2})

	result := engine.Analyze(types.NewAnalysisRequest("", sampleJD))

	assert.Len(t, result.MissingKeywords, 2)
	assert.Greater(t, result.MissingTotal, 2)
}

func TestAnalyze_BlendSimilarity(t *testing.T) {
	engine := NewEngine(Options{BlendSimilarity: true})

	same := engine.Analyze(types.NewAnalysisRequest(sampleJD, sampleJD))
	empty := engine.Analyze(types.NewAnalysisRequest("", sampleJD))

	assert.Equal(t, 100, same.Scores.KeywordMatch)
	assert.Zero(t, empty.Scores.KeywordMatch)
}

func TestAnalyze_HintsFeedHeuristics(t *testing.T) {
	engine := NewEngine(Options{})
	resume := "Jane Doe builds services"
	req := types.NewAnalysisRequest(resume, sampleJD)
	without := engine.Analyze(req)

	req.Hints.Resume = &types.DocHints{
		Headings: []string{"Summary", "Experience", "Education", "Skills"},
		Bullets:  []string{"a", "b", "c", "d", "e", "f"},
		Emails:   []string{"jane@example.com"},
	}
	with := engine.Analyze(req)

	assert.Greater(t, with.Scores.ATS, without.Scores.ATS)
	assert.Empty(t, with.Flags)
}

func TestAnalyzeBatch(t *testing.T) {
	engine := NewEngine(Options{})
	items := []BatchItem{
		{Name: "empty", ResumeText: ""},
		{Name: "strong", ResumeText: sampleResume},
		{Name: "same", ResumeText: sampleJD},
	}

	var mu sync.Mutex
	var events []ProgressEvent
	results, err := engine.AnalyzeBatch(context.Background(), items, BatchOptions{
		Template:    types.NewAnalysisRequest("", sampleJD),
		Concurrency: 2,
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		},
	})

	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, item := range items {
		assert.Equal(t, item.Name, results[i].Name)
		assert.Equal(t, engine.Analyze(types.NewAnalysisRequest(item.ResumeText, sampleJD)), results[i].Result)
	}
	assert.Len(t, events, 3)

	ranked := RankByOverall(results)
	assert.Equal(t, "empty", ranked[len(ranked)-1].Name)
	assert.Equal(t, "empty", results[0].Name, "ranking must not reorder the input")
}

func TestAnalyzeBatch_Cancelled(t *testing.T) {
	engine := NewEngine(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]BatchItem, 20)
	for i := range items {
		items[i] = BatchItem{Name: fmt.Sprintf("r%d", i), ResumeText: sampleResume}
	}

	results, err := engine.AnalyzeBatch(ctx, items, BatchOptions{Template: types.NewAnalysisRequest("", sampleJD)})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, results)
}

func TestRankByOverall_StableTies(t *testing.T) {
	results := []BatchResult{
		{Name: "a", Result: types.AnalysisResult{Scores: types.ScoreBundle{Overall: 50}}},
		{Name: "b", Result: types.AnalysisResult{Scores: types.ScoreBundle{Overall: 70}}},
		{Name: "c", Result: types.AnalysisResult{Scores: types.ScoreBundle{Overall: 50}}},
	}
	ranked := RankByOverall(results)
	assert.Equal(t, []string{"b", "a", "c"}, []string{ranked[0].Name, ranked[1].Name, ranked[2].Name})
}
