// Package analyzer provides the orchestration that turns a résumé and a job description into an AnalysisResult.
package analyzer

import (
	"github.com/jonathan/resume-reviewer/internal/feedback"
	"github.com/jonathan/resume-reviewer/internal/keywords"
	"github.com/jonathan/resume-reviewer/internal/redact"
	"github.com/jonathan/resume-reviewer/internal/scoring"
	"github.com/jonathan/resume-reviewer/internal/types"
)

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	Lexicon         *keywords.Lexicon
	DisplayLimit    int
	BlendSimilarity bool
}

// Engine runs the analysis pipeline. It holds only read-only state and is safe for concurrent use.
type Engine struct {
	lexicon      *keywords.Lexicon
	redactor     *redact.Redactor
	displayLimit int
	blend        bool
}

// NewEngine creates an Engine from opts.
func NewEngine(opts Options) *Engine {
	lex := opts.Lexicon
	if lex == nil {
		lex = keywords.DefaultLexicon()
	}
	limit := opts.DisplayLimit
	if limit <= 0 {
		limit = types.DefaultDisplayLimit
	}
	return &Engine{
		lexicon:      lex,
		redactor:     redact.New(),
		displayLimit: limit,
		blend:        opts.BlendSimilarity,
	}
}

// Match aligns the JD's terms against the résumé and returns the full capped sets.
func (e *Engine) Match(req types.AnalysisRequest) types.KeywordSets {
	jdTokens := e.lexicon.Tokenize(keywords.Normalize(req.JDText))
	resTokens := e.lexicon.Tokenize(keywords.Normalize(req.ResumeText))

	return keywords.Match(
		e.lexicon.ExtractKeyPhrases(jdTokens),
		e.lexicon.ExtractKeyPhrases(resTokens),
		keywords.BaseSet(jdTokens),
		keywords.BaseSet(resTokens),
	)
}

// Analyze scores the request. It never fails: empty inputs yield a defined low-score result.
// Matching and scoring always run on the unredacted text; redaction applies to the output only.
func (e *Engine) Analyze(req types.AnalysisRequest) types.AnalysisResult {
	sets := e.Match(req)
	hints := req.Hints.Resume

	keywordScore := scoring.KeywordMatch(sets)
	if e.blend {
		keywordScore = scoring.BlendSimilarity(keywordScore, keywords.TFIDFCosine(req.ResumeText, req.JDText))
	}

	scores := scoring.Combine(types.ScoreBundle{
		ATS:          scoring.ATS(req.ResumeText, hints),
		KeywordMatch: keywordScore,
		Impact:       scoring.Impact(req.ResumeText, hints),
		Clarity:      scoring.Clarity(req.ResumeText),
	}, req.Weights)

	flags := feedback.Flags(req.ResumeText, hints)
	result := types.AnalysisResult{
		Scores:            scores,
		MatchedKeywords:   head(sets.Matched, e.displayLimit),
		MissingKeywords:   head(sets.Missing, e.displayLimit),
		MatchedTotal:      len(sets.Matched),
		MissingTotal:      len(sets.Missing),
		Flags:             flags,
		FixList:           feedback.FixList(flags),
		SuggestedRewrites: feedback.SuggestRewrites(req.ResumeText),
		TailoredSummary:   feedback.TailoredSummary(keywordScore, len(sets.Matched)),
	}

	if req.Redact {
		result = e.redactor.Result(result)
	}
	return result
}

func head(items []string, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	out := make([]string, n)
	copy(out, items[:n])
	return out
}
