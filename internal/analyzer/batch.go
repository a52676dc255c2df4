package analyzer

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-reviewer/internal/types"
)

// DefaultConcurrency bounds batch fan-out when the caller does not choose a limit.
const DefaultConcurrency = 4

// BatchItem is one résumé in a batch run.
type BatchItem struct {
	Name       string
	ResumeText string
	Hints      *types.DocHints
}

// BatchResult pairs an item name with its analysis.
type BatchResult struct {
	Name   string               `json:"name"`
	Result types.AnalysisResult `json:"result"`
}

// ProgressEvent reports completion of one batch item.
type ProgressEvent struct {
	Name    string `json:"name"`
	Done    int    `json:"done"`
	Total   int    `json:"total"`
	Overall int    `json:"overall"`
}

// ProgressCallback is called after each item completes. It may be called concurrently.
type ProgressCallback func(event ProgressEvent)

// BatchOptions configures AnalyzeBatch.
type BatchOptions struct {
	// Template supplies the JD text, JD hints, weights and redaction flag shared by every item
	Template    types.AnalysisRequest
	Concurrency int
	OnProgress  ProgressCallback
}

// AnalyzeBatch analyses many résumés against one job description concurrently.
// Results keep input order. Cancellation stops scheduling further items and returns ctx.Err().
func (e *Engine) AnalyzeBatch(ctx context.Context, items []BatchItem, opts BatchOptions) ([]BatchResult, error) {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]BatchResult, len(items))
	var done atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, item := range items {
		if err := gCtx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			req := opts.Template
			req.ResumeText = item.ResumeText
			req.Hints.Resume = item.Hints

			results[i] = BatchResult{Name: item.Name, Result: e.Analyze(req)}

			n := done.Add(1)
			if opts.OnProgress != nil {
				opts.OnProgress(ProgressEvent{
					Name:    item.Name,
					Done:    int(n),
					Total:   len(items),
					Overall: results[i].Result.Scores.Overall,
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch analysis interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch analysis interrupted: %w", err)
	}
	return results, nil
}

// RankByOverall returns a copy of results ordered by overall score, highest first.
// Ties keep input order.
func RankByOverall(results []BatchResult) []BatchResult {
	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b BatchResult) int {
		return cmp.Compare(b.Result.Scores.Overall, a.Result.Scores.Overall)
	})
	return ranked
}
