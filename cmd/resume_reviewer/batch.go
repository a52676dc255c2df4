package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-reviewer/internal/analyzer"
	"github.com/jonathan/resume-reviewer/internal/ingestion"
	"github.com/jonathan/resume-reviewer/internal/observability"
	"github.com/jonathan/resume-reviewer/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Rank several résumés against one job description",
	Long: `Analyze every résumé given with --resume or found in --resume-dir against the same job
description, write one <name>.analysis.json per résumé and print a ranking by overall score.`,
	RunE: runBatch,
}

var (
	batchJD          string
	batchJDURL       string
	batchResumes     []string
	batchResumeDir   string
	batchOut         string
	batchConcurrency int
	batchRedact      bool
	batchWeights     types.Weights
)

// resumeExtensions are the files picked up from --resume-dir.
var resumeExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
	".htm":      true,
}

func init() {
	batchCmd.Flags().StringVarP(&batchJD, "jd", "j", "", "Path to the job description")
	batchCmd.Flags().StringVarP(&batchJDURL, "jd-url", "u", "", "URL of the job posting")
	batchCmd.Flags().StringSliceVarP(&batchResumes, "resume", "r", nil, "Résumé file (repeatable)")
	batchCmd.Flags().StringVar(&batchResumeDir, "resume-dir", "", "Directory of résumés")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "Output directory for per-résumé results (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", analyzer.DefaultConcurrency, "Résumés analysed in parallel")
	batchCmd.Flags().BoolVar(&batchRedact, "redact", false, "Redact emails, phone numbers and URLs in the output")
	addWeightFlags(batchCmd, &batchWeights)

	_ = batchCmd.MarkFlagRequired("out")
	batchCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")
	batchCmd.MarkFlagsOneRequired("jd", "jd-url")
	batchCmd.MarkFlagsOneRequired("resume", "resume-dir")

	rootCmd.AddCommand(batchCmd)
}

type batchOptions struct {
	JDPath      string
	JDURL       string
	Resumes     []string
	ResumeDir   string
	OutDir      string
	Concurrency int
	Redact      bool
	Weights     *types.PartialWeights
}

func runBatch(cmd *cobra.Command, _ []string) error {
	return current.batch(cmd.Context(), batchOptions{
		JDPath:      batchJD,
		JDURL:       batchJDURL,
		Resumes:     batchResumes,
		ResumeDir:   batchResumeDir,
		OutDir:      batchOut,
		Concurrency: batchConcurrency,
		Redact:      batchRedact || current.cfg.Analysis.Redact,
		Weights:     changedWeights(cmd, batchWeights),
	}, cmd.OutOrStdout())
}

func (a *app) batch(ctx context.Context, opts batchOptions, stdout io.Writer) error {
	if opts.Concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", opts.Concurrency)
	}
	weights := opts.Weights.Merge(a.cfg.Analysis.Weights)
	if weights.ATS < 0 || weights.KeywordMatch < 0 || weights.Impact < 0 || weights.Clarity < 0 {
		return fmt.Errorf("weights must be non-negative")
	}

	paths, err := collectResumes(opts.Resumes, opts.ResumeDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no résumés found")
	}

	jd, err := a.loadJD(ctx, opts.JDPath, opts.JDURL)
	if err != nil {
		return err
	}

	items, err := a.loadBatchItems(paths)
	if err != nil {
		return err
	}

	engine := a.engine(false)
	results, err := engine.AnalyzeBatch(ctx, items, analyzer.BatchOptions{
		Template: types.AnalysisRequest{
			JDText:  jd.Text,
			Weights: weights,
			Redact:  opts.Redact,
			Hints:   types.RequestHints{JD: jd.Hints},
		},
		Concurrency: opts.Concurrency,
		OnProgress: func(e analyzer.ProgressEvent) {
			a.logger.Debug("résumé analysed",
				zap.String("name", e.Name),
				zap.Int("done", e.Done),
				zap.Int("total", e.Total),
				zap.Int("overall", e.Overall),
			)
		},
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, r := range results {
		data, err := json.MarshalIndent(r.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result for %s: %w", r.Name, err)
		}
		path := filepath.Join(opts.OutDir, r.Name+".analysis.json")
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	a.logger.Info("batch complete", zap.Int("resumes", len(results)), zap.String("out", opts.OutDir))
	observability.NewPrinter(stdout).PrintRanking(analyzer.RankByOverall(results))
	return nil
}

// collectResumes merges explicit paths with the supported files of dir, in that order.
func collectResumes(paths []string, dir string) ([]string, error) {
	out := append([]string(nil), paths...)
	if dir == "" {
		return out, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read résumé directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if resumeExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

// loadBatchItems ingests every path. Names are file base names, suffixed when two files share one.
func (a *app) loadBatchItems(paths []string) ([]analyzer.BatchItem, error) {
	seen := make(map[string]int, len(paths))
	items := make([]analyzer.BatchItem, 0, len(paths))
	for _, path := range paths {
		doc, _, err := ingestion.IngestFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load résumé: %w", err)
		}

		name := baseName(path)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		items = append(items, analyzer.BatchItem{Name: name, ResumeText: doc.Text, Hints: doc.Hints})
	}
	return items, nil
}
