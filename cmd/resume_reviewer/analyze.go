package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-reviewer/internal/ingestion"
	"github.com/jonathan/resume-reviewer/internal/observability"
	"github.com/jonathan/resume-reviewer/internal/rendering"
	"github.com/jonathan/resume-reviewer/internal/schemas"
	"github.com/jonathan/resume-reviewer/internal/types"
)

// formatJSON is the analyze output format that is not an export format.
const formatJSON = "json"

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a résumé against a job description",
	Long: `Analyze a résumé (PDF, DOCX, Markdown, HTML or text) against a job description given
as a file or URL. Prints the analysis as JSON, Markdown or plain text.`,
	RunE: runAnalyze,
}

var (
	analyzeResume  string
	analyzeJD      string
	analyzeJDURL   string
	analyzeOut     string
	analyzeFormat  string
	analyzeRedact  bool
	analyzeBlend   bool
	analyzeVerbose bool
	analyzeWeights types.Weights
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the résumé (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJD, "jd", "j", "", "Path to the job description")
	analyzeCmd.Flags().StringVarP(&analyzeJDURL, "jd-url", "u", "", "URL of the job posting")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Output file (default stdout)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", formatJSON, "Output format: json, markdown or text")
	analyzeCmd.Flags().BoolVar(&analyzeRedact, "redact", false, "Redact emails, phone numbers and URLs in the output")
	analyzeCmd.Flags().BoolVar(&analyzeBlend, "blend-similarity", false, "Blend TF-IDF similarity into the keyword score")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a summary box to stderr")
	addWeightFlags(analyzeCmd, &analyzeWeights)

	_ = analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")
	analyzeCmd.MarkFlagsOneRequired("jd", "jd-url")

	rootCmd.AddCommand(analyzeCmd)
}

// addWeightFlags registers the four weight flags. Only flags the user sets override the configuration.
func addWeightFlags(cmd *cobra.Command, w *types.Weights) {
	cmd.Flags().Float64Var(&w.ATS, "ats-weight", types.DefaultATSWeight, "Weight of the ATS score")
	cmd.Flags().Float64Var(&w.KeywordMatch, "keyword-weight", types.DefaultKeywordMatchWeight, "Weight of the keyword match score")
	cmd.Flags().Float64Var(&w.Impact, "impact-weight", types.DefaultImpactWeight, "Weight of the impact score")
	cmd.Flags().Float64Var(&w.Clarity, "clarity-weight", types.DefaultClarityWeight, "Weight of the clarity score")
}

// changedWeights returns the weight flags the user actually set.
func changedWeights(cmd *cobra.Command, w types.Weights) *types.PartialWeights {
	pick := func(name string, v float64) *float64 {
		if cmd.Flags().Changed(name) {
			return &v
		}
		return nil
	}
	return &types.PartialWeights{
		ATS:          pick("ats-weight", w.ATS),
		KeywordMatch: pick("keyword-weight", w.KeywordMatch),
		Impact:       pick("impact-weight", w.Impact),
		Clarity:      pick("clarity-weight", w.Clarity),
	}
}

// analyzeOptions is the resolved input of one analyze run.
type analyzeOptions struct {
	ResumePath string
	JDPath     string
	JDURL      string
	OutPath    string
	Format     string
	Redact     bool
	Blend      bool
	Verbose    bool
	Weights    *types.PartialWeights
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	return current.analyze(cmd.Context(), analyzeOptions{
		ResumePath: analyzeResume,
		JDPath:     analyzeJD,
		JDURL:      analyzeJDURL,
		OutPath:    analyzeOut,
		Format:     analyzeFormat,
		Redact:     analyzeRedact || current.cfg.Analysis.Redact,
		Blend:      analyzeBlend,
		Verbose:    analyzeVerbose,
		Weights:    changedWeights(cmd, analyzeWeights),
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func (a *app) analyze(ctx context.Context, opts analyzeOptions, stdout, stderr io.Writer) error {
	weights := opts.Weights.Merge(a.cfg.Analysis.Weights)
	if weights.ATS < 0 || weights.KeywordMatch < 0 || weights.Impact < 0 || weights.Clarity < 0 {
		return fmt.Errorf("weights must be non-negative")
	}

	resume, _, err := ingestion.IngestFromFile(opts.ResumePath)
	if err != nil {
		return fmt.Errorf("failed to load résumé: %w", err)
	}
	jd, err := a.loadJD(ctx, opts.JDPath, opts.JDURL)
	if err != nil {
		return err
	}

	req := types.AnalysisRequest{
		ResumeText: resume.Text,
		JDText:     jd.Text,
		Weights:    weights,
		Redact:     opts.Redact,
		Hints:      types.RequestHints{Resume: resume.Hints, JD: jd.Hints},
	}
	a.logger.Debug("analyzing",
		zap.String("resume", opts.ResumePath),
		zap.Int("resume_chars", len(req.ResumeText)),
		zap.Int("jd_chars", len(req.JDText)),
	)
	result := a.engine(opts.Blend).Analyze(req)

	output, err := a.formatResult(result, opts.Format)
	if err != nil {
		return err
	}
	if err := writeOutput(opts.OutPath, output, stdout); err != nil {
		return err
	}

	if opts.Verbose {
		observability.NewPrinter(stderr).PrintAnalysis(&result)
	}
	return nil
}

// loadJD reads the job description from a file or fetches it from a URL.
func (a *app) loadJD(ctx context.Context, path, url string) (*ingestion.Document, error) {
	switch {
	case path != "" && url != "":
		return nil, fmt.Errorf("--jd and --jd-url are mutually exclusive; provide only one")
	case path != "":
		doc, _, err := ingestion.IngestFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load job description: %w", err)
		}
		return doc, nil
	case url != "":
		doc, _, err := ingestion.IngestFromURL(ctx, url, a.fetchOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch job description: %w", err)
		}
		return doc, nil
	default:
		return nil, fmt.Errorf("either --jd or --jd-url must be provided")
	}
}

// formatResult renders result as JSON (schema-checked) or through an export format.
func (a *app) formatResult(result types.AnalysisResult, format string) (string, error) {
	if format == "" || format == formatJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal result: %w", err)
		}
		if err := schemas.ValidateResult(result); err != nil {
			a.logger.Warn("analysis result does not match its schema", zap.Error(err))
		}
		return string(data) + "\n", nil
	}

	f, err := rendering.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return rendering.Render(result, f)
}

// writeOutput writes content to path, creating parent directories, or to stdout when path is empty.
func writeOutput(path, content string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
