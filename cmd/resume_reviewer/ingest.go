package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-reviewer/internal/ingestion"
	"github.com/jonathan/resume-reviewer/internal/schemas"
)

// urlOutputName names the files written for a fetched posting.
const urlOutputName = "job_posting"

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract a document to text, hints and metadata",
	Long: `Extract a résumé or job description from a file, or fetch a job posting from a URL, and
write <name>.txt, <name>.hints.json and <name>.meta.json into the output directory.`,
	RunE: runIngest,
}

var (
	ingestFile string
	ingestURL  string
	ingestOut  string
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "Path to a PDF, DOCX, Markdown, HTML or text file")
	ingestCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL of a job posting")
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "Output directory (required)")

	_ = ingestCmd.MarkFlagRequired("out")
	ingestCmd.MarkFlagsMutuallyExclusive("file", "url")
	ingestCmd.MarkFlagsOneRequired("file", "url")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	return current.ingest(cmd.Context(), ingestFile, ingestURL, ingestOut, cmd.OutOrStdout())
}

func (a *app) ingest(ctx context.Context, file, url, outDir string, stdout io.Writer) error {
	var (
		doc  *ingestion.Document
		meta *ingestion.Metadata
		name string
		err  error
	)
	switch {
	case file != "" && url != "":
		return fmt.Errorf("--file and --url are mutually exclusive; provide only one")
	case file != "":
		doc, meta, err = ingestion.IngestFromFile(file)
		name = baseName(file)
	case url != "":
		doc, meta, err = ingestion.IngestFromURL(ctx, url, a.fetchOptions())
		name = urlOutputName
	default:
		return fmt.Errorf("either --file or --url must be provided")
	}
	if err != nil {
		return fmt.Errorf("failed to ingest: %w", err)
	}

	if err := schemas.ValidateHints(doc.Hints); err != nil {
		a.logger.Warn("document hints do not match their schema", zap.Error(err))
	}

	paths, err := ingestion.WriteOutput(outDir, name, doc, meta)
	if err != nil {
		return err
	}
	a.logger.Debug("ingested document",
		zap.String("name", name),
		zap.Int("chars", len(doc.Text)),
		zap.String("method", string(doc.Hints.Method)),
	)
	for _, p := range paths {
		if _, err := fmt.Fprintln(stdout, p); err != nil {
			return err
		}
	}
	return nil
}
