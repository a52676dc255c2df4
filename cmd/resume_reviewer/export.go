package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-reviewer/internal/rendering"
	"github.com/jonathan/resume-reviewer/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a saved analysis as Markdown or plain text",
	RunE:  runExport,
}

var (
	exportIn       string
	exportFormat   string
	exportTemplate string
	exportOut      string
)

func init() {
	exportCmd.Flags().StringVarP(&exportIn, "in", "i", "", "Analysis result JSON (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", string(rendering.FormatMarkdown), "Export format: markdown or text")
	exportCmd.Flags().StringVar(&exportTemplate, "template", "", "Custom text/template file, overrides --format")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
	_ = exportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	return current.export(exportIn, exportFormat, exportTemplate, exportOut, cmd.OutOrStdout())
}

func (a *app) export(in, format, templatePath, out string, stdout io.Writer) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}
	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to parse analysis result: %w", err)
	}

	var body string
	if templatePath != "" {
		body, err = rendering.RenderFile(result, templatePath)
	} else {
		var f rendering.Format
		if f, err = rendering.ParseFormat(format); err == nil {
			body, err = rendering.Render(result, f)
		}
	}
	if err != nil {
		return err
	}
	return writeOutput(out, body, stdout)
}
