package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-reviewer/internal/ingestion"
	"github.com/jonathan/resume-reviewer/internal/observability"
	"github.com/jonathan/resume-reviewer/internal/schemas"
	"github.com/jonathan/resume-reviewer/internal/validation"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the ATS compliance rules on a résumé",
	RunE:  runCheck,
}

var (
	checkResume string
	checkJSON   bool
)

func init() {
	checkCmd.Flags().StringVarP(&checkResume, "resume", "r", "", "Path to the résumé (required)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print findings as JSON")
	_ = checkCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	return current.check(checkResume, checkJSON, cmd.OutOrStdout())
}

func (a *app) check(path string, asJSON bool, stdout io.Writer) error {
	doc, _, err := ingestion.IngestFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load résumé: %w", err)
	}

	findings := validation.CheckATS(filepath.Base(path), doc.Text)
	if !asJSON {
		observability.NewPrinter(stdout).PrintFindings(&findings)
		return nil
	}

	if err := schemas.ValidateFindings(findings); err != nil {
		return fmt.Errorf("findings failed schema validation: %w", err)
	}
	data, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}
