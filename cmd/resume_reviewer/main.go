// Package main provides the entry point for the résumé reviewer CLI and HTTP API.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-reviewer/internal/analyzer"
	"github.com/jonathan/resume-reviewer/internal/config"
	"github.com/jonathan/resume-reviewer/internal/fetch"
	"github.com/jonathan/resume-reviewer/internal/observability"
)

// app holds the configuration and logger every command runs with.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

var (
	cfgFile string
	current = &app{cfg: config.Default(), logger: zap.NewNop()}
)

var rootCmd = &cobra.Command{
	Use:   "resume_reviewer",
	Short: "Résumé and ATS reviewer",
	Long: `Scores a résumé against a job description for ATS friendliness, keyword coverage,
impact and clarity, and produces flags, fixes, bullet rewrites and a tailored summary.`,
	SilenceUsage: true,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = current.logger.Sync()
	},
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization cycle
	// (initApp reads rootCmd's flags).
	rootCmd.PersistentPreRunE = initApp
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (YAML or JSON); REVIEWER_* environment variables override it")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json-log", false, "Log as JSON instead of console text")
}

// initApp loads configuration and builds the logger before any subcommand runs.
func initApp(cmd *cobra.Command, _ []string) error {
	v := config.New()
	if err := v.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind --debug: %w", err)
	}
	if err := v.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json-log")); err != nil {
		return fmt.Errorf("failed to bind --json-log: %w", err)
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	current = &app{
		cfg:    cfg,
		logger: logger.With(zap.String(observability.FieldCommand, cmd.Name())),
	}
	current.logger.Debug("configuration loaded", zap.String("config", cfgFile))
	return nil
}

// engine builds an analyzer from the analysis section, optionally forcing similarity blending.
func (a *app) engine(blend bool) *analyzer.Engine {
	return analyzer.NewEngine(analyzer.Options{
		DisplayLimit:    a.cfg.Analysis.DisplayLimit,
		BlendSimilarity: blend || a.cfg.Analysis.BlendSimilarity,
	})
}

// fetchOptions derives job posting fetch settings from the fetch section.
func (a *app) fetchOptions() *fetch.Options {
	return &fetch.Options{
		Timeout:    a.cfg.Fetch.Timeout,
		UserAgent:  a.cfg.Fetch.UserAgent,
		UseBrowser: a.cfg.Fetch.UseBrowser,
		Logger:     a.logger,
	}
}

// baseName strips directories and the extension from path.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
