package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-reviewer/internal/analyzer"
	"github.com/jonathan/resume-reviewer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, title string, items []string, total int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if total > count {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", total-count))
	}
	sb.WriteString("\n")
}

// PrintAnalysis outputs the scores, keyword alignment and flags of one result.
func (p *Printer) PrintAnalysis(res *types.AnalysisResult) {
	if res == nil {
		return
	}

	var sb strings.Builder
	s := res.Scores
	sb.WriteString(fmt.Sprintf("Overall:  %d%%\n", s.Overall))
	sb.WriteString(fmt.Sprintf("ATS %d%% | Keywords %d%% | Impact %d%% | Clarity %d%%\n\n", s.ATS, s.KeywordMatch, s.Impact, s.Clarity))

	writeList(&sb, fmt.Sprintf("Matched (%d)", res.MatchedTotal), res.MatchedKeywords, res.MatchedTotal)
	writeList(&sb, fmt.Sprintf("Missing (%d)", res.MissingTotal), res.MissingKeywords, res.MissingTotal)
	writeList(&sb, "Flags", res.Flags, len(res.Flags))

	p.printBox("ANALYSIS RESULT", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintFindings outputs the ATS compliance checklist.
func (p *Printer) PrintFindings(findings *types.Findings) {
	if findings == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compliance score: %d%%\n\n", findings.Score))
	for _, f := range findings.Findings {
		mark := "✓"
		if !f.OK {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, f.Label))
		if f.Details != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", f.Details))
		}
	}

	p.printBox("ATS COMPLIANCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs batch results in their given order, usually after analyzer.RankByOverall.
func (p *Printer) PrintRanking(results []analyzer.BatchResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	for i, r := range results {
		s := r.Result.Scores
		sb.WriteString(fmt.Sprintf("#%-3d %3d%%  %s\n", i+1, s.Overall, r.Name))
		sb.WriteString(fmt.Sprintf("      ATS %d | KW %d | Impact %d | Clarity %d\n", s.ATS, s.KeywordMatch, s.Impact, s.Clarity))
	}

	p.printBox(fmt.Sprintf("RANKING (%d résumés)", len(results)), strings.TrimSuffix(sb.String(), "\n"))
}
