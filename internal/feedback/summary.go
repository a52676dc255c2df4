package feedback

import "fmt"

// TailoredSummary drafts a summary line whose focus tracks the keyword score.
func TailoredSummary(keywordScore, matchedTotal int) string {
	focus := "foundational alignment"
	switch {
	case keywordScore >= 60:
		focus = "strong alignment"
	case keywordScore >= 35:
		focus = "partial alignment"
	}
	return fmt.Sprintf("Results-driven professional with %s to the role; matched %d JD terms. "+
		"Emphasize quantified outcomes and the most relevant tools/frameworks referenced in the job description.",
		focus, matchedTotal)
}
