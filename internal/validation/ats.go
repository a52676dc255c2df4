// Package validation checks a résumé against a fixed ATS compliance checklist.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-reviewer/internal/types"
)

// Severity levels attached to findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

const (
	shortLineRunes = 25
	maxShortShare  = 0.45
	minBulletMarks = 4
	minWords       = 250
	maxWords       = 1400
)

var (
	cleanFileName   = regexp.MustCompile(`^[\w.-]+$`)
	standardHeading = regexp.MustCompile(`(?im)^\s*(experience|education|skills|projects|summary|certifications)\s*$`)
	numericDate     = regexp.MustCompile(`\b\d{1,2}/\d{4}\b`)
	monthDate       = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+\d{4}\b`)
	bulletMark      = regexp.MustCompile(`[•*-]`)
	looseEmail      = regexp.MustCompile(`\b[\w._%+-]+@[\w.-]+\.[A-Za-z]{2,}\b`)
	loosePhone      = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	wordPattern     = regexp.MustCompile(`\b\w+\b`)
)

// check is one checklist entry. Details is only reported for failures.
type check struct {
	rule     string
	label    string
	severity string
	eval     func(fileName, text string) (ok bool, details string)
}

var checklist = []check{
	{"file_name", "File name cleanliness", SeverityWarning, checkFileName},
	{"standard_headings", "Standard headings present", SeverityError, checkHeadings},
	{"single_column", "Single-column layout", SeverityError, checkColumns},
	{"date_formats", "Consistent date formats", SeverityWarning, checkDates},
	{"bullets", "Bulleted experience", SeverityWarning, checkBullets},
	{"contact_info", "Selectable contact info", SeverityError, checkContact},
	{"length", "Reasonable length", SeverityWarning, checkLength},
}

// CheckATS runs the checklist in order. The score is the rounded share of passing findings.
func CheckATS(fileName, text string) types.Findings {
	findings := make([]types.Finding, 0, len(checklist))
	passed := 0
	for _, c := range checklist {
		ok, details := c.eval(fileName, text)
		finding := types.Finding{Rule: c.rule, Label: c.label, OK: ok, Severity: c.severity}
		if ok {
			passed++
		} else {
			finding.Details = details
		}
		findings = append(findings, finding)
	}
	return types.Findings{
		Findings: findings,
		Score:    int(math.Round(float64(passed) / float64(len(checklist)) * 100)),
	}
}

func checkFileName(fileName, _ string) (bool, string) {
	if fileName == "" || cleanFileName.MatchString(fileName) {
		return true, ""
	}
	return false, fmt.Sprintf("rename %q using only letters, digits, dots, dashes and underscores", fileName)
}

func checkHeadings(_, text string) (bool, string) {
	if standardHeading.MatchString(text) {
		return true, ""
	}
	return false, "use plain section titles such as Experience, Education and Skills on their own lines"
}

func checkColumns(_, text string) (bool, string) {
	total, short := 0, 0
	for _, line := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(line)
		if n == 0 {
			continue
		}
		total++
		if n < shortLineRunes {
			short++
		}
	}
	share := float64(short) / math.Max(1, float64(total))
	if share <= maxShortShare {
		return true, ""
	}
	return false, fmt.Sprintf("%.0f%% of lines are very short, which suggests a multi-column layout", share*100)
}

func checkDates(_, text string) (bool, string) {
	if numericDate.MatchString(text) && monthDate.MatchString(text) {
		return false, `dates mix "MM/YYYY" and "Month YYYY" styles`
	}
	return true, ""
}

func checkBullets(_, text string) (bool, string) {
	n := len(bulletMark.FindAllString(text, -1))
	if n >= minBulletMarks {
		return true, ""
	}
	return false, fmt.Sprintf("found %d bullet markers; list achievements as bullets", n)
}

func checkContact(_, text string) (bool, string) {
	hasEmail := looseEmail.MatchString(text)
	hasPhone := loosePhone.MatchString(text)
	switch {
	case hasEmail && hasPhone:
		return true, ""
	case hasEmail:
		return false, "no phone number found in the text layer"
	case hasPhone:
		return false, "no email address found in the text layer"
	default:
		return false, "no email address or phone number found in the text layer"
	}
}

func checkLength(_, text string) (bool, string) {
	n := len(wordPattern.FindAllString(text, -1))
	if n >= minWords && n <= maxWords {
		return true, ""
	}
	return false, fmt.Sprintf("%d words; aim for %d to %d", n, minWords, maxWords)
}
