// Package feedback turns a résumé into remediation flags, fix items, bullet rewrites and a tailored summary.
package feedback

import (
	"github.com/jonathan/resume-reviewer/internal/scoring"
	"github.com/jonathan/resume-reviewer/internal/types"
)

const (
	// MaxFlags caps the flag list
	MaxFlags = 10
	// FixPrefix marks each fix list entry
	FixPrefix = "Fix: "

	minBullets = 6
)

type flagRule struct {
	message string
	raised  func(text string, hints *types.DocHints) bool
}

func missingSection(rule string) func(string, *types.DocHints) bool {
	return func(text string, hints *types.DocHints) bool {
		return !scoring.Check(rule, text, hints)
	}
}

// flagRules run in this order; the order is part of the output contract.
var flagRules = []flagRule{
	{"Add a brief Professional Summary (2-3 lines).", missingSection(scoring.RuleSummary)},
	{"Add an Education section.", missingSection(scoring.RuleEducation)},
	{"Add an Experience section.", missingSection(scoring.RuleExperience)},
	{"Add a Skills section.", missingSection(scoring.RuleSkills)},
	{"Use bullet points for readability and scannability.", func(text string, hints *types.DocHints) bool {
		return scoring.BulletCount(text, hints) < minBullets
	}},
	{"Ensure contact info (email/phone) is present and selectable.", func(text string, hints *types.DocHints) bool {
		return !scoring.Check(scoring.RuleEmail, text, hints) && !scoring.Check(scoring.RulePhone, text, hints)
	}},
}

// Flags runs the remediation checklist over the original résumé text.
func Flags(text string, hints *types.DocHints) []string {
	flags := []string{}
	for _, r := range flagRules {
		if len(flags) == MaxFlags {
			break
		}
		if r.raised(text, hints) {
			flags = append(flags, r.message)
		}
	}
	return flags
}

// FixList derives one fix item per flag.
func FixList(flags []string) []string {
	fixes := make([]string, len(flags))
	for i, f := range flags {
		fixes[i] = FixPrefix + f
	}
	return fixes
}
