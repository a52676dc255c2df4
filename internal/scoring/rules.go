// Package scoring implements the heuristic résumé scorers and the weighted combiner.
package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-reviewer/internal/types"
)

// Rule names for the structural checks shared by the ATS scorer and the flag builder.
const (
	RuleSummary    = "summary"
	RuleEducation  = "education"
	RuleExperience = "experience"
	RuleSkills     = "skills"
	RuleBullets    = "bullets"
	RuleEmail      = "email"
	RulePhone      = "phone"
	RuleLinks      = "links"
)

// Rule is one named structural pattern worth a fixed number of ATS points.
// Section rules are evaluated against lowercased text; hints can satisfy a rule
// the text alone does not.
type Rule struct {
	Name    string
	Points  int
	Pattern *regexp.Regexp
	hint    func(h *types.DocHints, re *regexp.Regexp) bool
}

// Passes reports whether text or hints satisfy the rule.
func (r Rule) Passes(text string, hints *types.DocHints) bool {
	if r.Pattern.MatchString(strings.ToLower(text)) {
		return true
	}
	return hints != nil && r.hint != nil && r.hint(hints, r.Pattern)
}

var bulletGlyph = regexp.MustCompile(`[-*•▪●]`)

var rules = []Rule{
	{Name: RuleSummary, Points: 15, Pattern: regexp.MustCompile(`\bsummary|objective\b`), hint: headingHint},
	{Name: RuleEducation, Points: 15, Pattern: regexp.MustCompile(`\beducation\b`), hint: headingHint},
	{Name: RuleExperience, Points: 20, Pattern: regexp.MustCompile(`\bexperience|employment|work history\b`), hint: headingHint},
	{Name: RuleSkills, Points: 15, Pattern: regexp.MustCompile(`\bskills\b`), hint: headingHint},
	{Name: RuleBullets, Points: 10, Pattern: bulletGlyph, hint: func(h *types.DocHints, _ *regexp.Regexp) bool {
		return len(h.Bullets) > 0
	}},
	{Name: RuleEmail, Points: 10, Pattern: regexp.MustCompile(`\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`), hint: func(h *types.DocHints, _ *regexp.Regexp) bool {
		return len(h.Emails) > 0
	}},
	{Name: RulePhone, Points: 5, Pattern: regexp.MustCompile(`\b\d{3}[- .]?\d{3}[- .]?\d{4}\b`), hint: func(h *types.DocHints, _ *regexp.Regexp) bool {
		return len(h.Phones) > 0
	}},
	{Name: RuleLinks, Points: 10, Pattern: regexp.MustCompile(`\bgithub|linkedin|portfolio|http`), hint: func(h *types.DocHints, _ *regexp.Regexp) bool {
		return len(h.Links) > 0
	}},
}

func headingHint(h *types.DocHints, re *regexp.Regexp) bool {
	for _, heading := range h.Headings {
		if re.MatchString(strings.ToLower(heading)) {
			return true
		}
	}
	return false
}

// Rules returns a copy of the ATS rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Check evaluates the named rule. Unknown names never pass.
func Check(name, text string, hints *types.DocHints) bool {
	for _, r := range rules {
		if r.Name == name {
			return r.Passes(text, hints)
		}
	}
	return false
}

// BulletCount returns the larger of the bullet glyph count in text and the hinted bullet count.
func BulletCount(text string, hints *types.DocHints) int {
	return max(len(bulletGlyph.FindAllStringIndex(text, -1)), hints.BulletCount())
}
