package types

// Finding is the outcome of a single ATS compliance rule.
type Finding struct {
	Rule     string `json:"rule"`
	Label    string `json:"label"`
	OK       bool   `json:"ok"`
	Severity string `json:"severity"`
	Details  string `json:"details,omitempty"`
}

// Findings is the ordered checklist produced for one résumé, with its pass-rate score.
type Findings struct {
	Findings []Finding `json:"findings"`
	Score    int       `json:"score"`
}

// Failed returns the findings that did not pass, in order.
func (f *Findings) Failed() []Finding {
	var failed []Finding
	for _, finding := range f.Findings {
		if !finding.OK {
			failed = append(failed, finding)
		}
	}
	return failed
}
