// Package types provides type definitions for structured data used throughout the resume-reviewer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Default scoring weights applied when a caller does not supply its own.
const (
	DefaultATSWeight          = 0.30
	DefaultKeywordMatchWeight = 0.35
	DefaultImpactWeight       = 0.20
	DefaultClarityWeight      = 0.15
)

// Weights controls how the four component scores combine into the overall score.
// The values do not need to sum to 1; the combiner normalizes by their sum.
type Weights struct {
	ATS          float64 `json:"ats" mapstructure:"ats" validate:"gte=0"`
	KeywordMatch float64 `json:"keyword_match" mapstructure:"keyword_match" validate:"gte=0"`
	Impact       float64 `json:"impact" mapstructure:"impact" validate:"gte=0"`
	Clarity      float64 `json:"clarity" mapstructure:"clarity" validate:"gte=0"`
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{
		ATS:          DefaultATSWeight,
		KeywordMatch: DefaultKeywordMatchWeight,
		Impact:       DefaultImpactWeight,
		Clarity:      DefaultClarityWeight,
	}
}

// Sum returns the total of all four weights.
func (w Weights) Sum() float64 {
	return w.ATS + w.KeywordMatch + w.Impact + w.Clarity
}

// PartialWeights carries caller-supplied weights where any field may be absent.
type PartialWeights struct {
	ATS          *float64 `json:"ats,omitempty" validate:"omitempty,gte=0"`
	KeywordMatch *float64 `json:"keyword_match,omitempty" validate:"omitempty,gte=0"`
	Impact       *float64 `json:"impact,omitempty" validate:"omitempty,gte=0"`
	Clarity      *float64 `json:"clarity,omitempty" validate:"omitempty,gte=0"`
}

// Merge fills absent fields from defaults.
func (p *PartialWeights) Merge(defaults Weights) Weights {
	if p == nil {
		return defaults
	}
	merged := defaults
	if p.ATS != nil {
		merged.ATS = *p.ATS
	}
	if p.KeywordMatch != nil {
		merged.KeywordMatch = *p.KeywordMatch
	}
	if p.Impact != nil {
		merged.Impact = *p.Impact
	}
	if p.Clarity != nil {
		merged.Clarity = *p.Clarity
	}
	return merged
}

// RequestHints groups the optional structural hints for both documents.
type RequestHints struct {
	Resume *DocHints `json:"resume,omitempty"`
	JD     *DocHints `json:"jd,omitempty"`
}

// AnalysisRequest is the immutable input to a single analysis.
type AnalysisRequest struct {
	ResumeText string       `json:"resume_text"`
	JDText     string       `json:"jd_text"`
	Weights    Weights      `json:"weights"`
	Redact     bool         `json:"redact"`
	Hints      RequestHints `json:"hints,omitempty"`
}

// NewAnalysisRequest builds a request with default weights.
func NewAnalysisRequest(resumeText, jdText string) AnalysisRequest {
	return AnalysisRequest{
		ResumeText: resumeText,
		JDText:     jdText,
		Weights:    DefaultWeights(),
	}
}
