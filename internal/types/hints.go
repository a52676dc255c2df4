package types

// ExtractionMethod identifies how a document's text was obtained.
type ExtractionMethod string

const (
	// MethodStructured means a format-aware parser (PDF, DOCX) produced the text
	MethodStructured ExtractionMethod = "structured-extraction"
	// MethodPlain means the bytes were decoded as UTF-8 text
	MethodPlain ExtractionMethod = "plain-decode"
)

// DocHints holds structural signals about a document supplied by the ingestion stage.
// Every field is optional for the analyzer.
type DocHints struct {
	Pages     *int              `json:"pages,omitempty"`
	Info      map[string]string `json:"info,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Emails    []string          `json:"emails"`
	Phones    []string          `json:"phones"`
	Links     []string          `json:"links"`
	Headings  []string          `json:"headings"`
	Bullets   []string          `json:"bullets"`
	CharCount int               `json:"charCount"`
	Method    ExtractionMethod  `json:"method,omitempty" validate:"omitempty,oneof=structured-extraction plain-decode"`
}

// HasContact reports whether the hints carry an email or phone entry.
func (h *DocHints) HasContact() bool {
	if h == nil {
		return false
	}
	return len(h.Emails) > 0 || len(h.Phones) > 0
}

// BulletCount returns the number of bullet lines in the hints, zero when absent.
func (h *DocHints) BulletCount() int {
	if h == nil {
		return 0
	}
	return len(h.Bullets)
}
