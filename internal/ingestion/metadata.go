package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/resume-reviewer/internal/types"
)

// Source identifies where an ingested document came from.
type Source string

const (
	SourceFile  Source = "file"
	SourceURL   Source = "url"
	SourceBytes Source = "upload"
)

// Metadata describes one ingested document
type Metadata struct {
	Source    Source                 `json:"source"`
	FileName  string                 `json:"file_name,omitempty"`
	URL       string                 `json:"url,omitempty"`
	Title     string                 `json:"title,omitempty"`
	Platform  string                 `json:"platform,omitempty"`
	Timestamp string                 `json:"timestamp"` // RFC3339
	Hash      string                 `json:"hash"`      // SHA256 of the cleaned text
	Method    types.ExtractionMethod `json:"method"`
	Pages     int                    `json:"pages,omitempty"`
	CharCount int                    `json:"char_count"`
}

// NewMetadata stamps doc with the current time and a content hash.
func NewMetadata(source Source, doc *Document) *Metadata {
	m := &Metadata{
		Source:    source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(doc.Text),
		Method:    types.MethodPlain,
	}
	if doc.Hints != nil {
		m.Method = doc.Hints.Method
		m.CharCount = doc.Hints.CharCount
		if doc.Hints.Pages != nil {
			m.Pages = *doc.Hints.Pages
		}
	}
	return m
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to indented JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
