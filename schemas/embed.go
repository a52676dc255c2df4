// Package schemas embeds the JSON Schemas for the documents the reviewer emits.
package schemas

import "embed"

// Schema file names.
const (
	AnalysisResult = "analysis_result.schema.json"
	DocHints       = "doc_hints.schema.json"
	Findings       = "findings.schema.json"
)

//go:embed *.schema.json
var FS embed.FS

// Read returns the raw content of the named schema.
func Read(name string) ([]byte, error) {
	return FS.ReadFile(name)
}
