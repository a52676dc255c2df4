package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-reviewer/internal/fetch"
)

// IngestFromFile reads a résumé or job description from disk and extracts it.
func IngestFromFile(path string) (*Document, *Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := ExtractBytes(filepath.Base(path), data)
	if err != nil {
		return nil, nil, err
	}

	meta := NewMetadata(SourceFile, doc)
	meta.FileName = filepath.Base(path)
	return doc, meta, nil
}

// IngestFromURL fetches a job posting and returns its cleaned text with hints.
func IngestFromURL(ctx context.Context, urlStr string, opts *fetch.Options) (*Document, *Metadata, error) {
	posting, err := fetch.JobDescription(ctx, urlStr, opts)
	if err != nil {
		return nil, nil, err
	}

	doc := plainDocument(posting.Title, posting.Text)
	meta := NewMetadata(SourceURL, doc)
	meta.URL = urlStr
	meta.Title = posting.Title
	meta.Platform = string(posting.Platform)
	return doc, meta, nil
}

// WriteOutput writes <name>.txt, <name>.hints.json and <name>.meta.json into outDir.
// It returns the paths written.
func WriteOutput(outDir, name string, doc *Document, meta *Metadata) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	hintsJSON, err := json.MarshalIndent(EnsureHints(doc.Hints), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hints: %w", err)
	}

	files := []struct {
		suffix string
		data   []byte
	}{
		{".txt", []byte(doc.Text + "\n")},
		{".hints.json", hintsJSON},
	}
	if meta != nil {
		metaJSON, err := meta.ToJSON()
		if err != nil {
			return nil, err
		}
		files = append(files, struct {
			suffix string
			data   []byte
		}{".meta.json", metaJSON})
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(outDir, name+f.suffix)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
