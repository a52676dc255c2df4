package ingestion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-reviewer/internal/types"
)

func TestIngestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.md")
	require.NoError(t, os.WriteFile(path, []byte("# Experience\n- Shipped billing service"), 0o644))

	doc, meta, err := IngestFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Experience\n• Shipped billing service", doc.Text)
	assert.Equal(t, SourceFile, meta.Source)
	assert.Equal(t, "resume.md", meta.FileName)
	assert.Len(t, meta.Hash, 64)
	assert.NotEmpty(t, meta.Timestamp)
	assert.Equal(t, types.MethodPlain, meta.Method)
}

func TestIngestFromFile_Missing(t *testing.T) {
	_, _, err := IngestFromFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestIngestFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Backend Engineer</title></head><body>
<nav>Nav</nav>
<main><h2>Requirements</h2><ul><li>Go</li><li>PostgreSQL</li></ul></main>
<footer>Footer</footer>
</body></html>`))
	}))
	defer server.Close()

	doc, meta, err := IngestFromURL(context.Background(), server.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, "Requirements\n• Go\n• PostgreSQL", doc.Text)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, doc.Hints.Bullets)
	assert.Equal(t, SourceURL, meta.Source)
	assert.Equal(t, server.URL, meta.URL)
	assert.Equal(t, "Backend Engineer", meta.Title)
	assert.Equal(t, "unknown", meta.Platform)
}

func TestIngestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, _, err := IngestFromURL(context.Background(), server.URL, nil)
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	doc, err := ExtractBytes("resume.txt", []byte("Jane Doe\njane@example.com"))
	require.NoError(t, err)
	meta := NewMetadata(SourceBytes, doc)

	paths, err := WriteOutput(dir, "resume", doc, meta)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	text, err := os.ReadFile(filepath.Join(dir, "resume.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\njane@example.com\n", string(text))

	raw, err := os.ReadFile(filepath.Join(dir, "resume.hints.json"))
	require.NoError(t, err)
	var hints types.DocHints
	require.NoError(t, json.Unmarshal(raw, &hints))
	assert.Equal(t, []string{"jane@example.com"}, hints.Emails)

	raw, err = os.ReadFile(filepath.Join(dir, "resume.meta.json"))
	require.NoError(t, err)
	var decoded Metadata
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, meta.Hash, decoded.Hash)
	assert.Equal(t, SourceBytes, decoded.Source)
}

func TestWriteOutput_WithoutMetadata(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteOutput(dir, "jd", &Document{Text: "Go"}, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.FileExists(t, filepath.Join(dir, "jd.hints.json"))
}

func TestNewMetadata(t *testing.T) {
	pages := 3
	doc := &Document{Text: "content", Hints: &types.DocHints{Pages: &pages, CharCount: 7, Method: types.MethodStructured}}

	first := NewMetadata(SourceBytes, doc)
	second := NewMetadata(SourceBytes, doc)

	assert.Equal(t, first.Hash, second.Hash)
	assert.NotEqual(t, first.Hash, computeHash("other"))
	assert.Equal(t, 3, first.Pages)
	assert.Equal(t, 7, first.CharCount)
	assert.Equal(t, types.MethodStructured, first.Method)
}
