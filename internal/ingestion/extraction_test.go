package ingestion

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-reviewer/internal/types"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>Built APIs</w:t></w:r></w:p>
<w:p><w:r><w:t>Go</w:t></w:r><w:r><w:tab/><w:t>SQL</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildDOCX(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractBytes_PlainText(t *testing.T) {
	doc, err := ExtractBytes("resume.txt", []byte("Jane   Doe\njane@example.com\n"))
	require.NoError(t, err)

	assert.Equal(t, "resume.txt", doc.Name)
	assert.Equal(t, "Jane Doe\njane@example.com", doc.Text)
	assert.Equal(t, types.MethodPlain, doc.Hints.Method)
	assert.Equal(t, []string{"jane@example.com"}, doc.Hints.Emails)
}

func TestExtractBytes_Markdown(t *testing.T) {
	doc, err := ExtractBytes("resume.MD", []byte("# Summary\n- Built APIs"))
	require.NoError(t, err)

	assert.Equal(t, "Summary\n• Built APIs", doc.Text)
	assert.Contains(t, doc.Hints.Headings, "Summary")
	assert.Equal(t, []string{"Built APIs"}, doc.Hints.Bullets)
}

func TestExtractBytes_DOCX(t *testing.T) {
	data := buildDOCX(t, map[string]string{"word/document.xml": documentXML})

	doc, err := ExtractBytes("resume.docx", data)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\n• Built APIs\nGo SQL", doc.Text)
	assert.Equal(t, types.MethodStructured, doc.Hints.Method)
	assert.Equal(t, []string{"Built APIs"}, doc.Hints.Bullets)
}

func TestExtractBytes_DOCXErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"Not a zip", []byte("definitely not a zip archive")},
		{"Missing document part", buildDOCX(t, map[string]string{"word/styles.xml": "<styles/>"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractBytes("resume.docx", tt.data)
			require.Error(t, err)

			var extractErr *ExtractionError
			require.ErrorAs(t, err, &extractErr)
			assert.Equal(t, "resume.docx", extractErr.Name)
		})
	}
}

func TestExtractBytes_HTML(t *testing.T) {
	html := `<html><body><nav>Menu</nav><main><h1>Go Engineer</h1><ul><li>Kubernetes</li></ul></main></body></html>`

	doc, err := ExtractBytes("posting.html", []byte(html))
	require.NoError(t, err)

	assert.Equal(t, "Go Engineer\n• Kubernetes", doc.Text)
	assert.Equal(t, []string{"Kubernetes"}, doc.Hints.Bullets)
}

func TestExtractBytes_MalformedPDFFallsBack(t *testing.T) {
	doc, err := ExtractBytes("cv.pdf", []byte("%PDF-1.4 broken Go developer"))
	require.NoError(t, err)

	assert.Equal(t, "%PDF-1.4 broken Go developer", doc.Text)
	assert.Equal(t, types.MethodPlain, doc.Hints.Method)
	assert.Nil(t, doc.Hints.Pages)
}

func TestExtractBytes_UnsupportedBinary(t *testing.T) {
	_, err := ExtractBytes("resume.bin", []byte{0xff, 0xfe, 0x00, 0x01})
	require.Error(t, err)

	var formatErr *UnsupportedFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, ".bin", formatErr.Extension)
	assert.Contains(t, err.Error(), "resume.bin")
}
