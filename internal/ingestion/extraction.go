package ingestion

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-reviewer/internal/fetch"
	"github.com/jonathan/resume-reviewer/internal/types"
)

// Document is extracted text plus the structural hints derived from it.
type Document struct {
	Name  string          `json:"name"`
	Text  string          `json:"text"`
	Hints *types.DocHints `json:"hints"`
}

// ExtractionError reports a document that could not be parsed.
type ExtractionError struct {
	Name    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.Name, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError reports binary content with no known extractor.
type UnsupportedFormatError struct {
	Name      string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q for %s: upload PDF, DOCX, Markdown or plain text", e.Extension, e.Name)
}

// ExtractBytes dispatches on the file extension and returns sanitized text with hints.
// Saved HTML pages are reduced to their main text. PDFs that fail to parse fall back to a plain decode of their bytes.
func ExtractBytes(name string, data []byte) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".pdf":
		raw, pages, info, err := extractPDF(data)
		if err != nil {
			return plainDocument(name, strings.ToValidUTF8(string(data), "")), nil
		}
		hints := DeriveHints(raw)
		hints.Method = types.MethodStructured
		hints.Pages = &pages
		hints.Info = info
		return &Document{Name: name, Text: Sanitize(raw), Hints: EnsureHints(&hints)}, nil

	case ".docx":
		raw, err := extractDOCX(data)
		if err != nil {
			return nil, &ExtractionError{Name: name, Message: "invalid DOCX archive", Cause: err}
		}
		hints := DeriveHints(raw)
		hints.Method = types.MethodStructured
		return &Document{Name: name, Text: Sanitize(raw), Hints: EnsureHints(&hints)}, nil

	case ".html", ".htm":
		raw, err := fetch.ExtractMainText(string(data), fetch.JobPostingSelectors())
		if err != nil {
			return nil, &ExtractionError{Name: name, Message: "invalid HTML", Cause: err}
		}
		return plainDocument(name, raw), nil

	case ".md", ".markdown":
		md := string(data)
		hints := DeriveHints(md)
		return &Document{Name: name, Text: Sanitize(MarkdownToText(md)), Hints: EnsureHints(&hints)}, nil

	default:
		if !utf8.Valid(data) {
			return nil, &UnsupportedFormatError{Name: name, Extension: ext}
		}
		return plainDocument(name, string(data)), nil
	}
}

func plainDocument(name, raw string) *Document {
	hints := DeriveHints(raw)
	return &Document{Name: name, Text: Sanitize(raw), Hints: EnsureHints(&hints)}
}

// extractPDF reads the text layer, page count and Info dictionary of a PDF.
// The parser panics on some malformed files, so panics surface as errors.
func extractPDF(data []byte) (text string, pages int, info map[string]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, nil, err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", 0, nil, err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", 0, nil, err
	}

	info = map[string]string{}
	if meta := r.Trailer().Key("Info"); !meta.IsNull() {
		for _, key := range meta.Keys() {
			if v := strings.TrimSpace(meta.Key(key).Text()); v != "" {
				info[key] = v
			}
		}
	}
	return buf.String(), r.NumPage(), info, nil
}

// extractDOCX walks word/document.xml, emitting one line per paragraph.
// Numbered or bulleted paragraphs get a "•" marker.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			if docXML, err = f.Open(); err != nil {
				return "", err
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("no word/document.xml in archive")
	}
	defer func() { _ = docXML.Close() }()

	var (
		b         strings.Builder
		paragraph strings.Builder
		listItem  bool
		inText    bool
	)
	dec := xml.NewDecoder(docXML)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				paragraph.WriteByte('\t')
			case "br", "cr":
				paragraph.WriteByte('\n')
			case "numPr":
				listItem = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if listItem {
					b.WriteString("• ")
				}
				b.WriteString(paragraph.String())
				b.WriteByte('\n')
				paragraph.Reset()
				listItem = false
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		}
	}
	return b.String(), nil
}
