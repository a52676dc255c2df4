package rendering

import (
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/jonathan/resume-reviewer/internal/types"
)

// Format is an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat accepts the long names and the file extensions md and txt.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text", "plain":
		return FormatText, nil
	default:
		return "", &RenderError{Format: s}
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".txt"
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

const markdownTemplate = `# Resume & ATS Reviewer Results

**Overall:** {{.Scores.Overall}}%
- ATS: {{.Scores.ATS}}%
- Keywords: {{.Scores.KeywordMatch}}%
- Impact: {{.Scores.Impact}}%
- Clarity: {{.Scores.Clarity}}%

## Flags
{{range .Flags}}- {{.}}
{{end}}
## Fix List
{{range .FixList}}- {{.}}
{{end}}
## Missing Keywords
{{range .MissingKeywords}}- {{.}}
{{end}}
## Suggested Bullet Rewrites
{{range .SuggestedRewrites}}- {{.}}
{{end}}
## Tailored Summary
{{.TailoredSummary}}`

const textTemplate = `RESUME & ATS REVIEWER RESULTS

Overall: {{.Scores.Overall}}%
  ATS: {{.Scores.ATS}}%
  Keywords: {{.Scores.KeywordMatch}}%
  Impact: {{.Scores.Impact}}%
  Clarity: {{.Scores.Clarity}}%

FLAGS
{{list .Flags}}
FIX LIST
{{list .FixList}}
MATCHED KEYWORDS
{{inline .MatchedKeywords}}

MISSING KEYWORDS
{{inline .MissingKeywords}}

SUGGESTED BULLET REWRITES
{{list .SuggestedRewrites}}
TAILORED SUMMARY
{{.TailoredSummary}}
`

var funcs = template.FuncMap{
	"list":   plainList,
	"inline": inlineList,
}

var builtin = map[Format]*template.Template{
	FormatMarkdown: template.Must(template.New("markdown").Funcs(funcs).Parse(markdownTemplate)),
	FormatText:     template.Must(template.New("text").Funcs(funcs).Parse(textTemplate)),
}

// Markdown renders res as a Markdown report.
func Markdown(res types.AnalysisResult) string {
	out, err := execute(builtin[FormatMarkdown], res)
	if err != nil {
		// built-in templates only reference fields of AnalysisResult
		panic(err)
	}
	return out
}

// PlainText renders res without markup.
func PlainText(res types.AnalysisResult) string {
	out, err := execute(builtin[FormatText], res)
	if err != nil {
		panic(err)
	}
	return out
}

// Render renders res in the given format.
func Render(res types.AnalysisResult, format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return Markdown(res), nil
	case FormatText:
		return PlainText(res), nil
	default:
		return "", &RenderError{Format: string(format)}
	}
}

// RenderFile renders res through a user-supplied text/template file.
// Templates may use the list and inline helpers of the plain-text export.
func RenderFile(res types.AnalysisResult, templatePath string) (string, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return "", &TemplateError{Path: templatePath, Op: "read", Err: err}
	}
	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(funcs).Parse(string(content))
	if err != nil {
		return "", &TemplateError{Path: templatePath, Op: "parse", Err: err}
	}

	out, err := execute(tmpl, res)
	if err != nil {
		return "", &TemplateError{Path: templatePath, Op: "execute", Err: err}
	}
	return out, nil
}

func execute(tmpl *template.Template, res types.AnalysisResult) (string, error) {
	var out strings.Builder
	if err := tmpl.Execute(&out, res); err != nil {
		return "", err
	}
	return out.String(), nil
}

func plainList(items []string) string {
	if len(items) == 0 {
		return "  (none)\n"
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString("  - ")
		b.WriteString(item)
		b.WriteByte('\n')
	}
	return b.String()
}

func inlineList(items []string) string {
	if len(items) == 0 {
		return "  (none)"
	}
	return "  " + strings.Join(items, ", ")
}
