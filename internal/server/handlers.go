package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-reviewer/internal/fetch"
	"github.com/jonathan/resume-reviewer/internal/ingestion"
	"github.com/jonathan/resume-reviewer/internal/observability"
	"github.com/jonathan/resume-reviewer/internal/rendering"
	"github.com/jonathan/resume-reviewer/internal/types"
	"github.com/jonathan/resume-reviewer/internal/validation"
)

// msgMissingInputs is returned when either document is empty.
const msgMissingInputs = "Provide both resume and JD (text or file)."

// plainSeparator splits a text/plain body into résumé and JD.
var plainSeparator = regexp.MustCompile(`\n---+\n`)

// AnalyzeRequest is the JSON body of POST /analyze. Several spellings are accepted for each field.
type AnalyzeRequest struct {
	ResumeText      string                `json:"resume_text"`
	ResumeTextCamel string                `json:"resumeText"`
	Resume          string                `json:"resume"`
	JDText          string                `json:"jd_text"`
	JD              string                `json:"jd"`
	JobDescription  string                `json:"jobDescription"`
	Text            string                `json:"text"`
	Weights         *types.PartialWeights `json:"weights"`
	RedactPII       *bool                 `json:"redact_pii"`
	RedactPIICamel  *bool                 `json:"redactPII"`
	Hints           *types.RequestHints   `json:"hints"`
}

// CheckRequest is the JSON body of POST /check.
type CheckRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	FileName   string `json:"file_name"`
}

// FetchJDRequest is the JSON body of POST /fetch-jd.
type FetchJDRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// FetchJDResponse is returned by POST /fetch-jd.
type FetchJDResponse struct {
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Platform fetch.Platform `json:"platform"`
}

// analyzeInput is the resolved form of any /analyze body.
type analyzeInput struct {
	resume  string
	jd      string
	weights *types.PartialWeights
	redact  *bool
	hints   types.RequestHints
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	in, err := s.readAnalyzeInput(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if strings.TrimSpace(in.resume) == "" || strings.TrimSpace(in.jd) == "" {
		s.errorResponse(w, r, &ErrValidation{Message: msgMissingInputs})
		return
	}
	if in.weights != nil {
		if err := s.validate.Struct(in.weights); err != nil {
			s.errorResponse(w, r, fromValidator(err))
			return
		}
	}
	if err := s.validate.Struct(&in.hints); err != nil {
		s.errorResponse(w, r, fromValidator(err))
		return
	}

	redact := s.cfg.Analysis.Redact
	if in.redact != nil {
		redact = *in.redact
	}
	req := types.AnalysisRequest{
		ResumeText: in.resume,
		JDText:     in.jd,
		Weights:    in.weights.Merge(s.cfg.Analysis.Weights),
		Redact:     redact,
		Hints:      in.hints,
	}

	result := s.engine.Analyze(req)
	observability.LoggerFromContext(r.Context()).Debug("analysis complete",
		zap.Int("overall", result.Scores.Overall),
		zap.Int("matched", result.MatchedTotal),
		zap.Int("missing", result.MissingTotal),
	)
	s.jsonResponse(w, r, http.StatusOK, result)
}

// readAnalyzeInput dispatches on the content type. Unknown types are read as JSON.
func (s *Server) readAnalyzeInput(r *http.Request) (*analyzeInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		return s.readAnalyzeForm(r)
	case "text/plain":
		return readAnalyzePlain(r)
	default:
		return readAnalyzeJSON(r)
	}
}

func readAnalyzeJSON(r *http.Request) (*analyzeInput, error) {
	var body AnalyzeRequest
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}

	in := &analyzeInput{
		resume:  firstNonEmpty(body.ResumeText, body.ResumeTextCamel, body.Resume),
		jd:      firstNonEmpty(body.JDText, body.JD, body.JobDescription),
		weights: body.Weights,
		redact:  body.RedactPII,
	}
	if in.redact == nil {
		in.redact = body.RedactPIICamel
	}
	// a lone "text" field analyses a document against itself
	if in.resume == "" && in.jd == "" && strings.TrimSpace(body.Text) != "" {
		in.resume, in.jd = body.Text, body.Text
	}
	if body.Hints != nil {
		in.hints = *body.Hints
	}
	return in, nil
}

func readAnalyzePlain(r *http.Request) (*analyzeInput, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, badBody(err, "failed to read request body")
	}
	parts := plainSeparator.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), 3)
	in := &analyzeInput{resume: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		in.jd = strings.TrimSpace(parts[1])
	}
	return in, nil
}

func (s *Server) readAnalyzeForm(r *http.Request) (*analyzeInput, error) {
	if err := r.ParseMultipartForm(s.cfg.Server.MaxBodyBytes); err != nil {
		return nil, badBody(err, "invalid multipart form")
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	in := &analyzeInput{
		resume: firstNonEmpty(r.FormValue("resume_text"), r.FormValue("resume")),
		jd:     firstNonEmpty(r.FormValue("jd_text"), r.FormValue("jd")),
	}

	if strings.TrimSpace(in.resume) == "" {
		doc, err := formDocument(r, "resume")
		if err != nil {
			return nil, err
		}
		if doc != nil {
			in.resume, in.hints.Resume = doc.Text, doc.Hints
		}
	}
	if strings.TrimSpace(in.jd) == "" {
		doc, err := formDocument(r, "jd")
		if err != nil {
			return nil, err
		}
		if doc != nil {
			in.jd, in.hints.JD = doc.Text, doc.Hints
		}
	}

	if raw := strings.TrimSpace(r.FormValue("weights")); raw != "" {
		var weights types.PartialWeights
		if err := json.Unmarshal([]byte(raw), &weights); err != nil {
			return nil, &ErrValidation{Field: "weights", Message: "must be a JSON object"}
		}
		in.weights = &weights
	}
	if raw := r.FormValue("redact_pii"); raw != "" {
		redact := strings.EqualFold(strings.TrimSpace(raw), "true")
		in.redact = &redact
	}
	return in, nil
}

// formDocument extracts an uploaded file field. A missing field yields nil, nil.
func formDocument(r *http.Request, field string) (*ingestion.Document, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, badBody(err, fmt.Sprintf("invalid %s upload", field))
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, badBody(err, fmt.Sprintf("failed to read %s upload", field))
	}
	if len(data) == 0 {
		return nil, nil
	}
	return ingestion.ExtractBytes(uploadName(header, field), data)
}

func uploadName(header *multipart.FileHeader, field string) string {
	if header != nil && header.Filename != "" {
		return header.Filename
	}
	return field
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "md"
	}
	format, err := rendering.ParseFormat(kind)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var result types.AnalysisResult
	if err := decodeJSON(r, &result); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	body, err := rendering.Render(result, format)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="resume-review%s"`, format.Extension()))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

func (s *Server) handleFetchJD(w http.ResponseWriter, r *http.Request) {
	var req FetchJDRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, r, fromValidator(err))
		return
	}
	if err := fetch.ValidateURL(req.URL); err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "url", Message: err.Error()})
		return
	}

	logger := observability.LoggerFromContext(r.Context())
	opts := s.fetchOpts
	opts.Logger = logger

	logger.Info("fetching job description", zap.String("url", req.URL))
	posting, err := fetch.JobDescription(r.Context(), req.URL, &opts)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	logger.Info("fetched job description",
		zap.String("platform", string(posting.Platform)),
		zap.Int("chars", len(posting.Text)),
		zap.Bool("browser", posting.UsedBrowser),
	)

	s.jsonResponse(w, r, http.StatusOK, FetchJDResponse{
		Title:    posting.Title,
		Text:     posting.Text,
		Platform: posting.Platform,
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.errorResponse(w, r, fromValidator(err))
		return
	}

	s.jsonResponse(w, r, http.StatusOK, validation.CheckATS(req.FileName, req.ResumeText))
}

// decodeJSON reads a single JSON value from the request body.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return &ErrValidation{Message: "request body is empty"}
	default:
		return badBody(err, "Invalid request body: "+err.Error())
	}
}

// badBody turns an exceeded body limit into ErrPayloadTooLarge and any other read failure into ErrValidation.
func badBody(err error, message string) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return &ErrPayloadTooLarge{Limit: maxBytes.Limit}
	}
	return &ErrValidation{Message: message}
}
