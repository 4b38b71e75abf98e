package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/skill-validator/internal/analysis"
	"github.com/jonathan/skill-validator/internal/ingestion"
	"github.com/jonathan/skill-validator/internal/parsing"
	"github.com/jonathan/skill-validator/internal/types"
)

// AnalyzeRequest represents the request body for /analyze and /analyze/stream
type AnalyzeRequest struct {
	ResumeText     *string                  `json:"resume_text"`
	Skills         []string                 `json:"skills,omitempty" validate:"max=200,dive,max=100"`
	JobDescription string                   `json:"job_description,omitempty"`
	JobURL         string                   `json:"job_url,omitempty" validate:"omitempty,url"`
	Config         types.ThresholdOverrides `json:"config"`
}

// AnalyzeResponse represents the response for the analyze endpoints
type AnalyzeResponse struct {
	Report         *types.ValidationReport `json:"report"`
	SkillsInResume []string                `json:"skills_in_resume"` // requested skills literally present
	ContactPhone   string                  `json:"contact_phone"`
}

// ResumeResult is one resume's entry in a batch upload. Name is the uploaded file name.
type ResumeResult struct {
	Name string `json:"name"`
	AnalyzeResponse
}

// BatchAnalyzeResponse is returned when /analyze/upload receives several resumes
type BatchAnalyzeResponse struct {
	Results []ResumeResult `json:"results"`
}

// maxBatchResumes caps the resumes accepted in one upload
const maxBatchResumes = 20

// ExtractTextResponse represents the response for /extract-text
type ExtractTextResponse struct {
	Text         string              `json:"text"`
	Metadata     *ingestion.Metadata `json:"metadata"`
	ContactPhone string              `json:"contact_phone"`
}

// SkillEvent is streamed once per finished skill
type SkillEvent struct {
	Index  int               `json:"index"`
	Result types.SkillResult `json:"result"`
}

// handleAnalyze validates skills against resume text in a JSON body
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}
	s.runAnalysis(w, r, req)
}

// handleAnalyzeUpload validates skills against an uploaded resume document
func (s *Server) handleAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	resumes, err := s.readUploadedDocuments(r, "resume")
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if len(resumes) > maxBatchResumes {
		s.failure(w, r, &ErrValidation{Field: "resume", Message: fmt.Sprintf("at most %d resumes per upload", maxBatchResumes)})
		return
	}

	thresholds, err := formThresholds(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	req := AnalyzeRequest{
		ResumeText:     &resumes[0].Text,
		JobDescription: r.FormValue("job_description"),
		JobURL:         r.FormValue("job_url"),
		Config:         thresholds,
	}
	for _, value := range r.MultipartForm.Value["skills"] {
		req.Skills = append(req.Skills, parsing.ParseSkillList(value)...)
	}

	if len(resumes) == 1 {
		s.runAnalysis(w, r, req)
		return
	}
	s.runBatch(w, r, req, resumes)
}

// runBatch analyzes several resumes against one skill list. The job posting is
// fetched and its skills discovered once, then each resume gets its own report.
func (s *Server) runBatch(w http.ResponseWriter, r *http.Request, req AnalyzeRequest, resumes []uploadedDocument) {
	analysisReq, err := s.buildRequest(r.Context(), req)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if len(analysisReq.Skills) == 0 && strings.TrimSpace(analysisReq.JobDescription) != "" {
		skills, err := s.analyzer.DiscoverSkills(r.Context(), analysisReq.JobDescription)
		if err != nil {
			s.failure(w, r, err)
			return
		}
		analysisReq.Skills = skills
		analysisReq.JobDescription = ""
	}

	resp := BatchAnalyzeResponse{Results: make([]ResumeResult, 0, len(resumes))}
	for _, doc := range resumes {
		one := analysisReq
		one.ResumeText = &doc.Text
		if err := analysis.ValidateRequest(one); err != nil {
			s.failure(w, r, fmt.Errorf("%s: %w", doc.Name, err))
			return
		}
		report, err := s.analyzer.AnalyzeStream(r.Context(), one, nil)
		if err != nil {
			s.failure(w, r, fmt.Errorf("%s: %w", doc.Name, err))
			return
		}
		resp.Results = append(resp.Results, ResumeResult{
			Name:            doc.Name,
			AnalyzeResponse: newAnalyzeResponse(doc.Text, report),
		})
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleAnalyzeStream streams one "skill" event per finished skill, then the "report"
func (s *Server) handleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failure(w, r, err)
		return
	}

	analysisReq, err := s.buildRequest(r.Context(), req)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	report, err := s.analyzer.AnalyzeStream(r.Context(), analysisReq, func(index int, result types.SkillResult) {
		if err := sse.WriteEvent("skill", SkillEvent{Index: index, Result: result}); err != nil {
			s.logger.Debug("failed to write skill event", "error", err)
		}
	})
	if err != nil {
		sse.WriteError(err.Error())
		return
	}

	sse.WriteEvent("report", newAnalyzeResponse(*analysisReq.ResumeText, report)) //nolint:errcheck
}

// handleExtractText returns the cleaned text of a PDF, DOCX or TXT document.
// It accepts a multipart "file" field or a raw body typed by ?type= or Content-Type.
func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var (
		text     string
		metadata *ingestion.Metadata
		err      error
	)
	if isMultipart(r) {
		text, metadata, err = s.readUploadedDocument(r, "file")
	} else {
		text, metadata, err = readRawDocument(r)
	}
	if err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractTextResponse{
		Text:         text,
		Metadata:     metadata,
		ContactPhone: parsing.ExtractPhone(text),
	})
}

// runAnalysis resolves req and writes the report
func (s *Server) runAnalysis(w http.ResponseWriter, r *http.Request, req AnalyzeRequest) {
	analysisReq, err := s.buildRequest(r.Context(), req)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	report, err := s.analyzer.AnalyzeStream(r.Context(), analysisReq, nil)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, newAnalyzeResponse(*analysisReq.ResumeText, report))
}

// buildRequest validates req and fetches the job description when only a URL is given
func (s *Server) buildRequest(ctx context.Context, req AnalyzeRequest) (types.AnalysisRequest, error) {
	if err := s.validateStruct(req); err != nil {
		return types.AnalysisRequest{}, err
	}
	if req.JobURL != "" && strings.TrimSpace(req.JobDescription) != "" {
		return types.AnalysisRequest{}, &ErrValidation{Field: "job_url", Message: "job_url and job_description are mutually exclusive"}
	}

	analysisReq := types.AnalysisRequest{
		ResumeText:     req.ResumeText,
		Skills:         req.Skills,
		JobDescription: req.JobDescription,
		Config:         req.Config.Apply(types.DefaultValidationConfig()),
	}
	if err := analysis.ValidateRequest(analysisReq); err != nil {
		return types.AnalysisRequest{}, err
	}

	if req.JobURL != "" && len(req.Skills) == 0 {
		text, _, err := ingestion.IngestFromURL(ctx, s.fetcher, req.JobURL)
		if err != nil {
			return types.AnalysisRequest{}, err
		}
		analysisReq.JobDescription = text
	}
	return analysisReq, nil
}

func newAnalyzeResponse(resume string, report *types.ValidationReport) AnalyzeResponse {
	results := report.Results()
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Skill)
	}
	return AnalyzeResponse{
		Report:         report,
		SkillsInResume: parsing.MatchSkills(resume, names),
		ContactPhone:   parsing.ExtractPhone(resume),
	}
}

// decodeJSON reads a size-limited JSON body into v
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return tooLarge
		}
		return &ErrValidation{Field: "body", Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

// validateStruct runs the validator and reports the first failing field by its JSON name
func (s *Server) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &ErrValidation{
			Field:   field,
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// jsonTagName names fields by their JSON key in validation errors
func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// uploadedDocument is the extracted text of one multipart file
type uploadedDocument struct {
	Name     string
	Text     string
	Metadata *ingestion.Metadata
}

// readUploadedDocument extracts the text of the first multipart file in field
func (s *Server) readUploadedDocument(r *http.Request, field string) (string, *ingestion.Metadata, error) {
	docs, err := s.readUploadedDocuments(r, field)
	if err != nil {
		return "", nil, err
	}
	return docs[0].Text, docs[0].Metadata, nil
}

// readUploadedDocuments extracts every multipart file sent under field, in order.
// With several files, errors are prefixed by the failing file's name.
func (s *Server) readUploadedDocuments(r *http.Request, field string) ([]uploadedDocument, error) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, tooLarge
		}
		return nil, &ErrValidation{Field: field, Message: "expected a multipart/form-data upload"}
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, &ErrValidation{Field: field, Message: "file is required"}
	}

	declared := r.FormValue("type")
	docs := make([]uploadedDocument, 0, len(headers))
	for _, header := range headers {
		text, metadata, err := extractUpload(header, declared)
		if err != nil {
			if len(headers) > 1 {
				err = fmt.Errorf("%s: %w", header.Filename, err)
			}
			return nil, err
		}
		docs = append(docs, uploadedDocument{Name: header.Filename, Text: text, Metadata: metadata})
	}
	return docs, nil
}

// extractUpload reads one uploaded file. The type comes from declared, then the
// file name, then the part's own Content-Type.
func extractUpload(header *multipart.FileHeader, declared string) (string, *ingestion.Metadata, error) {
	if declared == "" {
		declared = header.Filename
	}
	docType, err := ingestion.ParseDocumentType(declared)
	if err != nil {
		if fromHeader, headerErr := ingestion.ParseDocumentType(header.Header.Get("Content-Type")); headerErr == nil {
			docType, err = fromHeader, nil
		}
	}
	if err != nil {
		return "", nil, err
	}

	file, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}

	text, err := ingestion.ExtractText(data, docType)
	if err != nil {
		return "", nil, err
	}

	metadata := ingestion.NewMetadata(text, "")
	metadata.Source = header.Filename
	metadata.Type = string(docType)
	return text, metadata, nil
}

// readRawDocument extracts the text of a request body typed by ?type= or Content-Type
func readRawDocument(r *http.Request) (string, *ingestion.Metadata, error) {
	declared := r.URL.Query().Get("type")
	if declared == "" {
		declared = r.Header.Get("Content-Type")
	}
	docType, err := ingestion.ParseDocumentType(declared)
	if err != nil {
		return "", nil, err
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, tooLarge
		}
		return "", nil, fmt.Errorf("failed to read body: %w", err)
	}

	text, err := ingestion.ExtractText(data, docType)
	if err != nil {
		return "", nil, err
	}

	metadata := ingestion.NewMetadata(text, "")
	metadata.Type = string(docType)
	return text, metadata, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// formThresholds reads optional threshold overrides from form fields
func formThresholds(r *http.Request) (types.ThresholdOverrides, error) {
	var overrides types.ThresholdOverrides
	fields := []struct {
		name   string
		target **float64
	}{
		{"min_semantic_score", &overrides.MinSemanticScore},
		{"min_confidence_score", &overrides.MinConfidenceScore},
		{"recency_weight", &overrides.RecencyWeight},
	}

	for _, f := range fields {
		raw := strings.TrimSpace(r.FormValue(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.ThresholdOverrides{}, &ErrValidation{Field: "config." + f.name, Message: "must be a number"}
		}
		*f.target = &v
	}
	return overrides, nil
}
