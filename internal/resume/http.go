package resume

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/resume/gemini"
	httperrors "github.com/gokatarajesh/skill-horizon/pkg/http/errors"
)

const (
	defaultMaxUpload = 2 << 20
	uploadField      = "resume"
)

type jobSubmitter interface {
	Submit(ctx context.Context, text string) (Job, error)
	Get(ctx context.Context, id string) (Job, error)
}

// HTTPHandler serves the resume analysis API.
type HTTPHandler struct {
	analyzer  resumeAnalyzer
	jobs      jobSubmitter
	maxUpload int64
	logger    zerolog.Logger
}

// NewHTTPHandler wires the handler. jobs may be nil when no worker runs.
func NewHTTPHandler(analyzer resumeAnalyzer, jobs jobSubmitter, maxUpload int64, logger zerolog.Logger) *HTTPHandler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &HTTPHandler{
		analyzer:  analyzer,
		jobs:      jobs,
		maxUpload: maxUpload,
		logger:    logger.With().Str("component", "resume_http").Logger(),
	}
}

// Register mounts the resume routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/resume/analyze", h.Analyze)
	mux.HandleFunc("POST /v1/resume/match", h.Match)
	mux.HandleFunc("POST /v1/resume/analyses", h.Submit)
	mux.HandleFunc("GET /v1/resume/analyses/{job_id}", h.GetJob)
}

type analyzeResponse struct {
	Analysis Analysis    `json:"analysis"`
	Match    MatchResult `json:"match"`
}

// Analyze handles POST /v1/resume/analyze with a JSON {"text"} body or a multipart "resume" file.
func (h *HTTPHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	text, err := h.readResume(w, r)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), text)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, analyzeResponse{Analysis: analysis, Match: Match(analysis)})
}

// Match handles POST /v1/resume/match for an analysis the client already has.
func (h *HTTPHandler) Match(w http.ResponseWriter, r *http.Request) {
	var analysis Analysis
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&analysis); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	analysis.normalize()
	if len(analysis.Skills) == 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "At least one skill is required", "skills")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, Match(analysis))
}

// Submit handles POST /v1/resume/analyses.
func (h *HTTPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeFeatureNotAvailable, "Background analysis is not available")
		return
	}

	text, err := h.readResume(w, r)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	job, err := h.jobs.Submit(r.Context(), text)
	if errors.Is(err, ErrEnqueue) {
		h.logger.Error().Err(err).Msg("enqueue analysis failed")
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeEnqueueFailed, "Could not queue analysis")
		return
	}
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.Header().Set("Location", "/v1/resume/analyses/"+job.ID)
	httperrors.RespondJSON(w, http.StatusAccepted, job)
}

// GetJob handles GET /v1/resume/analyses/{job_id}.
func (h *HTTPHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeFeatureNotAvailable, "Background analysis is not available")
		return
	}

	job, err := h.jobs.Get(r.Context(), r.PathValue("job_id"))
	if errors.Is(err, ErrJobNotFound) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeJobNotFound, "Analysis job not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("load job failed")
		httperrors.RespondInternalError(w, "Could not load analysis job")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, job)
}

func (h *HTTPHandler) readResume(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return "", err
			}
			return "", errBadUpload
		}
		file, header, err := r.FormFile(uploadField)
		if err != nil {
			return "", errMissingUpload
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return ExtractText(header.Filename, header.Header.Get("Content-Type"), data)
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", err
		}
		return "", errBadJSON
	}
	return req.Text, nil
}

var (
	errMissingUpload = errors.New("missing resume file")
	errBadJSON       = errors.New("invalid JSON payload")
	errBadUpload     = errors.New("malformed multipart upload")
)

func (h *HTTPHandler) respondErr(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig), errors.Is(err, ErrResumeTooLarge):
		httperrors.RespondError(w, http.StatusRequestEntityTooLarge, httperrors.ErrCodePayloadTooLarge, "Resume is too large")
	case errors.Is(err, errBadJSON):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
	case errors.Is(err, errBadUpload):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Malformed upload")
	case errors.Is(err, errMissingUpload):
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "Resume file required", uploadField)
	case errors.Is(err, ErrEmptyResume):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeEmptyResume, "Resume text is empty")
	case errors.Is(err, ErrUnsupportedFormat):
		httperrors.RespondError(w, http.StatusUnsupportedMediaType, httperrors.ErrCodeUnsupportedFormat, err.Error())
	case errors.Is(err, gemini.ErrNotConfigured):
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeFeatureNotAvailable, "Resume analysis is not available")
	default:
		h.logger.Error().Err(err).Msg("resume analysis failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeAnalysisFailed, "Failed to analyze resume. Please try again.")
	}
}
