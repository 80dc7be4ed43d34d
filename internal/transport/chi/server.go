// Package chi implements the HTTP transport: JSON handlers over the usecase
// services, mounted on a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/filinglab/edgardex/internal/domain"
	healthuc "github.com/filinglab/edgardex/internal/usecase/health"
	searchuc "github.com/filinglab/edgardex/internal/usecase/search"
	statsuc "github.com/filinglab/edgardex/internal/usecase/stats"
	trackinguc "github.com/filinglab/edgardex/internal/usecase/tracking"
	"github.com/filinglab/edgardex/internal/version"
)

// Error codes carried in the JSON error body.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeNotFound           = "not_found"
	codeStorageUnavailable = "storage_unavailable"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server hosts the JSON API handlers over the usecase services.
type Server struct {
	tracking      *trackinguc.Service
	search        *searchuc.Service
	stats         *statsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	tracking *trackinguc.Service,
	search *searchuc.Service,
	stats *statsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		tracking: tracking,
		search:   search,
		stats:    stats,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidParameter, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrNoContent, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable, codeStorageUnavailable),
	}
	return s
}

// Register mounts all API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/documents", s.TrackDocument)
		r.Get("/documents/unprocessed", s.ListUnprocessed)
		r.Post("/documents/processed", s.MarkProcessed)
		r.Post("/documents/content", s.SaveContent)

		r.Post("/search/company", s.SearchCompany)
		r.Post("/search/filings", s.SearchFilings)
		r.Post("/search/content", s.SearchContent)

		r.Get("/metrics/crawl", s.GetCrawlMetrics)
		r.Get("/metrics/yearly", s.GetYearlyMetrics)
		r.Get("/metrics/yearly/{company}", s.GetCompanyYearlyMetrics)
		r.Get("/metrics/companies", s.GetCompanyBreakdown)
		r.Get("/errors", s.ListProcessingErrors)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// TrackDocument handles POST /api/v1/documents.
func (s *Server) TrackDocument(w http.ResponseWriter, r *http.Request) {
	var req trackDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	filed, err := parseDate(req.FilingDate, "filing_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	id, err := s.tracking.TrackDocument(r.Context(), trackinguc.TrackRequest{
		CompanyName: req.CompanyName,
		Form:        req.Form,
		FilingDate:  filed,
		URL:         req.URL,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, trackDocumentResponse{ID: id})
}

// MarkProcessed handles POST /api/v1/documents/processed.
func (s *Server) MarkProcessed(w http.ResponseWriter, r *http.Request) {
	var req markProcessedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.tracking.MarkProcessed(r.Context(), req.URL, req.Success, req.ErrorMessage); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SaveContent handles POST /api/v1/documents/content.
func (s *Server) SaveContent(w http.ResponseWriter, r *http.Request) {
	var req saveContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.tracking.SaveContent(r.Context(), req.URL, req.Content); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUnprocessed handles GET /api/v1/documents/unprocessed.
func (s *Server) ListUnprocessed(w http.ResponseWriter, r *http.Request) {
	recs, err := s.tracking.Unprocessed(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentResponse, len(recs))
	for i, rec := range recs {
		items[i] = toDocumentResponse(rec)
	}

	writeJSON(w, http.StatusOK, documentListResponse{Items: items, Total: len(items)})
}

// SearchCompany handles POST /api/v1/search/company.
func (s *Server) SearchCompany(w http.ResponseWriter, r *http.Request) {
	var req companySearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ucReq, err := toCompanyRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	page, err := s.search.CompanySearch(r.Context(), ucReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toResultItem))
}

// SearchFilings handles POST /api/v1/search/filings.
func (s *Server) SearchFilings(w http.ResponseWriter, r *http.Request) {
	var req filingSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ucReq, err := toFormRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	page, err := s.search.FormSearch(r.Context(), ucReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toResultItem))
}

// SearchContent handles POST /api/v1/search/content.
func (s *Server) SearchContent(w http.ResponseWriter, r *http.Request) {
	var req contentSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ucReq, err := toContentRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	page, err := s.search.ContentSearch(r.Context(), ucReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(page, toResultItem))
}

// GetCrawlMetrics handles GET /api/v1/metrics/crawl.
func (s *Server) GetCrawlMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.stats.CrawlMetrics(r.Context(), r.URL.Query().Get("company"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCrawlResponse(m))
}

// GetYearlyMetrics handles GET /api/v1/metrics/yearly.
func (s *Server) GetYearlyMetrics(w http.ResponseWriter, r *http.Request) {
	years, err := s.stats.YearlyMetrics(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toYearlyList(years))
}

// GetCompanyYearlyMetrics handles GET /api/v1/metrics/yearly/{company}.
func (s *Server) GetCompanyYearlyMetrics(w http.ResponseWriter, r *http.Request) {
	years, err := s.stats.CompanyYearlyMetrics(r.Context(), urlParam(r, "company"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toYearlyList(years))
}

// GetCompanyBreakdown handles GET /api/v1/metrics/companies.
func (s *Server) GetCompanyBreakdown(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pagingParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	bp, err := s.stats.CompanyBreakdown(r.Context(), page, pageSize)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(bp, toCompanyMetricsResponse))
}

// ListProcessingErrors handles GET /api/v1/errors.
func (s *Server) ListProcessingErrors(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := pagingParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	ep, err := s.stats.ProcessingErrorsPage(r.Context(), r.URL.Query().Get("company"), page, pageSize)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(ep, toErrorItem))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Version: version.String(),
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// urlParam returns a path parameter with percent-encoding undone, so company
// names with spaces survive the round trip.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// pagingParams reads the optional page and page_size query parameters.
// Zero means "not set"; the services apply their own defaults.
func pagingParams(r *http.Request) (int, int, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := queryInt(r, "page_size")
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

// safeMessage returns a client-facing message. Validation errors carry their
// full detail (they describe the caller's own input); everything else is
// reduced to the sentinel message so storage internals never leak.
func safeMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidParameter) {
		return err.Error()
	}
	for _, s := range []error{domain.ErrNoContent, domain.ErrStorageUnavailable} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
