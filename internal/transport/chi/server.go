package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadscout/internal/domain"
	"github.com/kailas-cloud/leadscout/internal/domain/profile"
	"github.com/kailas-cloud/leadscout/internal/domain/search/filter"
	"github.com/kailas-cloud/leadscout/internal/domain/search/request"
	"github.com/kailas-cloud/leadscout/internal/domain/search/suggestion"
	domusage "github.com/kailas-cloud/leadscout/internal/domain/usage"
	healthuc "github.com/kailas-cloud/leadscout/internal/usecase/health"
	usageuc "github.com/kailas-cloud/leadscout/internal/usecase/usage"
)

const maxBodyBytes = 64 << 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the lead search HTTP API.
type Server struct {
	search        Searcher
	health        *healthuc.Service
	usage         *usageuc.Service
	fallback      profile.ContactFallback
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	health *healthuc.Service,
	usage *usageuc.Service,
	fallback profile.ContactFallback,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		health:   health,
		usage:    usage,
		fallback: fallback,
		logger:   logger,
	}
	// Rate limiting is checked before "no results": an all-failed search matches both.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorResponseCodeRateLimited),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrNoResults, http.StatusNotFound, ErrorResponseCodeNoResults),
		sentinelHandler(domain.ErrGeneratorError, http.StatusBadGateway, ErrorResponseCodeGeneratorError),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.SearchLeads)
		r.Get("/search", s.SearchLeadsByQuery)
		r.Get("/suggestions", s.ListSuggestions)
		r.Get("/usage", s.GetUsage)
	})
}

// SearchLeads handles POST /api/v1/search.
func (s *Server) SearchLeads(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var f SearchFilters
	if body.Filters != nil {
		f = *body.Filters
	}
	s.runSearch(w, r, body.Keyword, f)
}

// SearchLeadsByQuery handles GET /api/v1/search.
func (s *Server) SearchLeadsByQuery(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "keyword", q, &params.Keyword); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter keyword: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "min_followers", q, &params.MinFollowers); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter min_followers: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "max_followers", q, &params.MaxFollowers); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter max_followers: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "bio_keyword", q, &params.BioKeyword); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter bio_keyword: "+err.Error())
		return
	}

	s.runSearch(w, r, params.Keyword, SearchFilters{
		MinFollowers: derefString(params.MinFollowers),
		MaxFollowers: derefString(params.MaxFollowers),
		BioKeyword:   derefString(params.BioKeyword),
	})
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, keyword string, f SearchFilters) {
	filters, err := filter.New(f.MinFollowers, f.MaxFollowers, f.BioKeyword)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}
	req, err := request.New(keyword, filters)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.search.Search(ctx, &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setGenerationHeaders(w, usage)
	writeJSON(w, http.StatusOK, resultToDTO(&res, s.fallback))
}

// ListSuggestions handles GET /api/v1/suggestions.
func (s *Server) ListSuggestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: suggestion.List(suggestion.DefaultShown)})
}

// GetUsage handles GET /api/v1/usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	var period *string
	if err := runtime.BindQueryParameter("form", true, false, "period", r.URL.Query(), &period); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid format for parameter period: "+err.Error())
		return
	}
	p, ok := domusage.ParsePeriod(derefString(period))
	if !ok {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "period must be day or month")
		return
	}

	report := s.usage.GetReport(r.Context(), p)
	writeJSON(w, http.StatusOK, usageToDTO(&report))
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

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setGenerationHeaders(w http.ResponseWriter, usage *domain.GenerationUsage) {
	if usage.TotalTokens() > 0 {
		w.Header().Set("X-Generation-Tokens", strconv.Itoa(usage.TotalTokens()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error", zap.Error(err), zap.String("path", r.URL.Path))
	msg := domain.UserMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, msg)
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
