package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shelfsage/shelfsage/internal/domain"
	healthuc "github.com/shelfsage/shelfsage/internal/usecase/health"
	"github.com/shelfsage/shelfsage/internal/usecase/recommend"
)

// errorCode is the machine-readable error identifier in error payloads.
type errorCode string

const (
	codeBadRequest          errorCode = "bad_request"
	codeInvalidQuery        errorCode = "invalid_query"
	codeDimensionMismatch   errorCode = "dimension_mismatch"
	codeUpstreamUnavailable errorCode = "upstream_unavailable"
	codeInternalError       errorCode = "internal_error"
)

// Recommender is the recommendation facade the server fronts.
type Recommender interface {
	Recommend(ctx context.Context, query string, topK int) (recommend.Result, error)
	Prewarm(ctx context.Context) (bool, error)
}

// HistoryLister reads back recent recommendation queries.
type HistoryLister interface {
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the recommendation engine over HTTP.
type Server struct {
	recommender   Recommender
	history       HistoryLister
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. history can be nil when the history
// store is not configured.
func NewServer(
	recommender Recommender,
	history HistoryLister,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommender: recommender,
		history:     history,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		invalidQueryHandler,
		dimensionMismatchHandler,
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusServiceUnavailable, codeUpstreamUnavailable),
	}
	return s
}

// Register mounts the API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/v1/recommendations", s.Recommendations)
	r.Get("/api/v1/history", s.History)
	r.Post("/api/v1/prewarm", s.Prewarm)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type recommendationRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type recommendationResponse struct {
	Recommendations []domain.Book `json:"recommendations"`
	SemanticTags    []string      `json:"semantic_tags"`
}

// Recommendations handles POST /api/v1/recommendations.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.recommender.Recommend(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendationResponse{
		Recommendations: result.Books,
		SemanticTags:    result.SemanticTags,
	})
}

type historyResponse struct {
	Entries []domain.HistoryEntry `json:"entries"`
}

// History handles GET /api/v1/history.
func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, codeBadRequest, "search history is not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}

	writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

type prewarmResponse struct {
	Warmed bool `json:"warmed"`
}

// Prewarm handles POST /api/v1/prewarm.
func (s *Server) Prewarm(w http.ResponseWriter, r *http.Request) {
	warmed, err := s.recommender.Prewarm(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prewarmResponse{Warmed: warmed})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type errorBody struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    code,
		Message: message,
	}})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, sentinel.Error())
		return true
	}
}

// invalidQueryHandler surfaces the full validation message. Validation errors
// are constructed by this service and safe to echo back.
func invalidQueryHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	writeError(w, http.StatusBadRequest, codeInvalidQuery, err.Error())
	return true
}

// dimensionMismatchHandler reports the expected and actual vector lengths when
// the typed error carries them.
func dimensionMismatchHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		return false
	}
	var dme *domain.DimensionMismatchError
	if errors.As(err, &dme) {
		writeError(w, http.StatusInternalServerError, codeDimensionMismatch, dme.Error())
		return true
	}
	writeError(w, http.StatusInternalServerError, codeDimensionMismatch, domain.ErrDimensionMismatch.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
