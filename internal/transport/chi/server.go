package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/techlog/postguard/internal/domain"
	domindex "github.com/techlog/postguard/internal/domain/index"
	"github.com/techlog/postguard/internal/domain/post"
	"github.com/techlog/postguard/internal/domain/verdict"
	"github.com/techlog/postguard/internal/transport/dto"
	healthuc "github.com/techlog/postguard/internal/usecase/health"
	publishuc "github.com/techlog/postguard/internal/usecase/publish"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeIndexUnavailable = "index_unavailable"
	CodeInternalError    = "internal_error"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Checker classifies candidates.
type Checker interface {
	Check(ctx context.Context, c *post.Candidate) (verdict.Verdict, error)
}

// Publisher commits and lists posts.
type Publisher interface {
	Add(ctx context.Context, r post.Record) (domindex.Index, error)
	List(ctx context.Context, kind post.Kind) ([]post.Record, error)
	Get(ctx context.Context, id string) (post.Record, error)
	Stats(ctx context.Context) (publishuc.Stats, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the postguard HTTP API.
type Server struct {
	checker       Checker
	publisher     Publisher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(checker Checker, publisher Publisher, health HealthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{checker: checker, publisher: publisher, health: health, logger: logger}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, CodeIndexUnavailable),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/check", s.CheckDuplicate)
		r.Post("/posts", s.AddPost)
		r.Get("/posts", s.ListPosts)
		r.Get("/posts/{id}", s.GetPost)
		r.Get("/stats", s.GetStats)
	})
}

// CheckDuplicate handles POST /api/v1/check.
func (s *Server) CheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var req dto.Candidate
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := req.ToDomain()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	v, err := s.checker.Check(r.Context(), &c)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.VerdictFromDomain(&v))
}

// AddPost handles POST /api/v1/posts. No duplicate check is performed here.
func (s *Server) AddPost(w http.ResponseWriter, r *http.Request) {
	var req dto.Post
	if !decodeBody(w, r, &req) {
		return
	}

	rec, err := req.ToDomain()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	x, err := s.publisher.Add(r.Context(), rec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	meta := x.Metadata()
	writeJSON(w, http.StatusCreated, dto.AddResult{TotalPosts: meta.TotalPosts, LastUpdated: meta.LastUpdated})
}

// ListPostsParams are the query parameters of GET /api/v1/posts.
type ListPostsParams struct {
	Type *string `form:"type,omitempty" json:"type,omitempty"`
}

// ListPosts handles GET /api/v1/posts?type=fundamental|paper.
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	var params ListPostsParams
	if err := runtime.BindQueryParameter("form", true, false, "type", r.URL.Query(), &params.Type); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter type: "+err.Error())
		return
	}

	var kind post.Kind
	if params.Type != nil {
		kind = post.ParseKind(*params.Type)
		if kind != post.Fundamental && kind != post.Paper {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "type must be fundamental or paper")
			return
		}
	}

	records, err := s.publisher.List(r.Context(), kind)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	items := make([]dto.Post, len(records))
	for i := range records {
		items[i] = dto.PostFromDomain(&records[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

// GetPost handles GET /api/v1/posts/{id}.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	rec, err := s.publisher.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PostFromDomain(&rec))
}

// GetStats handles GET /api/v1/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.publisher.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Stats{
		Fundamentals: st.Fundamentals,
		Papers:       st.Papers,
		TotalPosts:   st.TotalPosts,
		Keywords:     st.Keywords,
		Topics:       st.Topics,
		LastUpdated:  st.LastUpdated,
		Consistent:   st.Consistent,
	})
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
	writeJSON(w, httpStatus, map[string]any{"status": string(report.Status), "checks": checks})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// handleDomainError maps sentinel errors to HTTP replies. Validation messages
// are passed through; everything else is reported without internals.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := "internal error"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		msg = err.Error()
	case errors.Is(err, domain.ErrNotFound):
		msg = domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrIndexUnavailable):
		msg = domain.ErrIndexUnavailable.Error()
	}
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
