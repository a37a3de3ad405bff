// Package server exposes the verification engine over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/mathjudge/internal/store"
	"github.com/abhisek/mathjudge/internal/verify"
)

// Server handles verification requests.
type Server struct {
	verifier *verify.Verifier
	repo     store.EventRepo
	cache    *ResultCache
	logger   *slog.Logger
}

// Options configures optional server dependencies. Every field may be
// left zero: a nil repo disables event recording and a nil cache
// disables result caching.
type Options struct {
	Repo   store.EventRepo
	Cache  *ResultCache
	Logger *slog.Logger
}

// New creates a Server around the given verifier.
func New(verifier *verify.Verifier, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		verifier: verifier,
		repo:     opts.Repo,
		cache:    opts.Cache,
		logger:   logger,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/api/verify", s.handleVerify).Methods("POST")
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	return r
}

// VerifyRequest is the request body for POST /api/verify.
type VerifyRequest struct {
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	QuestionType  string `json:"questionType"`
	Integrand     string `json:"integrand,omitempty"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qt := verify.QuestionType(req.QuestionType)
	if !verify.ValidQuestionType(qt) {
		writeError(w, http.StatusBadRequest, "unknown question type: "+req.QuestionType)
		return
	}

	ctx := r.Context()

	if s.cache != nil {
		if res, ok := s.cache.Get(ctx, req); ok {
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	start := time.Now()
	res := s.verifier.Verify(ctx, req.UserAnswer, req.CorrectAnswer, qt, req.Integrand)
	elapsed := time.Since(start)

	if s.repo != nil {
		if err := s.repo.AppendVerification(ctx, store.VerificationEventData{
			QuestionType: string(qt),
			Method:       string(res.Method),
			Correct:      res.Correct,
			Message:      res.Message,
			LatencyMs:    elapsed.Milliseconds(),
		}); err != nil {
			s.logger.Warn("record verification event", "error", err)
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, req, res)
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
