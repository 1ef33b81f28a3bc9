// Package server exposes the question-answering pipeline over a small
// JSON HTTP API: health, query, stats, and profile endpoints.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/richinex/mentor/config"
	"github.com/richinex/mentor/engine"
	"github.com/richinex/mentor/llm"
	"github.com/richinex/mentor/model"
	"github.com/richinex/mentor/usage"
)

// Server handles the HTTP API. Construct with New and mount Handler.
type Server struct {
	engine      *engine.Engine
	tracker     *usage.Tracker
	profilePath string
	logger      *zap.Logger
}

// New creates a server. The logger must not be nil; pass zap.NewNop()
// to silence logging in tests.
func New(eng *engine.Engine, tracker *usage.Tracker, profilePath string, logger *zap.Logger) *Server {
	return &Server{
		engine:      eng,
		tracker:     tracker,
		profilePath: profilePath,
		logger:      logger,
	}
}

// Handler returns the route table as an http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/query", s.handleQuery)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/profile", s.handleProfile)
	return mux
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", zap.String("addr", addr))
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, model.SuccessResponse(map[string]string{"status": "ok"}))
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start := time.Now()
	result, err := s.engine.Ask(r.Context(), req.Query)
	if err != nil {
		s.logger.Warn("query failed",
			zap.String("query", truncateForLog(req.Query)),
			zap.Error(err))
		status, msg := classifyError(err)
		s.writeError(w, status, msg)
		return
	}

	s.logger.Info("query answered",
		zap.String("query_id", result.QueryID),
		zap.Int("sources", result.Sources),
		zap.Bool("quality_ok", result.Report.IsValid),
		zap.Duration("elapsed", time.Since(start)))

	s.writeJSON(w, http.StatusOK, model.SuccessResponse(model.AnswerData{
		QueryID:  result.QueryID,
		Answer:   result.Answer,
		Tooltips: result.Tooltips,
		Metadata: model.AnswerMetadata{
			Sources:         result.Sources,
			ContextChars:    result.ContextChars,
			EstimatedTokens: result.EstimatedTokens,
			ResponseTimeMs:  result.Elapsed.Milliseconds(),
			QualityOK:       result.Report.IsValid,
			QualityIssues:   result.Report.Issues,
		},
	}))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats := s.engine.Tooltips().UsageStats()
	s.writeJSON(w, http.StatusOK, model.SuccessResponse(map[string]any{
		"usage": s.tracker.Summary(),
		"tooltips": map[string]any{
			"resolutions": stats.Total(),
			"generated":   stats.Generated,
			"efficiency":  stats.Efficiency(),
		},
	}))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, model.SuccessResponse(s.engine.Profile()))
	case http.MethodPut:
		var p config.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid profile body")
			return
		}
		merged := s.engine.Profile().Merge(p)
		if err := config.SaveProfile(s.profilePath, merged); err != nil {
			s.logger.Error("failed to persist profile", zap.Error(err))
			s.writeError(w, http.StatusInternalServerError, "failed to persist profile")
			return
		}
		s.engine.SetProfile(merged)
		s.logger.Info("profile updated", zap.String("role", merged.Role))
		s.writeJSON(w, http.StatusOK, model.SuccessResponse(merged))
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// classifyError maps pipeline errors to HTTP statuses with messages
// safe to return to clients.
func classifyError(err error) (int, string) {
	var genErr *llm.GenerationError
	switch {
	case errors.Is(err, engine.ErrEmptyQuery):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, engine.ErrRetrievalMiss):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &genErr):
		return http.StatusBadGateway, fmt.Sprintf("answer generation failed after %d attempts", genErr.Attempts)
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body model.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, model.ErrorResponse(message))
}

func truncateForLog(q string) string {
	q = strings.TrimSpace(q)
	if len(q) > 80 {
		return q[:80] + "..."
	}
	return q
}
