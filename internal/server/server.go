// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"premiumradar-core/internal/common/errors"
	"premiumradar-core/internal/common/logger"
	"premiumradar-core/internal/common/observability"
	"premiumradar-core/internal/pipeline"
	"premiumradar-core/internal/pipeline/memory"
	"premiumradar-core/internal/pipeline/orchestrate"
	"premiumradar-core/internal/session"
)

const maxQueryLength = 2000

// Server exposes the copilot pipeline over HTTP.
type Server struct {
	pipeline *pipeline.Pipeline
	sessions *session.Store
	executor orchestrate.StepExecutor
	obs      *observability.Observability
	logger   logger.Logger
}

// New builds the HTTP layer over a pipeline, a session store, and a step
// executor. obs may be nil.
func New(p *pipeline.Pipeline, sessions *session.Store, executor orchestrate.StepExecutor, obs *observability.Observability, log logger.Logger) *Server {
	return &Server{
		pipeline: p,
		sessions: sessions,
		executor: executor,
		obs:      obs,
		logger:   log,
	}
}

// Handler returns the full route mux, metrics endpoint included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleHealth)
	mux.HandleFunc("/api/copilot/query", s.handleQuery)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.NewInvalidRequestError("only POST is supported"))
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.NewInvalidRequestError("malformed JSON body: "+err.Error()))
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, errors.NewInvalidRequestError("query is required"))
		return
	}
	if len(req.Query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, errors.NewInvalidRequestError("query exceeds maximum length"))
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	ctx := r.Context()
	started := time.Now()
	sess, err := s.sessions.Load(ctx, req.SessionID)
	if err != nil {
		s.logger.WithError(err).Error("session load failed", map[string]interface{}{
			"session_id": req.SessionID,
		})
		s.obs.RecordQueryProcessed(ctx, "error")
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	understanding := s.pipeline.Understand(req.Query, sess.Memory)
	decision := s.pipeline.Route(understanding)
	var execution *orchestrate.Result
	if req.Execute {
		execution = s.pipeline.Execute(ctx, decision, s.executor, nil)
	}

	sess.Memory = memory.WithResponse(understanding.Memory,
		understanding.Normalized.Description)
	if err := s.sessions.Save(ctx, sess); err != nil {
		// Losing one turn of context degrades follow-ups but not this answer.
		s.logger.WithError(err).Warn("session save failed", map[string]interface{}{
			"session_id": req.SessionID,
		})
	}

	status := "success"
	if execution != nil && !execution.Success {
		status = "execution_failed"
	}
	s.obs.RecordQueryProcessed(ctx, status)
	s.obs.RecordQueryDuration(ctx, time.Since(started), status)

	writeJSON(w, http.StatusOK, &QueryResponse{
		SessionID:     req.SessionID,
		Query:         req.Query,
		ResolvedQuery: understanding.Resolution.ResolvedQuery,
		Intent:        understanding.Classification.Primary.Type,
		Confidence:    understanding.Classification.Primary.Confidence,
		IsCompound:    understanding.Classification.IsCompound,
		Entities:      understanding.Entities,
		Normalized:    understanding.Normalized,
		Decision:      decision,
		Execution:     execution,
	})
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	var stdErr *errors.StandardError
	if e, ok := err.(*errors.StandardError); ok {
		stdErr = e
	}
	if stdErr != nil {
		resp.Code = string(stdErr.Code)
		resp.Message = stdErr.Message
		resp.Details = stdErr.Details
	}
	writeJSON(w, status, resp)
}
