// internal/server/server_test.go
package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/common/config"
	"premiumradar-core/internal/common/logger"
	"premiumradar-core/internal/pipeline"
	"premiumradar-core/internal/pipeline/memory"
	"premiumradar-core/internal/session"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewTestLogger(t)
	cfg := config.RouterConfig{
		DefaultTimeout:      30000,
		MaxRetries:          2,
		ParallelismLimit:    3,
		ConfidenceThreshold: 0.6,
		EnableFallbacks:     true,
		EnableHandoffs:      true,
	}
	reg := agents.NewRegistry()
	p := pipeline.New(reg, cfg, log)
	store := session.NewStore(client, time.Hour, memory.DefaultMaxEntries, log)

	return New(p, store, NewSimulatedExecutor(reg), nil, log)
}

func postQuery(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/copilot/query", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleQuery_Success(t *testing.T) {
	srv := testServer(t)
	handler := srv.Handler()

	rec := postQuery(t, handler, `{"query":"find banks in UAE","execute":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "discovery.search", resp.Intent)
	assert.Equal(t, "discovery", resp.Decision.PrimaryAgent)
	require.NotNil(t, resp.Execution)
	assert.True(t, resp.Execution.Success)
	require.NotNil(t, resp.Normalized)
	assert.Equal(t, "list", resp.Normalized.Parameters.OutputFormat)
}

func TestHandleQuery_RoutingOnly(t *testing.T) {
	srv := testServer(t)
	handler := srv.Handler()

	// Without the execute flag the plan is built but never run.
	rec := postQuery(t, handler, `{"query":"find banks in UAE"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "discovery.search", resp.Intent)
	require.NotNil(t, resp.Decision)
	assert.Equal(t, "discovery", resp.Decision.PrimaryAgent)
	assert.NotEmpty(t, resp.Decision.Plan.Steps)
	assert.Nil(t, resp.Execution)
	require.NotNil(t, resp.Normalized)
}

func TestHandleQuery_SessionContinuity(t *testing.T) {
	srv := testServer(t)
	handler := srv.Handler()

	rec := postQuery(t, handler, `{"sessionId":"conv-1","query":"tell me about Emirates NBD and ADCB"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postQuery(t, handler, `{"sessionId":"conv-1","query":"score them"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "conv-1", resp.SessionID)
	assert.Contains(t, resp.ResolvedQuery, "Emirates NBD")
	assert.Contains(t, resp.ResolvedQuery, "ADCB")
	assert.Equal(t, "ranking.score", resp.Intent)
	assert.Equal(t, "ranking", resp.Decision.PrimaryAgent)
}

func TestHandleQuery_Validation(t *testing.T) {
	srv := testServer(t)
	handler := srv.Handler()

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"empty query", `{"query":""}`, http.StatusBadRequest},
		{"whitespace query", `{"query":"   "}`, http.StatusBadRequest},
		{"malformed json", `{"query":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postQuery(t, handler, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "INVALID_REQUEST", resp.Code)
		})
	}
}

func TestHandleQuery_MethodNotAllowed(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/copilot/query", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
