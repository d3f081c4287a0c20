// internal/server/models.go
package server

import (
	"premiumradar-core/internal/pipeline/extract"
	"premiumradar-core/internal/pipeline/normalize"
	"premiumradar-core/internal/pipeline/orchestrate"
	"premiumradar-core/internal/pipeline/route"
)

// QueryRequest is the body of POST /api/copilot/query. The plan only runs
// when Execute is set; the default response carries classification, the
// normalized query, and the routing decision.
type QueryRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	Query     string `json:"query"`
	Execute   bool   `json:"execute,omitempty"`
}

// QueryResponse is everything the pipeline produced for one query.
type QueryResponse struct {
	SessionID     string                     `json:"sessionId"`
	Query         string                     `json:"query"`
	ResolvedQuery string                     `json:"resolvedQuery"`
	Intent        string                     `json:"intent"`
	Confidence    float64                    `json:"confidence"`
	IsCompound    bool                       `json:"isCompound"`
	Entities      *extract.Result            `json:"entities"`
	Normalized    *normalize.NormalizedQuery `json:"normalized"`
	Decision      *route.Decision            `json:"decision"`
	Execution     *orchestrate.Result        `json:"execution"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
