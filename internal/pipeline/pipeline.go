// internal/pipeline/pipeline.go
package pipeline

import (
	"context"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/common/config"
	"premiumradar-core/internal/common/logger"
	"premiumradar-core/internal/common/metrics"
	"premiumradar-core/internal/pipeline/extract"
	"premiumradar-core/internal/pipeline/intent"
	"premiumradar-core/internal/pipeline/memory"
	"premiumradar-core/internal/pipeline/normalize"
	"premiumradar-core/internal/pipeline/orchestrate"
	"premiumradar-core/internal/pipeline/route"
)

// Pipeline wires understanding, routing, and orchestration into one entry
// point. It holds no per-query state; context memory is owned by the caller
// and passed through each call.
type Pipeline struct {
	registry     *agents.Registry
	router       *route.Router
	orchestrator *orchestrate.Orchestrator
	logger       logger.Logger
}

// Understanding is everything the pipeline learned about one query before
// routing.
type Understanding struct {
	Query          string                     `json:"query"`
	Resolution     memory.Resolution          `json:"resolution"`
	Classification *intent.Classification     `json:"classification"`
	Entities       *extract.Result            `json:"entities"`
	Normalized     *normalize.NormalizedQuery `json:"normalized"`
	Memory         memory.State               `json:"-"`
}

// Outcome is the full result of processing one query end to end.
type Outcome struct {
	Understanding *Understanding      `json:"understanding"`
	Decision      *route.Decision     `json:"decision"`
	Execution     *orchestrate.Result `json:"execution"`
}

// New builds a pipeline over the given registry and router configuration.
func New(registry *agents.Registry, cfg config.RouterConfig, log logger.Logger) *Pipeline {
	return &Pipeline{
		registry:     registry,
		router:       route.NewRouter(registry, cfg, log),
		orchestrator: orchestrate.NewOrchestrator(registry, cfg, log),
		logger:       log,
	}
}

// Registry exposes the capability registry the pipeline routes against.
func (p *Pipeline) Registry() *agents.Registry {
	return p.registry
}

// Understand resolves the query against context memory, extracts entities,
// classifies intent, normalizes parameters, and returns the updated memory
// state alongside. The input state is never mutated.
func (p *Pipeline) Understand(query string, state memory.State) *Understanding {
	resolution := memory.Resolve(query, state)
	resolved := resolution.ResolvedQuery

	entities := extract.Extract(resolved)
	classification := intent.Classify(resolved)
	normalized := normalize.Normalize(resolved, classification, entities)
	updated := memory.Add(state, query, classification, entities, resolution.Resolutions)

	metrics.QueriesClassified.WithLabelValues(classification.Primary.Type).Inc()
	p.logger.Debug("query understood", map[string]interface{}{
		"query":          query,
		"resolved_query": resolved,
		"intent":         classification.Primary.Type,
		"confidence":     classification.Primary.Confidence,
		"entities":       len(entities.Entities),
		"is_compound":    classification.IsCompound,
	})

	return &Understanding{
		Query:          query,
		Resolution:     resolution,
		Classification: classification,
		Entities:       entities,
		Normalized:     normalized,
		Memory:         updated,
	}
}

// Route builds a routing decision from an understanding.
func (p *Pipeline) Route(u *Understanding) *route.Decision {
	return p.router.Route(u.Resolution.ResolvedQuery, u.Classification, u.Entities)
}

// Execute runs a routing decision through the orchestrator.
func (p *Pipeline) Execute(ctx context.Context, decision *route.Decision, exec orchestrate.StepExecutor, onProgress orchestrate.ProgressFunc) *orchestrate.Result {
	return p.orchestrator.Execute(ctx, decision, exec, onProgress)
}

// Process runs the whole pipeline for one query: understand, route, execute.
// The returned outcome carries the updated memory state for the caller to
// persist.
func (p *Pipeline) Process(ctx context.Context, query string, state memory.State, exec orchestrate.StepExecutor, onProgress orchestrate.ProgressFunc) *Outcome {
	understanding := p.Understand(query, state)
	decision := p.Route(understanding)
	execution := p.Execute(ctx, decision, exec, onProgress)

	return &Outcome{
		Understanding: understanding,
		Decision:      decision,
		Execution:     execution,
	}
}
