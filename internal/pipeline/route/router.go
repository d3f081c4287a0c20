// internal/pipeline/route/router.go
package route

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"premiumradar-core/internal/agents"
	"premiumradar-core/internal/common/config"
	"premiumradar-core/internal/common/logger"
	"premiumradar-core/internal/common/metrics"
	"premiumradar-core/internal/pipeline/extract"
	"premiumradar-core/internal/pipeline/intent"
)

// agentRank fixes the execution order of supporting agents so that routing
// is deterministic for identical inputs.
var agentRank = map[string]int{
	"discovery":  0,
	"enrichment": 1,
	"ranking":    2,
	"outreach":   3,
	"demo":       4,
}

// dependencyRules lists agent pairs where the first must finish before the
// second may start. Any firing rule forces sequential execution.
var dependencyRules = [][2]string{
	{"discovery", "ranking"},
	{"ranking", "outreach"},
	{"enrichment", "ranking"},
}

// agentActions maps each agent to the action name carried on its step.
var agentActions = map[string]string{
	"discovery":  "searchCompanies",
	"enrichment": "enrichCompany",
	"ranking":    "scoreCompanies",
	"outreach":   "draftOutreach",
	"demo":       "explainCapabilities",
}

// Router turns classified queries into orchestration plans.
type Router struct {
	registry *agents.Registry
	cfg      config.RouterConfig
	logger   logger.Logger
}

// NewRouter wires a router against a capability registry.
func NewRouter(registry *agents.Registry, cfg config.RouterConfig, log logger.Logger) *Router {
	return &Router{
		registry: registry,
		cfg:      cfg,
		logger:   log,
	}
}

// Route selects agents, decides an execution mode, and builds the plan plus
// fallback path for one classified query. It never fails; degenerate input
// produces a single-step plan on the default agent.
func (r *Router) Route(query string, classification *intent.Classification, entities *extract.Result) *Decision {
	entityTypes := entityTypesOf(entities)
	primaryIntent := primaryOf(classification)

	primaryAgent := r.registry.BestAgent(primaryIntent.Type, entityTypes)
	supporting := r.selectSupportingAgents(primaryAgent, classification)
	mode, supporting := r.decideMode(primaryAgent, supporting, classification, entities)

	ordered := orderedAgents(primaryAgent, supporting)
	plan := r.buildPlan(query, primaryIntent.Type, mode, ordered)
	confidence := r.scoreConfidence(primaryIntent, primaryAgent, entityTypes)

	decision := &Decision{
		ID:               uuid.NewString(),
		Query:            query,
		Mode:             mode,
		PrimaryAgent:     primaryAgent,
		SupportingAgents: supporting,
		Plan:             plan,
		Confidence:       confidence,
		Reasoning:        reasoning(primaryAgent, primaryIntent.Type, mode, supporting, confidence),
	}

	if r.cfg.EnableFallbacks {
		decision.FallbackPath = r.buildFallback(query, primaryIntent.Type, primaryAgent, confidence)
	}

	metrics.RoutingDecisions.WithLabelValues(mode, primaryAgent).Inc()
	r.logger.Info("routing decision", map[string]interface{}{
		"decision_id":   decision.ID,
		"mode":          mode,
		"primary_agent": primaryAgent,
		"supporting":    supporting,
		"confidence":    confidence,
		"total_steps":   plan.TotalSteps,
	})

	return decision
}

// selectSupportingAgents collects candidate supporting agents from the
// primary intent's own agent list, then from the best claimant of each
// secondary intent, deduplicated and capped at parallelismLimit-1.
func (r *Router) selectSupportingAgents(primaryAgent string, classification *intent.Classification) []string {
	if classification == nil {
		return nil
	}

	var supporting []string
	seen := map[string]bool{primaryAgent: true}

	add := func(agent string) {
		if agent == "" || seen[agent] {
			return
		}
		seen[agent] = true
		supporting = append(supporting, agent)
	}

	for _, agent := range classification.Primary.Agents {
		add(agent)
	}
	for _, sec := range classification.Secondary {
		if claimants := r.registry.FindAgentsForIntent(sec.Type); len(claimants) > 0 {
			add(claimants[0])
		}
	}

	limit := r.cfg.ParallelismLimit - 1
	if limit < 0 {
		limit = 0
	}
	if len(supporting) > limit {
		supporting = supporting[:limit]
	}
	return supporting
}

// decideMode applies the mode rules: single for simple queries, sequential
// when a dependency rule fires, hybrid for wider fan-out, parallel for one
// independent supporting agent. An invalid agent combination degrades to
// single with no supporting agents, never an error.
func (r *Router) decideMode(primaryAgent string, supporting []string, classification *intent.Classification, entities *extract.Result) (string, []string) {
	entityCount := 0
	if entities != nil {
		entityCount = len(entities.Entities)
	}
	hasSecondary := classification != nil && len(classification.Secondary) > 0

	if !hasSecondary && entityCount <= 2 {
		return ModeSingle, nil
	}
	if len(supporting) == 0 {
		return ModeSingle, nil
	}

	combined := append([]string{primaryAgent}, supporting...)
	if !r.registry.IsValidCombination(combined) {
		r.logger.Warn("invalid agent combination, degrading to single mode", map[string]interface{}{
			"agents": combined,
		})
		return ModeSingle, nil
	}

	if rulesFire(combined) {
		return ModeSequential, supporting
	}
	if len(supporting) >= 2 {
		return ModeHybrid, supporting
	}
	return ModeParallel, supporting
}

func rulesFire(agentSet []string) bool {
	present := make(map[string]bool, len(agentSet))
	for _, a := range agentSet {
		present[a] = true
	}
	for _, rule := range dependencyRules {
		if present[rule[0]] && present[rule[1]] {
			return true
		}
	}
	return false
}

// orderedAgents returns primary first, then supporting agents in fixed rank
// order.
func orderedAgents(primaryAgent string, supporting []string) []string {
	rest := make([]string, len(supporting))
	copy(rest, supporting)
	sort.SliceStable(rest, func(i, j int) bool {
		return agentRank[rest[i]] < agentRank[rest[j]]
	})
	return append([]string{primaryAgent}, rest...)
}

// buildPlan lays out one step per agent. Sequential mode chains each step to
// its predecessor; every other mode leaves dependencies empty. Parallel
// groups are the topological levels of the resulting graph.
func (r *Router) buildPlan(query, intentType, mode string, ordered []string) *Plan {
	steps := make([]Step, 0, len(ordered))
	for i, agent := range ordered {
		step := Step{
			ID:         fmt.Sprintf("step-%d-%s", i+1, agent),
			StepNumber: i + 1,
			Agent:      agent,
			Action:     agentActions[agent],
			Inputs: map[string]interface{}{
				"query":  query,
				"intent": intentType,
			},
			ExpectedOutput: r.expectedOutput(agent),
			Dependencies:   []string{},
			TimeoutMs:      r.cfg.DefaultTimeout,
			RetryCount:     r.cfg.MaxRetries,
			Status:         StatusPending,
		}
		if mode == ModeSequential && i > 0 {
			step.Dependencies = []string{steps[i-1].ID}
		}
		steps = append(steps, step)
	}

	groups := groupSteps(mode, steps)
	return &Plan{
		ID:                  uuid.NewString(),
		Steps:               steps,
		TotalSteps:          len(steps),
		EstimatedDurationMs: r.estimateDuration(mode, ordered),
		ParallelGroups:      groups,
		CriticalPath:        r.criticalPath(steps, groups),
	}
}

// groupSteps partitions step IDs into ordered execution batches. Sequential
// plans get one singleton group per step. Hybrid plans run the primary step
// first and fan the supporting steps out together. Everything else is one
// concurrent batch.
func groupSteps(mode string, steps []Step) [][]string {
	switch mode {
	case ModeSequential:
		groups := make([][]string, len(steps))
		for i, s := range steps {
			groups[i] = []string{s.ID}
		}
		return groups
	case ModeHybrid:
		groups := [][]string{{steps[0].ID}}
		if len(steps) > 1 {
			rest := make([]string, 0, len(steps)-1)
			for _, s := range steps[1:] {
				rest = append(rest, s.ID)
			}
			groups = append(groups, rest)
		}
		return groups
	default:
		group := make([]string, len(steps))
		for i, s := range steps {
			group[i] = s.ID
		}
		return [][]string{group}
	}
}

// criticalPath picks, per execution stage, the step with the highest agent
// latency. The result is the chain that bounds plan wall-clock time.
func (r *Router) criticalPath(steps []Step, groups [][]string) []string {
	byID := make(map[string]Step, len(steps))
	for _, s := range steps {
		byID[s.ID] = s
	}

	var path []string
	for _, group := range groups {
		slowest, slowestLatency := "", -1
		for _, id := range group {
			latency := 0
			if c, ok := r.registry.Capability(byID[id].Agent); ok {
				latency = c.AverageLatencyMs
			}
			if latency > slowestLatency {
				slowest, slowestLatency = id, latency
			}
		}
		if slowest != "" {
			path = append(path, slowest)
		}
	}
	return path
}

func (r *Router) estimateDuration(mode string, agentNames []string) int {
	total, longest := 0, 0
	for _, name := range agentNames {
		latency := 0
		if c, ok := r.registry.Capability(name); ok {
			latency = c.AverageLatencyMs
		}
		total += latency
		if latency > longest {
			longest = latency
		}
	}
	if mode == ModeParallel || mode == ModeHybrid {
		return longest
	}
	return total
}

func (r *Router) expectedOutput(agent string) string {
	if c, ok := r.registry.Capability(agent); ok && len(c.OutputTypes) > 0 {
		return c.OutputTypes[0]
	}
	return "result"
}

// scoreConfidence starts from the classification confidence, boosts agents
// whose capability lists the intent as primary, then blends in entity-type
// coverage (70/30) and the agent's historical success rate (80/20).
func (r *Router) scoreConfidence(primaryIntent intent.Classified, primaryAgent string, entityTypes []extract.EntityType) float64 {
	c := primaryIntent.Confidence

	capability, ok := r.registry.Capability(primaryAgent)
	if !ok {
		return clamp01(c)
	}
	if capability.HasPrimaryIntent(primaryIntent.Type) {
		c *= 1.1
		if c > 1 {
			c = 1
		}
	}
	c = 0.7*c + 0.3*capability.EntityCoverage(entityTypes)
	c = 0.8*c + 0.2*capability.SuccessRate
	return clamp01(c)
}

func reasoning(primaryAgent, intentType, mode string, supporting []string, confidence float64) string {
	tier := "low"
	switch {
	case confidence >= 0.8:
		tier = "high"
	case confidence >= 0.6:
		tier = "moderate"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Selected %s as primary agent for %s intent", primaryAgent, intentType)
	if len(supporting) > 0 {
		fmt.Fprintf(&b, " with %d supporting agent(s): %s", len(supporting), strings.Join(supporting, ", "))
	}
	fmt.Fprintf(&b, ". Execution mode: %s. Confidence: %s (%.2f).", mode, tier, confidence)
	return b.String()
}

// buildFallback points at the first compatible agent of the primary. Absence
// of a compatible agent is a reported absence, not an error. A decision below
// the confidence threshold is already suspect, so its fallback is armed for
// low confidence rather than runtime errors.
func (r *Router) buildFallback(query, intentType, primaryAgent string, confidence float64) *FallbackPath {
	compatible := r.registry.CompatibleAgents(primaryAgent)
	if len(compatible) == 0 {
		return nil
	}
	alternative := compatible[0]

	trigger := TriggerError
	if confidence < r.cfg.ConfidenceThreshold {
		trigger = TriggerLowConfidence
	}

	step := Step{
		ID:         fmt.Sprintf("fallback-1-%s", alternative),
		StepNumber: 1,
		Agent:      alternative,
		Action:     agentActions[alternative],
		Inputs: map[string]interface{}{
			"query":  query,
			"intent": intentType,
		},
		ExpectedOutput: r.expectedOutput(alternative),
		Dependencies:   []string{},
		TimeoutMs:      r.cfg.DefaultTimeout,
		RetryCount:     r.cfg.MaxRetries,
		Status:         StatusPending,
	}

	metrics.FallbacksBuilt.Inc()
	return &FallbackPath{
		Trigger:     trigger,
		Alternative: alternative,
		Steps:       []Step{step},
		Priority:    1,
	}
}

func entityTypesOf(entities *extract.Result) []extract.EntityType {
	if entities == nil {
		return nil
	}
	return entities.EntityTypes()
}

func primaryOf(classification *intent.Classification) intent.Classified {
	if classification == nil {
		return intent.Classified{
			Type:     intent.TypeUnknown,
			Category: intent.CategoryHelp,
			Agents:   []string{agents.DefaultAgent},
		}
	}
	return classification.Primary
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
