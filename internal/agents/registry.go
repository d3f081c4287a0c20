// internal/agents/registry.go
package agents

import (
	"fmt"
	"sort"

	"premiumradar-core/internal/pipeline/extract"
)

// Registry is a read-only lookup over agent capabilities. Build it once at
// startup; all accessors are safe for concurrent use after construction.
type Registry struct {
	capabilities map[string]Capability
	order        []string
}

// NewRegistry builds a registry from the built-in capability table.
func NewRegistry() *Registry {
	r := &Registry{
		capabilities: make(map[string]Capability, len(builtinCapabilities)),
		order:        make([]string, 0, len(builtinCapabilities)),
	}
	for _, c := range builtinCapabilities {
		r.capabilities[c.Agent] = c
		r.order = append(r.order, c.Agent)
	}
	return r
}

// Capability looks up a single agent's capability.
func (r *Registry) Capability(agent string) (Capability, bool) {
	c, ok := r.capabilities[agent]
	return c, ok
}

// Agents returns all registered agent names in table order.
func (r *Registry) Agents() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// FindAgentsForIntent returns agents that handle the intent, primary
// claimants before secondary ones. Table order breaks ties within a tier.
func (r *Registry) FindAgentsForIntent(intentType string) []string {
	var primary, secondary []string
	for _, name := range r.order {
		c := r.capabilities[name]
		switch {
		case c.HasPrimaryIntent(intentType):
			primary = append(primary, name)
		case c.HandlesIntent(intentType):
			secondary = append(secondary, name)
		}
	}
	return append(primary, secondary...)
}

// FindAgentsForEntityTypes ranks agents by the fraction of the requested
// entity types they consume, highest first. Agents with zero coverage are
// excluded. Ties keep table order.
func (r *Registry) FindAgentsForEntityTypes(types []extract.EntityType) []string {
	type scored struct {
		agent    string
		coverage float64
		index    int
	}
	var ranked []scored
	for i, name := range r.order {
		cov := r.capabilities[name].EntityCoverage(types)
		if len(types) > 0 && cov == 0 {
			continue
		}
		ranked = append(ranked, scored{agent: name, coverage: cov, index: i})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].coverage != ranked[j].coverage {
			return ranked[i].coverage > ranked[j].coverage
		}
		return ranked[i].index < ranked[j].index
	})
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.agent
	}
	return out
}

// BestAgent picks the single best agent for an intent plus entity-type set.
// Preference order: an intent match that also covers at least one of the
// entity types, then the first intent match, then the best entity-coverage
// match, then the fixed default.
func (r *Registry) BestAgent(intentType string, entityTypes []extract.EntityType) string {
	intentMatches := r.FindAgentsForIntent(intentType)

	for _, name := range intentMatches {
		c := r.capabilities[name]
		for _, t := range entityTypes {
			if c.CoversEntityType(t) {
				return name
			}
		}
	}
	if len(intentMatches) > 0 {
		return intentMatches[0]
	}
	if byCoverage := r.FindAgentsForEntityTypes(entityTypes); len(byCoverage) > 0 && len(entityTypes) > 0 {
		return byCoverage[0]
	}
	return DefaultAgent
}

// CompatibleAgents returns the agents that can take over the given agent's
// failed work. Used for fallback paths and handoffs only.
func (r *Registry) CompatibleAgents(agent string) []string {
	compatible := compatibility[agent]
	out := make([]string, 0, len(compatible))
	for _, name := range compatible {
		if _, ok := r.capabilities[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// IsValidCombination rejects any agent set that mixes a standalone agent
// with others, or names an unknown agent.
func (r *Registry) IsValidCombination(agentNames []string) bool {
	for _, name := range agentNames {
		c, ok := r.capabilities[name]
		if !ok {
			return false
		}
		if c.Standalone && len(agentNames) > 1 {
			return false
		}
	}
	return true
}

// SharedIntents returns the intents two agents both claim, in the first
// agent's declaration order.
func (r *Registry) SharedIntents(fromAgent, toAgent string) []string {
	from, ok := r.capabilities[fromAgent]
	if !ok {
		return nil
	}
	to, ok := r.capabilities[toAgent]
	if !ok {
		return nil
	}
	var shared []string
	for _, t := range append(append([]string{}, from.PrimaryIntents...), from.SecondaryIntents...) {
		if to.HandlesIntent(t) {
			shared = append(shared, t)
		}
	}
	return shared
}

// ApplyOverrides replaces the tunable fields of built-in capabilities with
// values from an external registry file. Unknown agents and out-of-range
// values are hard errors; a partially applied override set is never kept.
func (r *Registry) ApplyOverrides(overrides []Override) error {
	updated := make(map[string]Capability, len(overrides))
	for _, o := range overrides {
		c, ok := r.capabilities[o.Agent]
		if !ok {
			return fmt.Errorf("override references unknown agent %q", o.Agent)
		}
		if o.SuccessRate < 0 || o.SuccessRate > 1 {
			return fmt.Errorf("override for agent %q: success rate %v outside [0,1]", o.Agent, o.SuccessRate)
		}
		if o.MaxConcurrency < 0 || o.AverageLatencyMs < 0 {
			return fmt.Errorf("override for agent %q: negative concurrency or latency", o.Agent)
		}
		if o.MaxConcurrency > 0 {
			c.MaxConcurrency = o.MaxConcurrency
		}
		if o.AverageLatencyMs > 0 {
			c.AverageLatencyMs = o.AverageLatencyMs
		}
		if o.SuccessRate > 0 {
			c.SuccessRate = o.SuccessRate
		}
		updated[o.Agent] = c
	}
	for name, c := range updated {
		r.capabilities[name] = c
	}
	return nil
}
