// internal/agents/models.go
package agents

import "premiumradar-core/internal/pipeline/extract"

// DefaultAgent handles queries no capability claims.
const DefaultAgent = "demo"

// Capability describes what a single agent can do. Registry entries are
// static; runtime never mutates them.
type Capability struct {
	Agent            string               `json:"agent"`
	PrimaryIntents   []string             `json:"primaryIntents"`
	SecondaryIntents []string             `json:"secondaryIntents"`
	EntityTypes      []extract.EntityType `json:"entityTypes"`
	OutputTypes      []string             `json:"outputTypes"`
	MaxConcurrency   int                  `json:"maxConcurrency"`
	AverageLatencyMs int                  `json:"averageLatencyMs"`
	SuccessRate      float64              `json:"successRate"`
	Standalone       bool                 `json:"standalone"`
}

// Override carries the mutable subset of a capability that an external
// registry file may replace. Zero values mean "keep the built-in value".
type Override struct {
	Agent            string  `json:"agent"`
	MaxConcurrency   int     `json:"maxConcurrency,omitempty"`
	AverageLatencyMs int     `json:"averageLatencyMs,omitempty"`
	SuccessRate      float64 `json:"successRate,omitempty"`
}

// HandlesIntent reports whether the capability claims the intent at all.
func (c Capability) HandlesIntent(intentType string) bool {
	return c.HasPrimaryIntent(intentType) || c.hasSecondaryIntent(intentType)
}

// HasPrimaryIntent reports whether the intent is one of the agent's primary
// responsibilities.
func (c Capability) HasPrimaryIntent(intentType string) bool {
	for _, t := range c.PrimaryIntents {
		if t == intentType {
			return true
		}
	}
	return false
}

func (c Capability) hasSecondaryIntent(intentType string) bool {
	for _, t := range c.SecondaryIntents {
		if t == intentType {
			return true
		}
	}
	return false
}

// CoversEntityType reports whether the agent consumes the given entity type.
func (c Capability) CoversEntityType(t extract.EntityType) bool {
	for _, et := range c.EntityTypes {
		if et == t {
			return true
		}
	}
	return false
}

// EntityCoverage returns the fraction of the requested entity types this
// agent consumes. An empty request counts as full coverage.
func (c Capability) EntityCoverage(types []extract.EntityType) float64 {
	if len(types) == 0 {
		return 1.0
	}
	covered := 0
	for _, t := range types {
		if c.CoversEntityType(t) {
			covered++
		}
	}
	return float64(covered) / float64(len(types))
}
