// internal/agents/capabilities.go
package agents

import "premiumradar-core/internal/pipeline/extract"

// builtinCapabilities is the static capability table. Latency and success
// figures come from observed per-agent medians and feed routing estimates
// only; they are not enforced limits.
var builtinCapabilities = []Capability{
	{
		Agent:          "discovery",
		PrimaryIntents: []string{"discovery.search", "compound.search_and_rank", "compound.full_pipeline"},
		SecondaryIntents: []string{
			"enrichment.company",
		},
		EntityTypes: []extract.EntityType{
			extract.TypeSector, extract.TypeRegion, extract.TypeSignal,
			extract.TypeMetric, extract.TypeCount,
		},
		OutputTypes:      []string{"companyList"},
		MaxConcurrency:   3,
		AverageLatencyMs: 2500,
		SuccessRate:      0.95,
	},
	{
		Agent:            "enrichment",
		PrimaryIntents:   []string{"enrichment.company"},
		SecondaryIntents: []string{"discovery.search"},
		EntityTypes:      []extract.EntityType{extract.TypeCompany},
		OutputTypes:      []string{"companyProfile"},
		MaxConcurrency:   5,
		AverageLatencyMs: 1800,
		SuccessRate:      0.92,
	},
	{
		Agent:          "ranking",
		PrimaryIntents: []string{"ranking.score", "comparison.compare"},
		SecondaryIntents: []string{
			"compound.search_and_rank", "compound.full_pipeline",
		},
		EntityTypes: []extract.EntityType{
			extract.TypeCompany, extract.TypeMetric, extract.TypeCount,
		},
		OutputTypes:      []string{"rankedList", "comparison"},
		MaxConcurrency:   4,
		AverageLatencyMs: 1200,
		SuccessRate:      0.97,
	},
	{
		Agent:            "outreach",
		PrimaryIntents:   []string{"outreach.draft"},
		SecondaryIntents: []string{"compound.full_pipeline"},
		EntityTypes:      []extract.EntityType{extract.TypeCompany, extract.TypeCount},
		OutputTypes:      []string{"messageDraft"},
		MaxConcurrency:   2,
		AverageLatencyMs: 2000,
		SuccessRate:      0.90,
	},
	{
		Agent:            "demo",
		PrimaryIntents:   []string{"help.demo", "unknown"},
		SecondaryIntents: []string{},
		EntityTypes:      []extract.EntityType{},
		OutputTypes:      []string{"helpText"},
		MaxConcurrency:   1,
		AverageLatencyMs: 300,
		SuccessRate:      0.99,
		Standalone:       true,
	},
}

// compatibility lists, per agent, which agents can absorb its failed work.
// Consulted only for fallback paths and handoffs.
var compatibility = map[string][]string{
	"discovery":  {"enrichment"},
	"enrichment": {"discovery"},
	"ranking":    {"enrichment"},
	"outreach":   {"ranking"},
	"demo":       {},
}
