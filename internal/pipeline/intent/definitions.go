// internal/pipeline/intent/definitions.go
package intent

import "regexp"

// definitions is the static intent registry. Ordering carries no meaning;
// ranking is driven entirely by score and priority.
var definitions = buildDefinitions([]Definition{
	{
		Type:     "discovery.search",
		Category: CategoryDiscovery,
		Keywords: []string{"find", "search", "discover", "show", "list", "companies", "banks", "prospects", "leads"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(find|show|list)\b.*\bin\b`),
			regexp.MustCompile(`(?i)\bcompanies\b.*\b(in|with)\b`),
		},
		Agents:   []string{"discovery"},
		Priority: 10,
		Examples: []string{"find banks in UAE", "show fintech companies hiring in Dubai"},
	},
	{
		Type:     "enrichment.company",
		Category: CategoryEnrichment,
		Keywords: []string{"enrich", "details", "profile", "about", "information", "headcount", "who is"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\btell me (more )?about\b`),
			regexp.MustCompile(`(?i)\b(details|profile) (of|for|on)\b`),
		},
		Agents:   []string{"enrichment"},
		Priority: 8,
		Examples: []string{"tell me about Emirates NBD", "details for Careem"},
	},
	{
		Type:     "ranking.score",
		Category: CategoryRanking,
		Keywords: []string{"score", "rank", "rate", "prioritize", "best", "top", "highest"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(score|rank|rate)\b`),
			regexp.MustCompile(`(?i)\b(best|top|highest)\b.*\b(companies|leads|prospects)\b`),
		},
		Agents:   []string{"ranking"},
		Priority: 9,
		Examples: []string{"score them", "rank these companies"},
	},
	{
		Type:     "outreach.draft",
		Category: CategoryOutreach,
		Keywords: []string{"draft", "email", "emails", "message", "outreach", "write", "compose", "reach out"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(draft|write|compose)\b.*\b(email|message|outreach)\b`),
		},
		Agents:   []string{"outreach"},
		Priority: 9,
		Examples: []string{"draft an email to FAB", "write outreach for the top prospects"},
	},
	{
		Type:     "comparison.compare",
		Category: CategoryComparison,
		Keywords: []string{"compare", "versus", "vs", "difference", "against"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bcompare\b`),
			regexp.MustCompile(`(?i)\b(versus|vs\.?)\b`),
		},
		Agents:   []string{"ranking"},
		Priority: 7,
		Examples: []string{"compare Emirates NBD and ADCB"},
	},
	{
		Type:     "compound.search_and_rank",
		Category: CategoryCompound,
		Keywords: []string{"find", "search", "rank", "score", "best"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(find|search|discover)\b.*\b(rank|score|prioritize)\b`),
		},
		Agents:   []string{"discovery", "ranking"},
		Priority: 12,
		Examples: []string{"find fintech companies and rank them"},
	},
	{
		Type:     "compound.full_pipeline",
		Category: CategoryCompound,
		Keywords: []string{"find", "rank", "score", "draft", "email", "outreach"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(find|search|discover)\b.*\b(rank|score)\b.*\b(draft|email|message|outreach)\b`),
		},
		Agents:   []string{"discovery", "ranking", "outreach"},
		Priority: 15,
		Examples: []string{"find banks in UAE, rank them, and draft emails for top 3"},
	},
	{
		Type:     "help.demo",
		Category: CategoryHelp,
		Keywords: []string{"help", "how do", "what can", "explain", "demo"},
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bwhat can you do\b`),
		},
		Agents:   []string{"demo"},
		Priority: 5,
		Examples: []string{"what can you do?"},
	},
})

// buildDefinitions precompiles word-boundary matchers for every keyword.
func buildDefinitions(defs []Definition) []Definition {
	for i := range defs {
		defs[i].keywordRes = make([]*regexp.Regexp, len(defs[i].Keywords))
		for j, kw := range defs[i].Keywords {
			defs[i].keywordRes[j] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return defs
}

// Definitions returns the static intent registry.
func Definitions() []Definition {
	return definitions
}
