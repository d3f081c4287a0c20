// internal/pipeline/intent/models.go
package intent

import "regexp"

// Categories group intent types by the shape of their answer.
const (
	CategoryDiscovery  = "discovery"
	CategoryEnrichment = "enrichment"
	CategoryRanking    = "ranking"
	CategoryOutreach   = "outreach"
	CategoryComparison = "comparison"
	CategoryCompound   = "compound"
	CategoryHelp       = "help"
)

// TypeUnknown is the zero-confidence fallback when nothing matches.
const TypeUnknown = "unknown"

// Definition is a static registry entry scored against every query.
// Loaded once at process start; read-only.
type Definition struct {
	Type     string
	Category string
	Keywords []string
	Patterns []*regexp.Regexp
	Agents   []string
	Priority int
	Examples []string

	// Compiled word-boundary matchers for Keywords, built at init.
	keywordRes []*regexp.Regexp
}

// Classified is one definition's match against a query.
type Classified struct {
	Type            string   `json:"type"`
	Category        string   `json:"category"`
	Confidence      float64  `json:"confidence"`
	Agents          []string `json:"agents"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MatchedPatterns []string `json:"matchedPatterns"`
}

// Classification is the ranked result for one query.
type Classification struct {
	Primary        Classified   `json:"primary"`
	Secondary      []Classified `json:"secondary"`
	IsCompound     bool         `json:"isCompound"`
	AllIntents     []Classified `json:"allIntents"`
	RawQuery       string       `json:"rawQuery"`
	ProcessedQuery string       `json:"processedQuery"`
}
