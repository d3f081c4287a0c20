// internal/pipeline/extract/extractor.go
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Extract runs every sub-extractor over the query and aggregates the typed
// results. It is a pure function over the dictionary constants: no state is
// retained between calls and the input is never mutated.
func Extract(query string) *Result {
	lower := strings.ToLower(query)

	result := &Result{
		Entities:  []Entity{},
		Companies: []Entity{},
		Sectors:   []Entity{},
		Regions:   []Entity{},
		Signals:   []Entity{},
		Metrics:   map[string]Metric{},
	}

	companies := dictionaryMatches(lower, companyDictionary, TypeCompany, confDictionaryCompany)
	companies = append(companies, heuristicCompanies(query, companies)...)
	sectors := dictionaryMatches(lower, sectorDictionary, TypeSector, confDictionary)
	regions := dictionaryMatches(lower, regionDictionary, TypeRegion, confDictionary)
	signals := dictionaryMatches(lower, signalDictionary, TypeSignal, confPattern)

	// A region or sector alias found inside a matched company span is an
	// artifact of the company name, not a standalone mention.
	sectors = dropContained(sectors, companies)
	regions = dropContained(regions, companies)

	result.Companies = dedupe(companies)
	result.Sectors = dedupe(sectors)
	result.Regions = dedupe(regions)
	result.Signals = dedupe(signals)

	metrics := extractMetrics(lower)
	counts := extractCounts(lower)
	dates := extractDates(lower)

	for _, e := range result.Companies {
		result.Entities = append(result.Entities, e)
	}
	for _, e := range result.Sectors {
		result.Entities = append(result.Entities, e)
	}
	for _, e := range result.Regions {
		result.Entities = append(result.Entities, e)
	}
	for _, e := range result.Signals {
		result.Entities = append(result.Entities, e)
	}
	for _, e := range metrics {
		result.Entities = append(result.Entities, e)
		result.Metrics[e.Metadata.Field] = Metric{
			Field:    e.Metadata.Field,
			Operator: e.Metadata.Operator,
			Value:    e.Metadata.Number,
			Raw:      e.RawValue,
		}
	}
	for _, e := range counts {
		result.Entities = append(result.Entities, e)
	}
	for _, e := range dates {
		result.Entities = append(result.Entities, e)
		if result.Timeframe == nil {
			result.Timeframe = &Timeframe{Raw: e.RawValue, Normalized: e.NormalizedValue}
		}
	}

	return result
}

// dictionaryMatches scans the lowercased query for every alias in the table,
// honoring word boundaries so "du" never matches inside "dubai".
func dictionaryMatches(lower string, dict map[string]string, t EntityType, conf float64) []Entity {
	// Deterministic alias order: longest first, then lexicographic, so
	// multiword aliases win their substrings.
	aliases := make([]string, 0, len(dict))
	for alias := range dict {
		aliases = append(aliases, alias)
	}
	sort.Slice(aliases, func(i, j int) bool {
		if len(aliases[i]) != len(aliases[j]) {
			return len(aliases[i]) > len(aliases[j])
		}
		return aliases[i] < aliases[j]
	})

	var out []Entity
	for _, alias := range aliases {
		from := 0
		for {
			idx := strings.Index(lower[from:], alias)
			if idx < 0 {
				break
			}
			start := from + idx
			end := start + len(alias)
			if wordBounded(lower, start, end) {
				out = append(out, Entity{
					Type:            t,
					RawValue:        alias,
					NormalizedValue: dict[alias],
					Confidence:      conf,
					Span:            [2]int{start, end},
					Metadata:        Metadata{Source: "dictionary"},
				})
			}
			from = end
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Span[0] < out[j].Span[0] })
	return out
}

func wordBounded(s string, start, end int) bool {
	if start > 0 && isWordChar(s[start-1]) {
		return false
	}
	if end < len(s) && isWordChar(s[end]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

var capitalizedRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)

// heuristicCompanies guesses company names from capitalized word runs that no
// dictionary recognized. These are accepted at low confidence rather than
// rejected; downstream consumers filter by threshold.
func heuristicCompanies(query string, known []Entity) []Entity {
	var out []Entity
	for _, loc := range capitalizedRe.FindAllStringIndex(query, -1) {
		start, end := loc[0], loc[1]
		raw := query[start:end]
		if start == 0 {
			// Sentence-leading capitalization carries no signal.
			continue
		}
		if heuristicStopwords[strings.ToLower(raw)] {
			continue
		}
		if overlapsAny(start, end, known) {
			continue
		}
		if inAnyDictionary(strings.ToLower(raw)) {
			continue
		}
		out = append(out, Entity{
			Type:            TypeCompany,
			RawValue:        raw,
			NormalizedValue: raw,
			Confidence:      confHeuristic,
			Span:            [2]int{start, end},
			Metadata:        Metadata{Source: "heuristic"},
		})
	}
	return out
}

func inAnyDictionary(lowered string) bool {
	if _, ok := companyDictionary[lowered]; ok {
		return true
	}
	if _, ok := sectorDictionary[lowered]; ok {
		return true
	}
	if _, ok := regionDictionary[lowered]; ok {
		return true
	}
	_, ok := signalDictionary[lowered]
	return ok
}

func overlapsAny(start, end int, entities []Entity) bool {
	for _, e := range entities {
		if start < e.Span[1] && end > e.Span[0] {
			return true
		}
	}
	return false
}

// dropContained removes matches whose span lies inside a higher-priority span.
func dropContained(candidates, winners []Entity) []Entity {
	out := candidates[:0:0]
	for _, c := range candidates {
		contained := false
		for _, w := range winners {
			if c.Span[0] >= w.Span[0] && c.Span[1] <= w.Span[1] {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, c)
		}
	}
	return out
}

// dedupe drops repeated mentions of the same normalized value within one
// type, keeping the first (earliest, highest-priority) occurrence. Duplicates
// across different types are never dropped.
func dedupe(entities []Entity) []Entity {
	seen := map[string]bool{}
	out := []Entity{}
	for _, e := range entities {
		key := strings.ToLower(e.NormalizedValue)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}

var metricRe = regexp.MustCompile(
	`(more than|over|above|greater than|less than|under|below|fewer than|at least|minimum of|minimum|at most|maximum of|maximum|exactly|equal to)?\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*(employees|staff|people|headcount|workers|branches|aed|dirhams|million aed)`)

// metricFields maps the unit token to the normalized filter field.
var metricFields = map[string]string{
	"employees":   "employeeCount",
	"staff":       "employeeCount",
	"people":      "employeeCount",
	"headcount":   "employeeCount",
	"workers":     "employeeCount",
	"branches":    "branchCount",
	"aed":         "revenue",
	"dirhams":     "revenue",
	"million aed": "revenue",
}

// extractMetrics captures both the comparison phrase and the bare numeric
// value; the operator intent and the number survive as metadata for the
// normalizer.
func extractMetrics(lower string) []Entity {
	var out []Entity
	for _, m := range metricRe.FindAllStringSubmatchIndex(lower, -1) {
		raw := lower[m[0]:m[1]]
		comparison := ""
		if m[2] >= 0 {
			comparison = lower[m[2]:m[3]]
		}
		numStr := strings.ReplaceAll(lower[m[4]:m[5]], ",", "")
		num, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			continue
		}
		unit := lower[m[6]:m[7]]
		if unit == "million aed" {
			num *= 1_000_000
		}
		out = append(out, Entity{
			Type:            TypeMetric,
			RawValue:        strings.TrimSpace(raw),
			NormalizedValue: numStr,
			Confidence:      confPattern,
			Span:            [2]int{m[0], m[1]},
			Metadata: Metadata{
				Source:     "pattern",
				Operator:   operatorFromComparison(comparison),
				Number:     num,
				Field:      metricFields[unit],
				Comparison: comparison,
			},
		})
	}
	return out
}

func operatorFromComparison(comparison string) string {
	switch comparison {
	case "more than", "over", "above", "greater than":
		return "gt"
	case "less than", "under", "below", "fewer than":
		return "lt"
	case "at least", "minimum", "minimum of":
		return "gte"
	case "at most", "maximum", "maximum of":
		return "lte"
	case "exactly", "equal to":
		return "eq"
	default:
		// A bare numeric mention reads as "at least N".
		return "gte"
	}
}

var countRe = regexp.MustCompile(`\b(?:top|first|best)\s+([0-9]+)\b|\b([0-9]+)\s+(?:companies|leads|results|prospects)\b`)

func extractCounts(lower string) []Entity {
	var out []Entity
	for _, m := range countRe.FindAllStringSubmatchIndex(lower, -1) {
		numIdx := 2
		if m[2] < 0 {
			numIdx = 4
		}
		numStr := lower[m[numIdx] : m[numIdx+1]]
		num, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			continue
		}
		out = append(out, Entity{
			Type:            TypeCount,
			RawValue:        lower[m[0]:m[1]],
			NormalizedValue: numStr,
			Confidence:      confPattern,
			Span:            [2]int{m[0], m[1]},
			Metadata:        Metadata{Source: "pattern", Number: num},
		})
	}
	return out
}

var dateRe = regexp.MustCompile(`\b(last quarter|this quarter|last month|this month|last year|this year|last [0-9]+ days|q[1-4] [0-9]{4}|recently)\b`)

func extractDates(lower string) []Entity {
	var out []Entity
	for _, m := range dateRe.FindAllStringIndex(lower, -1) {
		raw := lower[m[0]:m[1]]
		out = append(out, Entity{
			Type:            TypeDate,
			RawValue:        raw,
			NormalizedValue: normalizeTimeframe(raw),
			Confidence:      confDate,
			Span:            [2]int{m[0], m[1]},
			Metadata:        Metadata{Source: "pattern"},
		})
	}
	return out
}

func normalizeTimeframe(raw string) string {
	switch raw {
	case "recently":
		return "last 90 days"
	default:
		return raw
	}
}
