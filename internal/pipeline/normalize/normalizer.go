// internal/pipeline/normalize/normalizer.go
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"premiumradar-core/internal/pipeline/extract"
	"premiumradar-core/internal/pipeline/intent"
)

const (
	defaultSortField = "overallScore"
	defaultLimit     = 10
)

// sortFieldPatterns map score-component references to sort fields. Checked
// in order; first hit wins.
var sortFieldPatterns = []struct {
	re    *regexp.Regexp
	field string
}{
	{regexp.MustCompile(`(?i)\b(quality|q score|q-score)\b`), "qualityScore"},
	{regexp.MustCompile(`(?i)\b(timing|t score|t-score)\b`), "timingScore"},
	{regexp.MustCompile(`(?i)\b(location fit|l score|l-score)\b`), "locationScore"},
	{regexp.MustCompile(`(?i)\b(engagement|e score|e-score)\b`), "engagementScore"},
	{regexp.MustCompile(`(?i)\b(best|top|highest|overall)\b`), defaultSortField},
}

var ascendingRe = regexp.MustCompile(`(?i)\b(lowest|worst|ascending|smallest)\b`)

var intentVerbs = map[string]string{
	intent.CategoryDiscovery:  "Find",
	intent.CategoryEnrichment: "Enrich",
	intent.CategoryRanking:    "Rank",
	intent.CategoryOutreach:   "Draft outreach for",
	intent.CategoryComparison: "Compare",
	intent.CategoryCompound:   "Run pipeline for",
	intent.CategoryHelp:       "Explain",
}

// Normalize converts a classification plus entity set into structured query
// parameters and a canonical description string.
func Normalize(query string, classification *intent.Classification, entities *extract.Result) *NormalizedQuery {
	params := Parameters{
		Filters:      []Filter{},
		SortBy:       defaultSortField,
		SortOrder:    "desc",
		Limit:        defaultLimit,
		OutputFormat: outputFormatFor(classification),
	}

	if entities != nil {
		for _, e := range entities.Sectors {
			params.Filters = append(params.Filters, Filter{Field: "sector", Operator: "eq", Value: e.NormalizedValue})
		}
		for _, e := range entities.Regions {
			params.Filters = append(params.Filters, Filter{Field: "region", Operator: "eq", Value: e.NormalizedValue})
		}
		for _, e := range entities.Signals {
			params.Filters = append(params.Filters, Filter{Field: "signals", Operator: "contains", Value: e.NormalizedValue})
		}
		for _, m := range sortedMetrics(entities.Metrics) {
			params.Filters = append(params.Filters, Filter{Field: m.Field, Operator: m.Operator, Value: m.Value})
		}
		for _, e := range entities.Entities {
			if e.Type == extract.TypeCount && e.Metadata.Number > 0 {
				params.Limit = int(e.Metadata.Number)
				break
			}
		}
	}

	if field, order, ok := inferSort(query); ok {
		params.SortBy = field
		params.SortOrder = order
	}

	return &NormalizedQuery{
		Query:       query,
		Intent:      intentTypeOf(classification),
		Parameters:  params,
		Description: describe(classification, params),
	}
}

// sortedMetrics iterates the metric map in stable field order.
func sortedMetrics(metrics map[string]extract.Metric) []extract.Metric {
	order := []string{"employeeCount", "branchCount", "revenue"}
	out := []extract.Metric{}
	for _, field := range order {
		if m, ok := metrics[field]; ok {
			out = append(out, m)
		}
	}
	for field, m := range metrics {
		known := false
		for _, f := range order {
			if f == field {
				known = true
				break
			}
		}
		if !known {
			out = append(out, m)
		}
	}
	return out
}

func inferSort(query string) (string, string, bool) {
	for _, sp := range sortFieldPatterns {
		if sp.re.MatchString(query) {
			order := "desc"
			if ascendingRe.MatchString(query) {
				order = "asc"
			}
			return sp.field, order, true
		}
	}
	return "", "", false
}

func outputFormatFor(classification *intent.Classification) string {
	if classification == nil {
		return "summary"
	}
	switch classification.Primary.Category {
	case intent.CategoryEnrichment:
		return "detailed"
	case intent.CategoryComparison:
		return "table"
	case intent.CategoryDiscovery:
		return "list"
	case intent.CategoryRanking:
		return "table"
	default:
		return "summary"
	}
}

func intentTypeOf(classification *intent.Classification) string {
	if classification == nil {
		return intent.TypeUnknown
	}
	return classification.Primary.Type
}

// describe assembles the canonical display string from the verb table and
// the structured parameters.
func describe(classification *intent.Classification, params Parameters) string {
	verb := "Process"
	if classification != nil {
		if v, ok := intentVerbs[classification.Primary.Category]; ok {
			verb = v
		}
	}

	var b strings.Builder
	b.WriteString(verb)
	b.WriteString(" companies")

	if len(params.Filters) > 0 {
		parts := make([]string, 0, len(params.Filters))
		for _, f := range params.Filters {
			parts = append(parts, fmt.Sprintf("%s %s %v", f.Field, operatorSymbol(f.Operator), f.Value))
		}
		b.WriteString(" where ")
		b.WriteString(strings.Join(parts, ", "))
	}

	fmt.Fprintf(&b, ", sorted by %s %s, limit %d, as %s",
		params.SortBy, params.SortOrder, params.Limit, params.OutputFormat)

	return b.String()
}

func operatorSymbol(op string) string {
	switch op {
	case "eq":
		return "="
	case "gt":
		return ">"
	case "lt":
		return "<"
	case "gte":
		return ">="
	case "lte":
		return "<="
	case "contains":
		return "contains"
	default:
		return op
	}
}
