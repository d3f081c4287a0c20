// internal/pipeline/normalize/normalizer_test.go
package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premiumradar-core/internal/pipeline/extract"
	"premiumradar-core/internal/pipeline/intent"
)

func classify(query string) *intent.Classification {
	return intent.Classify(query)
}

func TestNormalize_SectorRegionFilters(t *testing.T) {
	query := "find banks in Dubai"
	result := Normalize(query, classify(query), extract.Extract(query))

	require.NotNil(t, result)
	assert.Equal(t, "discovery.search", result.Intent)
	assert.Contains(t, result.Parameters.Filters, Filter{Field: "sector", Operator: "eq", Value: "banking"})
	assert.Contains(t, result.Parameters.Filters, Filter{Field: "region", Operator: "eq", Value: "Dubai"})
	assert.Equal(t, "list", result.Parameters.OutputFormat)
}

func TestNormalize_MetricRangeFilter(t *testing.T) {
	query := "companies with more than 500 employees"
	result := Normalize(query, classify(query), extract.Extract(query))

	found := false
	for _, f := range result.Parameters.Filters {
		if f.Field == "employeeCount" {
			found = true
			assert.Equal(t, "gt", f.Operator)
			assert.Equal(t, float64(500), f.Value)
		}
	}
	assert.True(t, found, "expected employeeCount filter")
}

func TestNormalize_SignalFilter(t *testing.T) {
	query := "find companies that are hiring in UAE"
	result := Normalize(query, classify(query), extract.Extract(query))

	assert.Contains(t, result.Parameters.Filters, Filter{Field: "signals", Operator: "contains", Value: "hiring-expansion"})
}

func TestNormalize_LimitFromCount(t *testing.T) {
	query := "show me top 5 banks"
	result := Normalize(query, classify(query), extract.Extract(query))

	assert.Equal(t, 5, result.Parameters.Limit)
	assert.Equal(t, "overallScore", result.Parameters.SortBy)
	assert.Equal(t, "desc", result.Parameters.SortOrder)
}

func TestNormalize_SortInference(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantField string
		wantOrder string
	}{
		{"quality component", "rank companies by quality", "qualityScore", "desc"},
		{"timing component", "sort by timing score", "timingScore", "desc"},
		{"engagement component", "rank by engagement", "engagementScore", "desc"},
		{"overall from best", "best companies in UAE", "overallScore", "desc"},
		{"ascending", "companies with the lowest quality", "qualityScore", "asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.query, classify(tt.query), extract.Extract(tt.query))
			assert.Equal(t, tt.wantField, result.Parameters.SortBy)
			assert.Equal(t, tt.wantOrder, result.Parameters.SortOrder)
		})
	}
}

func TestNormalize_OutputFormatByCategory(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"find banks in UAE", "list"},
		{"tell me about Emirates NBD", "detailed"},
		{"rank the companies", "table"},
		{"compare Emirates NBD and ADCB", "table"},
		{"draft an email for FAB", "summary"},
	}

	for _, tt := range tests {
		result := Normalize(tt.query, classify(tt.query), extract.Extract(tt.query))
		assert.Equal(t, tt.want, result.Parameters.OutputFormat, "query: %s", tt.query)
	}
}

func TestNormalize_Description(t *testing.T) {
	query := "find banks in UAE"
	result := Normalize(query, classify(query), extract.Extract(query))

	assert.Contains(t, result.Description, "Find companies")
	assert.Contains(t, result.Description, "sector = banking")
	assert.Contains(t, result.Description, "region = UAE")
	assert.Contains(t, result.Description, "sorted by overallScore desc")
}

func TestNormalize_NilInputs(t *testing.T) {
	result := Normalize("gibberish", nil, nil)

	require.NotNil(t, result)
	assert.Equal(t, intent.TypeUnknown, result.Intent)
	assert.Empty(t, result.Parameters.Filters)
	assert.Equal(t, 10, result.Parameters.Limit)
	assert.Equal(t, "summary", result.Parameters.OutputFormat)
}

func TestNormalize_DefaultsApplied(t *testing.T) {
	query := "find fintech companies"
	result := Normalize(query, classify(query), extract.Extract(query))

	assert.Equal(t, 10, result.Parameters.Limit)
	assert.Equal(t, "overallScore", result.Parameters.SortBy)
	assert.Equal(t, "desc", result.Parameters.SortOrder)
}
