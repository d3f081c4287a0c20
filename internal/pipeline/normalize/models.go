// internal/pipeline/normalize/models.go
package normalize

// Filter is one structured constraint derived from the query.
type Filter struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"` // eq, contains, gt, lt, gte, lte
	Value    interface{} `json:"value"`
}

// Parameters is the structured form of a query: filters, ordering, limit
// and the output shape the caller should render.
type Parameters struct {
	Filters      []Filter `json:"filters"`
	SortBy       string   `json:"sortBy"`
	SortOrder    string   `json:"sortOrder"` // asc, desc
	Limit        int      `json:"limit"`
	OutputFormat string   `json:"outputFormat"` // list, table, detailed, summary
}

// NormalizedQuery pairs the structured parameters with a canonical
// human-readable description. The description is for display and debugging
// only; it is never re-parsed.
type NormalizedQuery struct {
	Query       string     `json:"query"`
	Intent      string     `json:"intent"`
	Parameters  Parameters `json:"parameters"`
	Description string     `json:"description"`
}
