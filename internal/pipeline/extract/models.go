// internal/pipeline/extract/models.go
package extract

// EntityType identifies the kind of span an extractor produced.
type EntityType string

const (
	TypeCompany EntityType = "company"
	TypeSector  EntityType = "sector"
	TypeRegion  EntityType = "region"
	TypeSignal  EntityType = "signal"
	TypeMetric  EntityType = "metric"
	TypeDate    EntityType = "date"
	TypeCount   EntityType = "count"
)

// Metadata carries producer-scoped keys attached to an entity. Only the
// producer that created the entity populates its fields; consumers read
// the ones they understand.
type Metadata struct {
	Source     string  `json:"source,omitempty"`     // dictionary, pattern, heuristic
	Operator   string  `json:"operator,omitempty"`   // comparison intent for metrics: gt, lt, gte, lte, eq
	Number     float64 `json:"number,omitempty"`     // bare numeric value for metrics and counts
	Field      string  `json:"field,omitempty"`      // normalized metric field, e.g. employeeCount
	Comparison string  `json:"comparison,omitempty"` // raw comparison phrase, e.g. "more than"
}

// Entity is a typed span extracted from a query. Immutable once created.
type Entity struct {
	Type            EntityType `json:"type"`
	RawValue        string     `json:"rawValue"`
	NormalizedValue string     `json:"normalizedValue"`
	Confidence      float64    `json:"confidence"`
	Span            [2]int     `json:"span"`
	Metadata        Metadata   `json:"metadata"`
}

// Metric is a normalized numeric constraint pulled from the query.
type Metric struct {
	Field    string  `json:"field"`
	Operator string  `json:"operator"`
	Value    float64 `json:"value"`
	Raw      string  `json:"raw"`
}

// Timeframe is an optional resolved date reference.
type Timeframe struct {
	Raw        string `json:"raw"`
	Normalized string `json:"normalized"`
}

// Result aggregates every entity extracted from a single query.
type Result struct {
	Entities  []Entity          `json:"entities"`
	Companies []Entity          `json:"companies"`
	Sectors   []Entity          `json:"sectors"`
	Regions   []Entity          `json:"regions"`
	Signals   []Entity          `json:"signals"`
	Metrics   map[string]Metric `json:"metrics"`
	Timeframe *Timeframe        `json:"timeframe,omitempty"`
}

// EntityTypes returns the distinct entity types present in the result,
// in a fixed order.
func (r *Result) EntityTypes() []EntityType {
	seen := map[EntityType]bool{}
	types := []EntityType{}
	for _, e := range r.Entities {
		if !seen[e.Type] {
			seen[e.Type] = true
			types = append(types, e.Type)
		}
	}
	return types
}
