// internal/pipeline/memory/models.go
package memory

import (
	"time"

	"premiumradar-core/internal/pipeline/extract"
	"premiumradar-core/internal/pipeline/intent"
)

const (
	// DefaultMaxEntries bounds the conversation ring buffer.
	DefaultMaxEntries = 10

	maxRecentPerType   = 10
	maxCurrentEntities = 50
	maxPluralResolved  = 5
)

// Resolutions records what a resolution pass substituted, for auditability.
type Resolutions struct {
	Pronouns   map[string][]string `json:"pronouns"`
	References map[string]string   `json:"references"`
}

// Entry is one conversation turn.
type Entry struct {
	ID        string           `json:"id"`
	Query     string           `json:"query"`
	Intent    string           `json:"intent"`
	Entities  []extract.Entity `json:"entities"`
	Timestamp time.Time        `json:"timestamp"`
	Resolved  Resolutions      `json:"resolved"`
	Response  string           `json:"response,omitempty"`
}

// State is the bounded per-session conversation memory. It is plain data:
// Add and Resolve return new values and the host persists the latest one
// between calls. A State is owned by a single conversational session.
type State struct {
	Entries         []Entry          `json:"entries"`
	MaxEntries      int              `json:"maxEntries"`
	RecentCompanies []string         `json:"recentCompanies"`
	RecentSectors   []string         `json:"recentSectors"`
	RecentRegions   []string         `json:"recentRegions"`
	CurrentEntities []extract.Entity `json:"currentEntities"`
}

// Resolution is the outcome of resolving one query against memory.
type Resolution struct {
	ResolvedQuery string      `json:"resolvedQuery"`
	Resolutions   Resolutions `json:"resolutions"`
	Changed       bool        `json:"changed"`
}

// NewState returns an empty memory bounded to maxEntries turns.
func NewState(maxEntries int) State {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return State{
		Entries:         []Entry{},
		MaxEntries:      maxEntries,
		RecentCompanies: []string{},
		RecentSectors:   []string{},
		RecentRegions:   []string{},
		CurrentEntities: []extract.Entity{},
	}
}

// intentType tolerates a nil classification from degraded callers.
func intentType(c *intent.Classification) string {
	if c == nil {
		return intent.TypeUnknown
	}
	return c.Primary.Type
}
