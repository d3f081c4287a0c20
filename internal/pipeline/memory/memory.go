// internal/pipeline/memory/memory.go
package memory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"premiumradar-core/internal/pipeline/extract"
	"premiumradar-core/internal/pipeline/intent"
)

// Add appends one conversation turn and returns the new state. The buffer is
// FIFO-evicted at MaxEntries and the recent typed lists stay de-duplicated,
// newest first, so the most recent mention of a term wins tie-breaks.
func Add(state State, query string, classification *intent.Classification, entities *extract.Result, resolved Resolutions) State {
	next := state
	if next.MaxEntries <= 0 {
		next.MaxEntries = DefaultMaxEntries
	}

	entry := Entry{
		ID:        uuid.New().String(),
		Query:     query,
		Intent:    intentType(classification),
		Timestamp: time.Now().UTC(),
		Resolved:  resolved,
	}
	if entities != nil {
		entry.Entities = entities.Entities
	}

	next.Entries = append(append([]Entry{}, state.Entries...), entry)
	if len(next.Entries) > next.MaxEntries {
		next.Entries = next.Entries[len(next.Entries)-next.MaxEntries:]
	}

	if entities != nil {
		next.RecentCompanies = pushRecent(state.RecentCompanies, names(entities.Companies), maxRecentPerType)
		next.RecentSectors = pushRecent(state.RecentSectors, names(entities.Sectors), maxRecentPerType)
		next.RecentRegions = pushRecent(state.RecentRegions, names(entities.Regions), maxRecentPerType)
		next.CurrentEntities = mergeEntities(state.CurrentEntities, entities.Entities, maxCurrentEntities)
	}

	return next
}

// WithResponse records the host's response text on the most recent turn.
func WithResponse(state State, response string) State {
	if len(state.Entries) == 0 {
		return state
	}
	next := state
	next.Entries = append([]Entry{}, state.Entries...)
	next.Entries[len(next.Entries)-1].Response = response
	return next
}

func names(entities []extract.Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.NormalizedValue)
	}
	return out
}

// pushRecent prepends the new names, dropping case-insensitive duplicates of
// older mentions, and caps the list.
func pushRecent(existing, incoming []string, limit int) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, n := range incoming {
		key := strings.ToLower(n)
		if !seen[key] {
			seen[key] = true
			out = append(out, n)
		}
	}
	for _, n := range existing {
		key := strings.ToLower(n)
		if !seen[key] {
			seen[key] = true
			out = append(out, n)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// mergeEntities is append-then-dedupe-then-cap, newest first. Entities of
// different types never collapse into each other.
func mergeEntities(existing, incoming []extract.Entity, limit int) []extract.Entity {
	out := []extract.Entity{}
	seen := map[string]bool{}
	push := func(e extract.Entity) {
		key := string(e.Type) + "|" + strings.ToLower(e.NormalizedValue)
		if !seen[key] {
			seen[key] = true
			out = append(out, e)
		}
	}
	for _, e := range incoming {
		push(e)
	}
	for _, e := range existing {
		push(e)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
