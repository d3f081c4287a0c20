// internal/pipeline/intent/classifier.go
package intent

import (
	"sort"
	"strings"
)

const (
	keywordWeight  = 0.15
	patternWeight  = 0.25
	priorityWeight = 0.008
	componentCap   = 0.5
	secondaryFloor = 0.3
)

// Classify scores every registered definition against the query and returns
// a ranked classification. It always produces a result: when nothing matches
// it degrades to a zero-confidence unknown intent routed to the demo agent.
func Classify(query string) *Classification {
	processed := strings.ToLower(strings.TrimSpace(query))

	var matches []Classified
	for i := range definitions {
		def := &definitions[i]
		matched := scoreDefinition(def, processed)
		if matched != nil {
			matches = append(matches, *matched)
		}
	}

	if len(matches) == 0 {
		return &Classification{
			Primary:        unknownIntent(),
			Secondary:      []Classified{},
			AllIntents:     []Classified{},
			RawQuery:       query,
			ProcessedQuery: processed,
		}
	}

	// Score descending, then definition priority descending.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return priorityOf(matches[i].Type) > priorityOf(matches[j].Type)
	})

	primary := matches[0]
	secondary := []Classified{}
	for _, m := range matches[1:] {
		if m.Confidence > secondaryFloor {
			secondary = append(secondary, m)
		}
	}

	return &Classification{
		Primary:        primary,
		Secondary:      secondary,
		IsCompound:     len(matches) > 1 && primary.Category == CategoryCompound,
		AllIntents:     matches,
		RawQuery:       query,
		ProcessedQuery: processed,
	}
}

// scoreDefinition returns nil when the definition has no keyword or pattern
// hit at all; the priority bonus never lifts a zero match off the floor.
func scoreDefinition(def *Definition, processed string) *Classified {
	var matchedKeywords []string
	for i, re := range def.keywordRes {
		if re.MatchString(processed) {
			matchedKeywords = append(matchedKeywords, def.Keywords[i])
		}
	}

	var matchedPatterns []string
	for _, re := range def.Patterns {
		if re.MatchString(processed) {
			matchedPatterns = append(matchedPatterns, re.String())
		}
	}

	if len(matchedKeywords) == 0 && len(matchedPatterns) == 0 {
		return nil
	}

	keywordScore := keywordWeight * float64(len(matchedKeywords))
	if keywordScore > componentCap {
		keywordScore = componentCap
	}
	patternScore := patternWeight * float64(len(matchedPatterns))
	if patternScore > componentCap {
		patternScore = componentCap
	}

	score := clamp01(keywordScore + patternScore + priorityWeight*float64(def.Priority))

	return &Classified{
		Type:            def.Type,
		Category:        def.Category,
		Confidence:      score,
		Agents:          def.Agents,
		MatchedKeywords: matchedKeywords,
		MatchedPatterns: matchedPatterns,
	}
}

func unknownIntent() Classified {
	return Classified{
		Type:            TypeUnknown,
		Category:        CategoryHelp,
		Confidence:      0,
		Agents:          []string{"demo"},
		MatchedKeywords: []string{},
		MatchedPatterns: []string{},
	}
}

func priorityOf(intentType string) int {
	for i := range definitions {
		if definitions[i].Type == intentType {
			return definitions[i].Priority
		}
	}
	return 0
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
