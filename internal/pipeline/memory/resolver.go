// internal/pipeline/memory/resolver.go
package memory

import (
	"regexp"
	"strings"
)

// Resolution rules run in order: plural pronouns bind before singular ones
// so "them" in "score them and email it" is not consumed by the "it" rule.
var (
	pluralPronounRe   = regexp.MustCompile(`(?i)\b(them|they|these companies|those companies)\b`)
	singularPronounRe = regexp.MustCompile(`(?i)\b(it|this company|that company)\b`)
	sameRegionRe      = regexp.MustCompile(`(?i)\bthe same region\b`)
	sameSectorRe      = regexp.MustCompile(`(?i)\bthe same sector\b`)
)

// Resolve substitutes pronouns and references in the query using the most
// recent matching entities. The original query is never mutated; a new
// resolved string is returned together with a structured record of every
// substitution.
func Resolve(query string, state State) Resolution {
	resolved := query
	res := Resolutions{
		Pronouns:   map[string][]string{},
		References: map[string]string{},
	}

	if len(state.RecentCompanies) > 0 {
		resolved = pluralPronounRe.ReplaceAllStringFunc(resolved, func(match string) string {
			companies := state.RecentCompanies
			if len(companies) > maxPluralResolved {
				companies = companies[:maxPluralResolved]
			}
			// A single recent company still resolves a plural pronoun.
			res.Pronouns[strings.ToLower(match)] = append([]string{}, companies...)
			return strings.Join(companies, ", ")
		})

		resolved = singularPronounRe.ReplaceAllStringFunc(resolved, func(match string) string {
			company := state.RecentCompanies[0]
			res.Pronouns[strings.ToLower(match)] = []string{company}
			return company
		})
	}

	if len(state.RecentRegions) > 0 {
		resolved = sameRegionRe.ReplaceAllStringFunc(resolved, func(match string) string {
			region := state.RecentRegions[0]
			res.References[strings.ToLower(match)] = region
			return region
		})
	}

	if len(state.RecentSectors) > 0 {
		resolved = sameSectorRe.ReplaceAllStringFunc(resolved, func(match string) string {
			sector := state.RecentSectors[0]
			res.References[strings.ToLower(match)] = sector
			return sector
		})
	}

	return Resolution{
		ResolvedQuery: resolved,
		Resolutions:   res,
		Changed:       resolved != query,
	}
}
