package search

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/geoserve/pkg/geo"
)

// fuzzyActivationThreshold is the primary result count at or above which the
// linear fallback scan is skipped entirely.
const fuzzyActivationThreshold = 3

// FuzzySearch runs the primary search and, when it comes back thin, widens it
// with a cheap typo-tolerant linear scan over all stored locations. The scan
// is a heuristic, not an edit-distance computation: it trades accuracy for a
// bounded, allocation-light pass.
func (e *Engine) FuzzySearch(query string, limit int) []geo.SearchResult {
	if limit <= 0 {
		limit = e.cfg.Search.DefaultLimit
	}
	primary := e.Search(query, limit)

	// The length gate counts runes so a one-character Cyrillic query is
	// treated the same as a one-character Latin one.
	q := strings.ToLower(strings.TrimSpace(query))
	if len(primary) >= fuzzyActivationThreshold || utf8.RuneCountInString(q) < 2 {
		return primary
	}

	store, ok := e.readableStore()
	if !ok {
		return primary
	}

	maxDist := 1
	if len(q) > 4 {
		maxDist = 2
	}

	budget := limit * 2
	var extras []geo.SearchResult
	store.Each(func(loc geo.Location) bool {
		field := ""
		if fuzzyMatch(q, strings.ToLower(loc.Name), maxDist) {
			field = "name"
		} else if loc.NameAlt != "" && fuzzyMatch(q, strings.ToLower(loc.NameAlt), maxDist) {
			field = "nameAlt"
		}
		if field == "" {
			return true
		}

		score := typePriority[loc.Type]
		if loc.Population > 0 {
			score += math.Log10(float64(loc.Population))
		}
		extras = append(extras, geo.SearchResult{
			Location:     loc,
			Score:        score,
			MatchedField: field,
		})
		return len(extras) < budget
	})

	sort.SliceStable(extras, func(i, j int) bool {
		return extras[i].Score > extras[j].Score
	})

	// Primary results stay first; fuzzy matches fill the remainder.
	emitted := make(map[string]bool, len(primary))
	for _, r := range primary {
		emitted[r.ID] = true
	}
	merged := primary
	for _, r := range extras {
		if len(merged) >= limit {
			break
		}
		if emitted[r.ID] {
			continue
		}
		emitted[r.ID] = true
		merged = append(merged, r)
	}
	return merged
}

// fuzzyMatch is the fallback predicate: substring containment, a
// prefix-minus-last-character match, or, for very short queries, a bounded
// count of mismatched leading characters.
func fuzzyMatch(q, target string, maxDist int) bool {
	if strings.Contains(target, q) {
		return true
	}
	if len(q) > 1 && strings.HasPrefix(target, q[:len(q)-1]) {
		return true
	}
	if len(q) <= 3 {
		n := len(q)
		if len(target) < n {
			n = len(target)
		}
		diff := 0
		for i := 0; i < n; i++ {
			if q[i] != target[i] {
				diff++
			}
		}
		return diff <= maxDist
	}
	return false
}
