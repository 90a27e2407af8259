package search

import (
	"math"
	"sort"
	"strings"

	"github.com/bastiangx/geoserve/pkg/geo"
	"github.com/bastiangx/geoserve/pkg/index"
)

// rankWeight scales the index-engine rank position term. Coupled to result
// set size; kept as-is for compatibility with existing clients.
const rankWeight = 50

// exactPrefixBonus rewards locations whose primary name starts with the query.
const exactPrefixBonus = 500

// typePriority is the fixed ranking term per location type.
var typePriority = map[geo.LocationType]float64{
	geo.TypeCountry:  1000,
	geo.TypeCapital:  800,
	geo.TypeCity:     500,
	geo.TypeTown:     400,
	geo.TypeVillage:  300,
	geo.TypeLandmark: 350,
}

// Search runs the primary ranked query. An uninitialized engine or an
// empty/whitespace query yields an empty result list, never an error.
func (e *Engine) Search(query string, limit int) []geo.SearchResult {
	store, ok := e.readableStore()
	if !ok {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = e.cfg.Search.DefaultLimit
	}

	// Over-fetch so per-location dedup across name variants still fills the
	// requested limit.
	tokens := store.Search(q, limit*2)
	n := len(tokens)

	emitted := make(map[string]bool, n)
	results := make([]geo.SearchResult, 0, n)
	for i, token := range tokens {
		loc, found := store.Resolve(token)
		if !found {
			continue
		}
		if emitted[loc.ID] {
			continue
		}
		emitted[loc.ID] = true

		score := float64(n-i) * rankWeight
		score += typePriority[loc.Type]
		if loc.Population > 0 {
			score += math.Log10(float64(loc.Population)) * 10
		}
		if strings.HasPrefix(strings.ToLower(loc.Name), q) {
			score += exactPrefixBonus
		}

		results = append(results, geo.SearchResult{
			Location:     loc,
			Score:        score,
			MatchedField: matchedField(&loc, q),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// matchedField reports which name field produced the match, probing the
// localized fields before the primary name.
func matchedField(loc *geo.Location, q string) string {
	if loc.NameBg != "" && strings.Contains(strings.ToLower(loc.NameBg), q) {
		return "nameBg"
	}
	if loc.NameIt != "" && strings.Contains(strings.ToLower(loc.NameIt), q) {
		return "nameIt"
	}
	if loc.NameAlt != "" && strings.Contains(strings.ToLower(loc.NameAlt), q) {
		return "nameAlt"
	}
	for _, alt := range loc.AlternateNames {
		if strings.Contains(strings.ToLower(alt), q) {
			return "nameAlt"
		}
	}
	return "name"
}

// readableStore returns the store when the engine is initialized.
func (e *Engine) readableStore() (*index.Store, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized || e.store == nil {
		return nil, false
	}
	return e.store, true
}
