package index

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/geoserve/pkg/geo"
)

// Store owns the canonical location records, the engine token mapping and
// the ingestion dedup set. Records are appended to a dense arena; every token
// id the engine ever sees maps to exactly one arena position. The store only
// grows; a reset means dropping the whole store.
type Store struct {
	mu      sync.RWMutex
	engine  Engine
	records []geo.Location
	// tokens[tokenID] = position of the owning record. Token ids are handed
	// out monotonically, one per indexed name variant.
	tokens []int
	seen   map[string]struct{}
}

// NewStore creates an empty store backed by the given engine.
func NewStore(engine Engine) *Store {
	return &Store{
		engine: engine,
		seen:   make(map[string]struct{}),
	}
}

// Ingest adds a batch of locations, skipping any whose id was already
// ingested. Every non-empty name variant of a new location is indexed under
// its own token id. The whole batch becomes searchable before Ingest returns.
// Returns the number of newly added locations.
func (s *Store) Ingest(locs []geo.Location) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, loc := range locs {
		if _, dup := s.seen[loc.ID]; dup {
			continue
		}
		s.seen[loc.ID] = struct{}{}
		pos := len(s.records)
		s.records = append(s.records, loc)
		for _, variant := range loc.NameVariants() {
			token := len(s.tokens)
			s.tokens = append(s.tokens, pos)
			s.engine.Add(token, variant)
		}
		added++
	}
	if added > 0 {
		log.Debugf("Indexed %d new locations (%d total)", added, len(s.records))
	}
	return added
}

// Search runs the engine query under the store's read lock so results are
// consistent with any in-flight ingestion batch.
func (s *Store) Search(query string, limit int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.engine == nil {
		return nil
	}
	return s.engine.Search(query, limit)
}

// Resolve maps an engine token id back to its owning location.
func (s *Store) Resolve(token int) (geo.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if token < 0 || token >= len(s.tokens) {
		return geo.Location{}, false
	}
	return s.records[s.tokens[token]], true
}

// Count returns the number of ingested locations.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Each visits every stored location in insertion order until fn returns
// false. Used by the fuzzy fallback's linear scan.
func (s *Store) Each(fn func(geo.Location) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, loc := range s.records {
		if !fn(loc) {
			return
		}
	}
}
