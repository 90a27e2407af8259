// Package index provides the tokenized prefix index and the record store
// that maps engine token ids back to full location records.
package index

import (
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Engine is the tokenized index capability. Add indexes a string under a
// caller-assigned token id; Search returns token ids ranked best-first.
type Engine interface {
	Add(id int, text string)
	Search(query string, limit int) []int
}

// Options tunes a PrefixIndex.
type Options struct {
	// Resolution is the number of rank buckets. Words appearing earlier in an
	// indexed string land in lower buckets and rank higher.
	Resolution int
	// CacheSize bounds the query result cache entry count.
	CacheSize int
}

// DefaultOptions matches the tuning used by the search engine at startup.
func DefaultOptions() Options {
	return Options{Resolution: 9, CacheSize: 128}
}

type posting struct {
	id     int
	bucket int
}

type postingList struct {
	entries []posting
}

// PrefixIndex implements Engine on a Patricia trie with forward (per-word
// prefix) tokenization and a bounded LRU result cache.
type PrefixIndex struct {
	mu         sync.RWMutex
	trie       *patricia.Trie
	cache      *resultCache
	resolution int
}

// NewPrefixIndex creates an empty index with the given options. Zero or
// negative option values fall back to defaults.
func NewPrefixIndex(opts Options) *PrefixIndex {
	def := DefaultOptions()
	if opts.Resolution <= 0 {
		opts.Resolution = def.Resolution
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = def.CacheSize
	}
	return &PrefixIndex{
		trie:       patricia.NewTrie(),
		cache:      newResultCache(opts.CacheSize),
		resolution: opts.Resolution,
	}
}

// Add indexes text under the given token id. The text is lowercased and split
// on whitespace; each word becomes a prefix-searchable trie entry.
func (x *PrefixIndex) Add(id int, text string) {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return
	}
	x.mu.Lock()
	for wi, word := range words {
		bucket := wi
		if bucket >= x.resolution {
			bucket = x.resolution - 1
		}
		prefix := patricia.Prefix(word)
		if item := x.trie.Get(prefix); item != nil {
			list := item.(*postingList)
			list.entries = append(list.entries, posting{id: id, bucket: bucket})
		} else {
			x.trie.Insert(prefix, &postingList{entries: []posting{{id: id, bucket: bucket}}})
		}
	}
	x.mu.Unlock()
	x.cache.invalidate()
}

// Search returns up to limit token ids whose indexed words start with the
// query, ranked by bucket, then by how little the word overshoots the query,
// then by insertion order.
func (x *PrefixIndex) Search(query string, limit int) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}
	if ids, ok := x.cache.get(q, limit); ok {
		return ids
	}

	type candidate struct {
		id     int
		bucket int
		extra  int
	}
	best := make(map[int]candidate)

	x.mu.RLock()
	err := x.trie.VisitSubtree(patricia.Prefix(q), func(p patricia.Prefix, item patricia.Item) error {
		list := item.(*postingList)
		extra := len(p) - len(q)
		for _, pt := range list.entries {
			c, seen := best[pt.id]
			if !seen || pt.bucket < c.bucket || (pt.bucket == c.bucket && extra < c.extra) {
				best[pt.id] = candidate{id: pt.id, bucket: pt.bucket, extra: extra}
			}
		}
		return nil
	})
	x.mu.RUnlock()
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	ranked := make([]candidate, 0, len(best))
	for _, c := range best {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].bucket != ranked[j].bucket {
			return ranked[i].bucket < ranked[j].bucket
		}
		if ranked[i].extra != ranked[j].extra {
			return ranked[i].extra < ranked[j].extra
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]int, len(ranked))
	for i, c := range ranked {
		ids[i] = c.id
	}
	x.cache.put(q, limit, ids)
	return ids
}
