package index

import (
	"strconv"
	"sync"
)

// resultCache is a bounded LRU cache of query results. Any index mutation
// invalidates it wholesale since new postings can change every ranking.
type resultCache struct {
	mu          sync.Mutex
	results     map[string][]int
	accessTime  map[string]int64
	accessCount int64
	maxEntries  int
}

func newResultCache(maxEntries int) *resultCache {
	return &resultCache{
		results:    make(map[string][]int, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func cacheKey(query string, limit int) string {
	return strconv.Itoa(limit) + ":" + query
}

func (rc *resultCache) get(query string, limit int) ([]int, bool) {
	key := cacheKey(query, limit)
	rc.mu.Lock()
	defer rc.mu.Unlock()
	ids, ok := rc.results[key]
	if ok {
		rc.accessCount++
		rc.accessTime[key] = rc.accessCount
	}
	return ids, ok
}

func (rc *resultCache) put(query string, limit int, ids []int) {
	key := cacheKey(query, limit)
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.results) >= rc.maxEntries {
		rc.evictLRU()
	}
	rc.accessCount++
	rc.results[key] = ids
	rc.accessTime[key] = rc.accessCount
}

func (rc *resultCache) invalidate() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	clear(rc.results)
	clear(rc.accessTime)
}

// evictLRU removes the least recently touched entry. Caller holds rc.mu.
func (rc *resultCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = 1<<63 - 1

	for key, at := range rc.accessTime {
		if at < oldestTime {
			oldestTime = at
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(rc.results, oldestKey)
		delete(rc.accessTime, oldestKey)
	}
}
