/*
Package search implements the progressively-loaded place-name search engine.

An Engine owns an in-memory index store and fills it in tiers: the base
geography dataset (countries, capitals, landmarks) at startup, major cities
and one priority country's detail right after, and further per-country detail
datasets whenever the map viewport enters a country at sufficient zoom.
Queries are answered from whatever has been loaded so far; reads never block
on a pending fetch.
*/
package search

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/bastiangx/geoserve/pkg/config"
	"github.com/bastiangx/geoserve/pkg/dataset"
	"github.com/bastiangx/geoserve/pkg/geo"
	"github.com/bastiangx/geoserve/pkg/index"
)

// Status is the engine's externally visible lifecycle state.
type Status struct {
	Initialized   bool `json:"initialized"`
	LocationCount int  `json:"locationCount"`
}

// Engine is one independent search engine instance. All state lives on the
// instance so tests can run several side by side.
type Engine struct {
	cfg     *config.Config
	fetcher dataset.Fetcher

	mu           sync.Mutex
	store        *index.Store
	bounds       map[string]geo.BoundingBox
	loaded       map[string]bool
	initialized  bool
	initializing bool

	// initFlight collapses concurrent Initialize calls onto one execution so
	// every caller observes the same outcome.
	initFlight singleflight.Group
}

// New creates an engine reading datasets through the given fetcher.
func New(cfg *config.Config, fetcher dataset.Fetcher) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Engine{
		cfg:     cfg,
		fetcher: fetcher,
		loaded:  make(map[string]bool),
	}
}

// Initialize loads the startup tiers. It is idempotent: an already
// initialized engine returns nil immediately, and overlapping calls share a
// single execution. Only a base dataset failure is fatal; the bounding box,
// major cities and priority country tiers are best-effort.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	_, err, _ := e.initFlight.Do("init", func() (any, error) {
		return nil, e.initialize(ctx)
	})
	return err
}

func (e *Engine) initialize(ctx context.Context) error {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return nil
	}
	e.initializing = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.initializing = false
		e.mu.Unlock()
	}()

	// Tier 0: country bounding boxes. Losing them only disables
	// viewport-triggered loading.
	var bounds map[string]geo.BoundingBox
	if err := e.fetcher.Fetch(ctx, dataset.CountryBoundsPath, &bounds); err != nil {
		log.Warnf("Country bounds unavailable, viewport loading disabled: %v", err)
		bounds = nil
	}

	engine := index.NewPrefixIndex(index.Options{
		Resolution: e.cfg.Index.Resolution,
		CacheSize:  e.cfg.Index.CacheSize,
	})
	store := index.NewStore(engine)

	// Tier 1: base geography. Required.
	var base []geo.Location
	if err := e.fetcher.Fetch(ctx, dataset.BasePath, &base); err != nil {
		return fmt.Errorf("load base dataset: %w", err)
	}
	store.Ingest(base)

	// Tier 2: major cities. Best-effort.
	var major []geo.CompactRecord
	if err := e.fetcher.Fetch(ctx, dataset.MajorCitiesPath, &major); err != nil {
		log.Warnf("Major cities dataset unavailable: %v", err)
	} else {
		store.Ingest(geo.NormalizeAll(major))
	}

	// Tier 3: priority country detail. Best-effort; marked loaded on success
	// so the viewport trigger never refetches it.
	loaded := make(map[string]bool)
	if cc := e.cfg.Data.PriorityCountry; cc != "" {
		if err := loadCountry(ctx, e.fetcher, store, cc); err != nil {
			log.Warnf("Priority country %q dataset unavailable: %v", cc, err)
		} else {
			loaded[cc] = true
		}
	}

	e.mu.Lock()
	e.store = store
	e.bounds = bounds
	e.loaded = loaded
	e.initialized = true
	e.mu.Unlock()

	log.Debugf("Search engine initialized with %d locations", store.Count())
	return nil
}

// CheckAndLoadCountries reacts to a viewport event. When the engine is
// initialized and the zoom is at or above the detail threshold, every country
// whose bounding box contains the viewport center and whose detail dataset is
// not yet loaded gets fetched and ingested. A country is marked loaded before
// its fetch starts, which makes bursts of duplicate viewport events
// idempotent; a failed fetch unmarks it so a later event can retry.
func (e *Engine) CheckAndLoadCountries(ctx context.Context, lat, lng float64, zoom int) {
	e.mu.Lock()
	if !e.initialized || e.initializing || zoom < e.cfg.Data.MinDetailZoom || len(e.bounds) == 0 {
		e.mu.Unlock()
		return
	}
	var due []string
	for code, box := range e.bounds {
		if e.loaded[code] {
			continue
		}
		if box.Contains(lat, lng) {
			e.loaded[code] = true
			due = append(due, code)
		}
	}
	store := e.store
	e.mu.Unlock()

	sort.Strings(due)
	for _, code := range due {
		if err := loadCountry(ctx, e.fetcher, store, code); err != nil {
			log.Warnf("Detail dataset for %q failed, will retry on next viewport event: %v", code, err)
			e.mu.Lock()
			delete(e.loaded, code)
			e.mu.Unlock()
		}
	}
}

// loadCountry fetches, normalizes and ingests one country's detail dataset.
func loadCountry(ctx context.Context, fetcher dataset.Fetcher, store *index.Store, code string) error {
	var records []geo.CompactRecord
	if err := fetcher.Fetch(ctx, dataset.CountryPath(code), &records); err != nil {
		return err
	}
	added := store.Ingest(geo.NormalizeAll(records))
	log.Debugf("Loaded country %q: %d new locations", code, added)
	return nil
}

// Status reports lifecycle state and the ingested location count.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{Initialized: e.initialized}
	if e.store != nil {
		st.LocationCount = e.store.Count()
	}
	return st
}

// Destroy drops the index store, the bounding boxes and the loaded-country
// set, and resets the lifecycle flags. A destroyed engine can be initialized
// again as if fresh.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = nil
	e.bounds = nil
	e.loaded = make(map[string]bool)
	e.initialized = false
	e.initializing = false
}
