package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bastiangx/geoserve/pkg/config"
	"github.com/bastiangx/geoserve/pkg/dataset"
	"github.com/bastiangx/geoserve/pkg/geo"
)

// fakeFetcher serves in-memory datasets and records every fetch.
type fakeFetcher struct {
	mu       sync.Mutex
	payloads map[string]any
	failing  map[string]bool
	calls    map[string]int
	delay    time.Duration
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		payloads: map[string]any{
			dataset.BasePath:          baseDataset(),
			dataset.MajorCitiesPath:   majorCities(),
			dataset.CountryBoundsPath: countryBounds(),
			dataset.CountryPath("bg"): bgDetail(),
			dataset.CountryPath("it"): itDetail(),
		},
		failing: make(map[string]bool),
		calls:   make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, path string, v any) error {
	f.mu.Lock()
	f.calls[path]++
	payload, ok := f.payloads[path]
	fail := f.failing[path]
	delay := f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		return fmt.Errorf("fetch %s: transport down", path)
	}
	if !ok {
		return fmt.Errorf("%w: %s", dataset.ErrNotFound, path)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (f *fakeFetcher) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeFetcher) setFailing(path string, failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[path] = failing
}

func (f *fakeFetcher) remove(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.payloads, path)
}

func baseDataset() []geo.Location {
	return []geo.Location{
		{
			ID: "geo:country-bg", Name: "Bulgaria", NameBg: "България",
			Type: geo.TypeCountry, CountryCode: "bg",
			Lat: 42.73, Lng: 25.49, Population: 6447710, Zoom: 7,
		},
		{
			ID: "geo:capital-sofia", Name: "Sofia", NameBg: "София", NameAlt: "Sofija",
			Type: geo.TypeCapital, CountryCode: "bg",
			Lat: 42.6977, Lng: 23.3219, Population: 1286383, Zoom: 10,
		},
		{
			ID: "geo:landmark-rila", Name: "Rila Monastery", NameBg: "Рилски манастир",
			Type: geo.TypeLandmark, CountryCode: "bg",
			Lat: 42.1335, Lng: 23.3402, Zoom: 13,
		},
	}
}

func majorCities() []geo.CompactRecord {
	return []geo.CompactRecord{
		{ID: "728193", Name: "Plovdiv", Country: "bg", Population: 346893, Lat: 42.15, Lng: 24.75},
		{ID: "726050", Name: "Varna", Country: "bg", Population: 335177, Lat: 43.21, Lng: 27.91},
	}
}

func countryBounds() map[string]geo.BoundingBox {
	return map[string]geo.BoundingBox{
		"bg": {41.2, 22.3, 44.2, 28.6},
		"it": {36.6, 6.6, 47.1, 18.5},
	}
}

func bgDetail() []geo.CompactRecord {
	return []geo.CompactRecord{
		{ID: "732770", Name: "Burgas", Country: "bg", Population: 202694, Lat: 42.51, Lng: 27.47},
		{ID: "727079", Name: "Sozopol", Country: "bg", Population: 4300, Lat: 42.42, Lng: 27.70},
		{ID: "900001", Name: "Novo Sofovo", Country: "bg", Population: 400, Lat: 43.05, Lng: 25.10},
	}
}

func itDetail() []geo.CompactRecord {
	return []geo.CompactRecord{
		{ID: "3173435", Name: "Milano", ASCII: "Milan", Country: "it", Population: 1366180, Lat: 45.46, Lng: 9.19},
		{ID: "3166927", Name: "Sondrio", Country: "it", Population: 21642, Lat: 46.17, Lng: 9.87},
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Data.PriorityCountry = ""
	return cfg
}

// newTestEngine returns an initialized engine over the fake datasets with no
// priority country, so detail tiers load only through viewport events.
func newTestEngine(fetcher *fakeFetcher) (*Engine, error) {
	e := New(testConfig(), fetcher)
	if err := e.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return e, nil
}
