package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bastiangx/geoserve/pkg/dataset"
)

func TestInitializeLoadsAllTiers(t *testing.T) {
	fetcher := newFakeFetcher()
	cfg := testConfig()
	cfg.Data.PriorityCountry = "bg"

	e := New(cfg, fetcher)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	st := e.Status()
	if !st.Initialized {
		t.Error("engine should report initialized")
	}
	// 3 base + 2 major cities + 3 priority country detail.
	if st.LocationCount != 8 {
		t.Errorf("locationCount = %d, want 8", st.LocationCount)
	}

	// Priority country is marked loaded: a viewport event inside Bulgaria
	// must not refetch it.
	e.CheckAndLoadCountries(context.Background(), 42.7, 23.3, 9)
	if n := fetcher.callCount(dataset.CountryPath("bg")); n != 1 {
		t.Errorf("bg detail fetched %d times, want 1", n)
	}
}

func TestInitializeBaseFailureIsFatal(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.setFailing(dataset.BasePath, true)

	e := New(testConfig(), fetcher)
	if err := e.Initialize(context.Background()); err == nil {
		t.Fatal("expected error when base dataset is unreachable")
	}
	if e.Status().Initialized {
		t.Error("engine must stay uninitialized after a fatal init error")
	}

	// A later call retries the whole sequence.
	fetcher.setFailing(dataset.BasePath, false)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if !e.Status().Initialized {
		t.Error("engine should be initialized after successful retry")
	}
}

func TestInitializeBestEffortTiers(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.remove(dataset.MajorCitiesPath)
	fetcher.remove(dataset.CountryBoundsPath)
	cfg := testConfig()
	cfg.Data.PriorityCountry = "bg"
	fetcher.setFailing(dataset.CountryPath("bg"), true)

	e := New(cfg, fetcher)
	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("best-effort tier failures must not abort init: %v", err)
	}
	if st := e.Status(); st.LocationCount != 3 {
		t.Errorf("locationCount = %d, want base-only 3", st.LocationCount)
	}

	// Without bounding boxes, viewport events are inert.
	e.CheckAndLoadCountries(context.Background(), 42.7, 23.3, 12)
	if n := fetcher.callCount(dataset.CountryPath("bg")); n != 1 {
		t.Errorf("viewport loading should be disabled, bg fetched %d times", n)
	}
}

func TestInitializeIdempotent(t *testing.T) {
	fetcher := newFakeFetcher()
	e, err := newTestEngine(fetcher)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := e.Initialize(context.Background()); err != nil {
			t.Fatalf("repeat initialize: %v", err)
		}
	}
	if n := fetcher.callCount(dataset.BasePath); n != 1 {
		t.Errorf("base dataset fetched %d times, want 1", n)
	}
}

func TestConcurrentInitializeSharesOneRun(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.delay = 20 * time.Millisecond
	e := New(testConfig(), fetcher)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = e.Initialize(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d got error: %v", i, err)
		}
	}
	if n := fetcher.callCount(dataset.BasePath); n != 1 {
		t.Errorf("base dataset fetched %d times under concurrency, want 1", n)
	}
}

func TestViewportZoomGate(t *testing.T) {
	fetcher := newFakeFetcher()
	e, err := newTestEngine(fetcher)
	if err != nil {
		t.Fatal(err)
	}

	// Too far out: never fetches, regardless of center.
	e.CheckAndLoadCountries(context.Background(), 42.7, 23.3, 5)
	if n := fetcher.callCount(dataset.CountryPath("bg")); n != 0 {
		t.Fatalf("zoom 5 triggered %d fetches", n)
	}

	before := e.Status().LocationCount
	e.CheckAndLoadCountries(context.Background(), 42.7, 23.3, 8)
	if n := fetcher.callCount(dataset.CountryPath("bg")); n != 1 {
		t.Fatalf("zoom 8 inside bg triggered %d fetches, want 1", n)
	}
	if after := e.Status().LocationCount; after != before+3 {
		t.Errorf("locationCount = %d, want %d", after, before+3)
	}

	// Duplicate viewport events are no-ops once the country is marked.
	e.CheckAndLoadCountries(context.Background(), 42.7, 23.3, 10)
	if n := fetcher.callCount(dataset.CountryPath("bg")); n != 1 {
		t.Errorf("duplicate event refetched bg: %d calls", n)
	}
}

func TestViewportOutsideAllBounds(t *testing.T) {
	fetcher := newFakeFetcher()
	e, err := newTestEngine(fetcher)
	if err != nil {
		t.Fatal(err)
	}
	// Somewhere in the Atlantic.
	e.CheckAndLoadCountries(context.Background(), 30.0, -40.0, 10)
	if n := fetcher.callCount(dataset.CountryPath("bg")) + fetcher.callCount(dataset.CountryPath("it")); n != 0 {
		t.Errorf("out-of-bounds viewport triggered %d fetches", n)
	}
}

func TestViewportRetryAfterFailure(t *testing.T) {
	fetcher := newFakeFetcher()
	e, err := newTestEngine(fetcher)
	if err != nil {
		t.Fatal(err)
	}
	fetcher.setFailing(dataset.CountryPath("it"), true)

	e.CheckAndLoadCountries(context.Background(), 45.46, 9.19, 9)
	if n := fetcher.callCount(dataset.CountryPath("it")); n != 1 {
		t.Fatalf("first attempt made %d fetches, want 1", n)
	}
	before := e.Status().LocationCount

	// The failed country is unmarked, so the next qualifying event retries.
	fetcher.setFailing(dataset.CountryPath("it"), false)
	e.CheckAndLoadCountries(context.Background(), 45.46, 9.19, 9)
	if n := fetcher.callCount(dataset.CountryPath("it")); n != 2 {
		t.Errorf("retry made %d total fetches, want 2", n)
	}
	if after := e.Status().LocationCount; after != before+2 {
		t.Errorf("locationCount = %d, want %d", after, before+2)
	}
}

func TestDestroyThenReinitialize(t *testing.T) {
	fetcher := newFakeFetcher()
	e, err := newTestEngine(fetcher)
	if err != nil {
		t.Fatal(err)
	}
	freshCount := e.Status().LocationCount

	// Grow past the startup tiers, then tear down.
	e.CheckAndLoadCountries(context.Background(), 42.7, 23.3, 9)
	e.Destroy()

	st := e.Status()
	if st.Initialized || st.LocationCount != 0 {
		t.Errorf("after destroy: %+v", st)
	}
	if got := e.Search("sofia", 10); len(got) != 0 {
		t.Errorf("destroyed engine returned %d results", len(got))
	}

	if err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("reinitialize failed: %v", err)
	}
	if got := e.Status().LocationCount; got != freshCount {
		t.Errorf("reinitialized count = %d, want fresh count %d", got, freshCount)
	}
}
