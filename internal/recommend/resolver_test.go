package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"playmate/internal/catalog/rawg"
	"playmate/internal/services"
)

func TestResolveSkipsCandidatesWithoutResults(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add("Hades", 1, "PC")
	catalog.add("Celeste", 2, "PC")

	facts, err := NewResolver(catalog, nil).Resolve(context.Background(), []string{"Unknown Game", "Hades", "Celeste"}, nil, 10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(facts) != 2 || facts[0].ID != 1 || facts[1].ID != 2 {
		t.Fatalf("unexpected facts %+v", facts)
	}
	if facts[0].Stores[0].Name != "Steam" || facts[0].Genres[0] != "Indie" {
		t.Fatalf("expected detail fields to be copied, got %+v", facts[0])
	}
}

func TestResolveStopsAtLimit(t *testing.T) {
	catalog := newFakeCatalog()
	names := []string{"A", "B", "C", "D", "E"}
	for i, name := range names {
		catalog.add(name, int64(i+1), "PC")
	}

	facts, err := NewResolver(catalog, nil).Resolve(context.Background(), names, nil, 3)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(facts) != 3 {
		t.Fatalf("expected exactly 3 facts, got %d", len(facts))
	}
	if len(catalog.searchCalls) != 3 {
		t.Fatalf("expected resolution to stop after 3 searches, got %v", catalog.searchCalls)
	}
}

func TestResolveDeduplicatesByID(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add("Hades", 1, "PC")
	catalog.search["hades ii preview"] = []rawg.SearchResult{{ID: 1, Name: "Hades"}}

	facts, err := NewResolver(catalog, nil).Resolve(context.Background(), []string{"Hades", "Hades II preview"}, nil, 10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("expected one fact, got %+v", facts)
	}
	if len(catalog.detailCalls) != 1 {
		t.Fatalf("expected duplicate id to skip the detail fetch, got %v", catalog.detailCalls)
	}
}

func TestResolveAbsorbsUpstreamFailures(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add("Hades", 1, "PC")
	catalog.add("Celeste", 2, "PC")
	catalog.searchErr["broken"] = errors.New("503")
	catalog.detailErr[1] = errors.New("timeout")

	facts, err := NewResolver(catalog, nil).Resolve(context.Background(), []string{"Broken", "Hades", "Celeste"}, nil, 10)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(facts) != 1 || facts[0].ID != 2 {
		t.Fatalf("expected only Celeste to survive, got %+v", facts)
	}
}

func TestResolveRetriesIDAfterFailedDetail(t *testing.T) {
	for _, workers := range []int{1, 2} {
		catalog := newFakeCatalog()
		catalog.add("Hades", 7, "PC")
		catalog.search["hades (2020)"] = []rawg.SearchResult{{ID: 7, Name: "Hades"}}
		catalog.detailFlaky[7] = errors.New("connection reset")

		facts, err := NewResolver(catalog, nil, WithWorkers(workers)).Resolve(context.Background(), []string{"Hades", "Hades (2020)"}, nil, 5)
		if err != nil {
			t.Fatalf("workers=%d: Resolve: %v", workers, err)
		}
		if len(facts) != 1 || facts[0].ID != 7 {
			t.Fatalf("workers=%d: expected id 7 from the second candidate, got %+v", workers, facts)
		}
		if len(catalog.detailCalls) != 2 {
			t.Fatalf("workers=%d: expected two detail fetches, got %v", workers, catalog.detailCalls)
		}
	}
}

func TestResolvePlatformFilter(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add("Halo", 1, "Xbox One", "PC")
	catalog.add("Zelda", 2, "Nintendo Switch")
	catalog.add("Monument Valley", 3, "iOS", "Android")

	tests := []struct {
		platforms []string
		want      []int64
	}{
		{nil, []int64{1, 2, 3}},
		{[]string{"Switch"}, []int64{2}},
		{[]string{"모바일"}, []int64{3}},
		{[]string{"xbox"}, []int64{1}},
		{[]string{"PC", "Switch"}, []int64{1, 2}},
		{[]string{"Android"}, []int64{3}},
	}
	for _, tc := range tests {
		facts, err := NewResolver(catalog, nil).Resolve(context.Background(), []string{"Halo", "Zelda", "Monument Valley"}, tc.platforms, 10)
		if err != nil {
			t.Fatalf("platforms %v: Resolve: %v", tc.platforms, err)
		}
		if len(facts) != len(tc.want) {
			t.Fatalf("platforms %v: expected ids %v, got %+v", tc.platforms, tc.want, facts)
		}
		for i, id := range tc.want {
			if facts[i].ID != id {
				t.Fatalf("platforms %v: expected ids %v, got %+v", tc.platforms, tc.want, facts)
			}
		}
	}
}

func TestResolveNoMatch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add("Halo", 1, "Xbox One")

	_, err := NewResolver(catalog, nil).Resolve(context.Background(), []string{"Halo", "Nothing"}, []string{"Switch"}, 10)
	var noMatch *NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchError, got %v", err)
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker on %v", err)
	}
	if noMatch.Candidates != 2 || !strings.Contains(err.Error(), "Switch") {
		t.Fatalf("unexpected error detail %v", err)
	}
}

func TestResolveWithWorkersMatchesSequential(t *testing.T) {
	catalog := newFakeCatalog()
	names := []string{"A", "B", "Missing", "C", "D", "E", "F", "G"}
	id := int64(1)
	for _, name := range names {
		if name == "Missing" {
			continue
		}
		platform := "PC"
		if name == "C" {
			platform = "PlayStation 5"
		}
		catalog.add(name, id, platform)
		id++
	}
	catalog.search["g"] = []rawg.SearchResult{{ID: 1, Name: "A"}}

	sequential, err := NewResolver(catalog, nil).Resolve(context.Background(), names, []string{"PC"}, 4)
	if err != nil {
		t.Fatalf("sequential Resolve: %v", err)
	}
	parallel, err := NewResolver(catalog, nil, WithWorkers(3)).Resolve(context.Background(), names, []string{"PC"}, 4)
	if err != nil {
		t.Fatalf("parallel Resolve: %v", err)
	}
	if len(sequential) != 4 || len(parallel) != 4 {
		t.Fatalf("expected 4 facts each, got %d and %d", len(sequential), len(parallel))
	}
	for i := range sequential {
		if sequential[i].ID != parallel[i].ID {
			t.Fatalf("order differs at %d: %+v vs %+v", i, sequential, parallel)
		}
	}
}

func TestResolveHonorsCancellation(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.add("Hades", 1, "PC")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewResolver(catalog, nil).Resolve(ctx, []string{"Hades"}, nil, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := NewResolver(catalog, nil, WithWorkers(2)).Resolve(ctx, []string{"Hades", "Celeste"}, nil, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from the windowed path, got %v", err)
	}
}

func TestMatchesPlatformsLooseSubstring(t *testing.T) {
	if !matchesPlatforms(platformTokens([]string{"PS"}), []string{"PlayStation 4"}) {
		t.Fatal("expected PS to match PlayStation 4")
	}
	if !matchesPlatforms(platformTokens([]string{"Switch"}), []string{"Nintendo 3DS"}) {
		t.Fatal("expected Switch to loosely match any Nintendo platform")
	}
	if matchesPlatforms(platformTokens([]string{"PC"}), []string{"Xbox Series S/X"}) {
		t.Fatal("expected PC not to match Xbox")
	}
	if !matchesPlatforms(nil, nil) {
		t.Fatal("expected empty filter to accept everything")
	}
}
