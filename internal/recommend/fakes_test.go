package recommend

import (
	"context"
	"errors"
	"strings"
	"sync"

	"playmate/internal/catalog/rawg"
)

type scriptedLLM struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	inputs  []string
	systems []string
}

func (s *scriptedLLM) Complete(_ context.Context, systemPrompt, input string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := len(s.inputs)
	s.inputs = append(s.inputs, input)
	s.systems = append(s.systems, systemPrompt)
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx >= len(s.replies) {
		return "", errors.New("no scripted reply")
	}
	return s.replies[idx], nil
}

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inputs)
}

type fakeCatalog struct {
	mu          sync.Mutex
	search      map[string][]rawg.SearchResult
	games       map[int64]*rawg.Game
	searchErr   map[string]error
	detailErr   map[int64]error
	// detailFlaky fails only the first detail call for an id.
	detailFlaky map[int64]error
	searchCalls []string
	detailCalls []int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		search:      make(map[string][]rawg.SearchResult),
		games:       make(map[int64]*rawg.Game),
		searchErr:   make(map[string]error),
		detailErr:   make(map[int64]error),
		detailFlaky: make(map[int64]error),
	}
}

// add registers a game found by name with the given platforms.
func (f *fakeCatalog) add(name string, id int64, platforms ...string) {
	f.search[strings.ToLower(name)] = []rawg.SearchResult{{ID: id, Name: name}}
	game := &rawg.Game{ID: id, Name: name, Released: "2020-01-01", Rating: 4.2, Genres: []rawg.NamedRef{{Name: "Indie"}}}
	for _, p := range platforms {
		game.Platforms = append(game.Platforms, rawg.PlatformRef{Platform: rawg.NamedRef{Name: p}})
	}
	game.Stores = []rawg.StoreRef{{URL: "https://store.example/" + name, Store: rawg.NamedRef{Name: "Steam"}}}
	f.games[id] = game
}

func (f *fakeCatalog) Search(_ context.Context, query string, pageSize int, precise bool) (*rawg.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, query)
	if pageSize != 5 || !precise {
		return nil, errors.New("unexpected search parameters")
	}
	if err := f.searchErr[strings.ToLower(query)]; err != nil {
		return nil, err
	}
	results := f.search[strings.ToLower(query)]
	return &rawg.SearchResponse{Count: len(results), Results: results}, nil
}

func (f *fakeCatalog) Detail(_ context.Context, id int64) (*rawg.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, id)
	if err := f.detailErr[id]; err != nil {
		return nil, err
	}
	if err := f.detailFlaky[id]; err != nil {
		delete(f.detailFlaky, id)
		return nil, err
	}
	game, ok := f.games[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return game, nil
}
