package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"playmate/internal/catalogcache"
)

func TestSearchSendsQueryParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("search") != "Hades" || q.Get("page_size") != "5" || q.Get("search_precise") != "true" || q.Get("key") != "k" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":   1,
			"results": []any{map[string]any{"id": 3498, "name": "Hades", "released": "2020-09-17", "rating": 4.4}},
		})
	}))
	defer server.Close()

	client, err := New("k", server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := client.Search(context.Background(), " Hades ", 5, true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != 3498 || resp.Results[0].Name != "Hades" {
		t.Fatalf("unexpected results %+v", resp.Results)
	}
}

func TestDetailFlattensNestedFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"id": 42, "name": "Stardew Valley", "released": "2016-02-26",
			"background_image": "https://img/sv.jpg", "rating": 4.4, "metacritic": 89,
			"genres": [{"name": "RPG"}, {"name": "Simulation"}],
			"platforms": [{"platform": {"name": "PC"}}, {"platform": {"name": "Nintendo Switch"}}],
			"stores": [{"url": "https://store/steam", "store": {"name": "Steam"}}, {"url": "", "store": {"name": ""}}]
		}`))
	}))
	defer server.Close()

	client, _ := New("k", server.URL)
	game, err := client.Detail(context.Background(), 42)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if game.Metacritic == nil || *game.Metacritic != 89 {
		t.Fatalf("unexpected metacritic %v", game.Metacritic)
	}
	if got := game.GenreNames(); len(got) != 2 || got[1] != "Simulation" {
		t.Fatalf("unexpected genres %v", got)
	}
	if got := game.PlatformNames(); len(got) != 2 || got[1] != "Nintendo Switch" {
		t.Fatalf("unexpected platforms %v", got)
	}
	if got := game.StoreLinks(); len(got) != 1 || got[0].Name != "Steam" || got[0].URL != "https://store/steam" {
		t.Fatalf("unexpected stores %v", got)
	}
}

func TestDetailReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := New("k", server.URL)
	_, err := client.Detail(context.Background(), 1)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestSearchUsesCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":7,"name":"Celeste"}]}`))
	}))
	defer server.Close()

	cache := catalogcache.NewReadThrough(catalogcache.NewMemory(), time.Hour, nil)
	client, _ := New("k", server.URL, WithCache(cache), WithRateLimit(1000))
	for i := 0; i < 3; i++ {
		resp, err := client.Search(context.Background(), "Celeste", 5, true)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if resp.Results[0].ID != 7 {
			t.Fatalf("unexpected result %+v", resp.Results[0])
		}
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected one upstream call, got %d", n)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New("  ", ""); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	client, _ := New("k", "http://127.0.0.1:1")
	if _, err := client.Search(context.Background(), "  ", 5, true); err == nil {
		t.Fatal("expected empty query error")
	}
}
