package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"playmate/internal/catalog/rawg"
	"playmate/internal/catalog/tmdb"
)

// LLMServer is a fake chat-completions endpoint that answers with scripted
// replies in order. Once the script is exhausted the last reply repeats.
type LLMServer struct {
	server *httptest.Server

	mu      sync.Mutex
	replies []string
	inputs  []string
}

// NewLLMServer starts a fake chat-completions server.
func NewLLMServer(t testing.TB, replies ...string) *LLMServer {
	t.Helper()
	s := &LLMServer{replies: replies}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

// BaseURL is the value for llm.base_url.
func (s *LLMServer) BaseURL() string {
	return s.server.URL + "/v1"
}

// Inputs returns the last user message of every request received so far.
func (s *LLMServer) Inputs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.inputs...)
}

func (s *LLMServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/chat/completions" {
		http.NotFound(w, r)
		return
	}
	var req struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if n := len(req.Messages); n > 0 {
		s.inputs = append(s.inputs, req.Messages[n-1].Content)
	}
	reply := ""
	if len(s.replies) > 0 {
		reply = s.replies[0]
		if len(s.replies) > 1 {
			s.replies = s.replies[1:]
		}
	}
	s.mu.Unlock()

	writeTestJSON(w, map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4.1-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": reply},
			"finish_reason": "stop",
		}},
	})
}

// RAWGServer is a fake game catalog holding a fixed set of games. Search
// matches case-insensitive substrings of the game name.
type RAWGServer struct {
	server *httptest.Server
	games  []rawg.Game

	mu       sync.Mutex
	searches int
}

// NewRAWGServer starts a fake game catalog.
func NewRAWGServer(t testing.TB, games ...rawg.Game) *RAWGServer {
	t.Helper()
	s := &RAWGServer{games: games}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

// URL is the value for rawg.base_url.
func (s *RAWGServer) URL() string {
	return s.server.URL
}

// Searches reports how many /games searches reached the server.
func (s *RAWGServer) Searches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searches
}

func (s *RAWGServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/games" {
		s.mu.Lock()
		s.searches++
		s.mu.Unlock()
		query := strings.ToLower(r.URL.Query().Get("search"))
		resp := rawg.SearchResponse{Results: []rawg.SearchResult{}}
		for _, g := range s.games {
			if query != "" && strings.Contains(strings.ToLower(g.Name), query) {
				resp.Results = append(resp.Results, rawg.SearchResult{ID: g.ID, Name: g.Name, Released: g.Released, Rating: g.Rating})
			}
		}
		resp.Count = len(resp.Results)
		writeTestJSON(w, resp)
		return
	}
	if idText, ok := strings.CutPrefix(r.URL.Path, "/games/"); ok {
		id, err := strconv.ParseInt(idText, 10, 64)
		if err == nil {
			for _, g := range s.games {
				if g.ID == id {
					writeTestJSON(w, g)
					return
				}
			}
		}
	}
	http.NotFound(w, r)
}

// TMDBServer is a fake movie catalog answering /discover/movie with the
// movies registered for each genre id.
type TMDBServer struct {
	server  *httptest.Server
	byGenre map[string][]tmdb.Movie
}

// NewTMDBServer starts a fake movie catalog.
func NewTMDBServer(t testing.TB, byGenre map[int][]tmdb.Movie) *TMDBServer {
	t.Helper()
	s := &TMDBServer{byGenre: make(map[string][]tmdb.Movie, len(byGenre))}
	for id, movies := range byGenre {
		s.byGenre[strconv.Itoa(id)] = movies
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

// URL is the value for tmdb.base_url.
func (s *TMDBServer) URL() string {
	return s.server.URL
}

func (s *TMDBServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/discover/movie" {
		http.NotFound(w, r)
		return
	}
	movies := s.byGenre[r.URL.Query().Get("with_genres")]
	writeTestJSON(w, tmdb.Response{Page: 1, Results: movies, TotalPages: 1, TotalResults: len(movies)})
}

func writeTestJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
