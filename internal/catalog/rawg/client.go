package rawg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"playmate/internal/catalogcache"
)

const (
	defaultBaseURL = "https://api.rawg.io/api"
	defaultTimeout = 15 * time.Second
)

// SearchResult is one entry of a /games search.
type SearchResult struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Released string  `json:"released"`
	Rating   float64 `json:"rating"`
}

// SearchResponse models the paginated /games payload.
type SearchResponse struct {
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
}

// NamedRef is a catalog object referenced by name.
type NamedRef struct {
	Name string `json:"name"`
}

// PlatformRef wraps a platform entry of a game.
type PlatformRef struct {
	Platform NamedRef `json:"platform"`
}

// StoreRef is a storefront entry of a game.
type StoreRef struct {
	URL   string   `json:"url"`
	Store NamedRef `json:"store"`
}

// Game is the /games/{id} payload, trimmed to the fields recommendations use.
type Game struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Released        string        `json:"released"`
	BackgroundImage string        `json:"background_image"`
	Rating          float64       `json:"rating"`
	Metacritic      *int          `json:"metacritic"`
	Genres          []NamedRef    `json:"genres"`
	Platforms       []PlatformRef `json:"platforms"`
	Stores          []StoreRef    `json:"stores"`
}

// Store is a storefront offering a game.
type Store struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// GenreNames returns the genre names in catalog order.
func (g *Game) GenreNames() []string {
	names := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		if name := strings.TrimSpace(genre.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// PlatformNames returns the platform names in catalog order.
func (g *Game) PlatformNames() []string {
	names := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		if name := strings.TrimSpace(p.Platform.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// StoreLinks returns the storefronts with a name.
func (g *Game) StoreLinks() []Store {
	stores := make([]Store, 0, len(g.Stores))
	for _, s := range g.Stores {
		name := strings.TrimSpace(s.Store.Name)
		if name == "" {
			continue
		}
		stores = append(stores, Store{Name: name, URL: strings.TrimSpace(s.URL)})
	}
	return stores
}

// StatusError reports a non-200 catalog response.
type StatusError struct {
	Op         string
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rawg %s returned %d (latency=%v)", e.Op, e.StatusCode, e.Latency)
}

// Client provides access to the RAWG API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *catalogcache.ReadThrough
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithRateLimit paces outgoing requests. Non-positive values disable pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithCache serves repeated lookups from cache.
func WithCache(cache *catalogcache.ReadThrough) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// New creates a RAWG client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("rawg api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search looks up games by name.
func (c *Client) Search(ctx context.Context, query string, pageSize int, precise bool) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if pageSize <= 0 {
		pageSize = 5
	}
	key := catalogcache.Key(c.apiKey, query, strconv.Itoa(pageSize), strconv.FormatBool(precise))
	return catalogcache.Fetch(ctx, c.cache, "rawg.search", key, func(ctx context.Context) (*SearchResponse, error) {
		params := url.Values{}
		params.Set("search", query)
		params.Set("page_size", strconv.Itoa(pageSize))
		if precise {
			params.Set("search_precise", "true")
		}
		var payload SearchResponse
		if err := c.getJSON(ctx, "search", "/games", params, &payload); err != nil {
			return nil, err
		}
		return &payload, nil
	})
}

// Detail fetches one game by id.
func (c *Client) Detail(ctx context.Context, id int64) (*Game, error) {
	if id <= 0 {
		return nil, errors.New("game id must be positive")
	}
	key := catalogcache.Key(c.apiKey, strconv.FormatInt(id, 10))
	return catalogcache.Fetch(ctx, c.cache, "rawg.detail", key, func(ctx context.Context) (*Game, error) {
		var payload Game
		if err := c.getJSON(ctx, "detail", fmt.Sprintf("/games/%d", id), url.Values{}, &payload); err != nil {
			return nil, err
		}
		return &payload, nil
	})
}

func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, target any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rawg %s: wait for rate limit: %w", op, err)
		}
	}
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse rawg url: %w", err)
	}
	params.Set("key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("rawg %s: execute request (latency=%v): %w", op, latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Latency: latency}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode rawg %s response: %w", op, err)
	}
	return nil
}
