package tmdb

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

	"playmate/internal/catalogcache"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// Movie represents a single TMDB movie entry.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	GenreIDs    []int   `json:"genre_ids"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
	Runtime     int     `json:"runtime,omitempty"`
}

// Response models the TMDB paginated list response.
type Response struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// StatusError reports a non-200 TMDB response.
type StatusError struct {
	Op         string
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned %d (latency=%v)", e.Op, e.StatusCode, e.Latency)
}

// Searcher defines the TMDB operations used by the quiz.
type Searcher interface {
	DiscoverMovies(ctx context.Context, genreID int) (*Response, error)
	SearchMovie(ctx context.Context, query string) (*Response, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*Movie, error)
	PosterURL(path string) string
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	region       string
	httpClient   *http.Client
	cache        *catalogcache.ReadThrough
}

var _ Searcher = (*Client)(nil)

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

// WithRegion restricts discovery to releases in region (ISO 3166-1).
func WithRegion(region string) Option {
	return func(c *Client) {
		c.region = strings.TrimSpace(region)
	}
}

// WithImageBaseURL overrides the poster URL prefix.
func WithImageBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.imageBaseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithCache serves repeated lookups from cache.
func WithCache(cache *catalogcache.ReadThrough) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		imageBaseURL: defaultImageBaseURL,
		language:     strings.TrimSpace(language),
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// PosterURL turns a poster path into an absolute image URL. Empty paths stay empty.
func (c *Client) PosterURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return c.imageBaseURL + "/" + strings.TrimLeft(path, "/")
}

// DiscoverMovies lists popular movies in a genre.
func (c *Client) DiscoverMovies(ctx context.Context, genreID int) (*Response, error) {
	if genreID <= 0 {
		return nil, errors.New("genre id must be positive")
	}
	key := catalogcache.Key(c.apiKey, strconv.Itoa(genreID), c.language, c.region)
	return catalogcache.Fetch(ctx, c.cache, "tmdb.discover", key, func(ctx context.Context) (*Response, error) {
		params := url.Values{}
		params.Set("with_genres", strconv.Itoa(genreID))
		params.Set("sort_by", "popularity.desc")
		params.Set("include_adult", "false")
		if c.region != "" {
			params.Set("region", c.region)
		}
		var payload Response
		if err := c.getJSON(ctx, "discover", "/discover/movie", params, &payload); err != nil {
			return nil, err
		}
		return &payload, nil
	})
}

// SearchMovie searches TMDB for the supplied title.
func (c *Client) SearchMovie(ctx context.Context, query string) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	key := catalogcache.Key(c.apiKey, query, c.language)
	return catalogcache.Fetch(ctx, c.cache, "tmdb.search", key, func(ctx context.Context) (*Response, error) {
		params := url.Values{}
		params.Set("query", query)
		var payload Response
		if err := c.getJSON(ctx, "search", "/search/movie", params, &payload); err != nil {
			return nil, err
		}
		return &payload, nil
	})
}

// GetMovieDetails fetches movie details by TMDB ID.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*Movie, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	key := catalogcache.Key(c.apiKey, strconv.FormatInt(movieID, 10), c.language)
	return catalogcache.Fetch(ctx, c.cache, "tmdb.movie", key, func(ctx context.Context) (*Movie, error) {
		var payload Movie
		if err := c.getJSON(ctx, "movie details", fmt.Sprintf("/movie/%d", movieID), url.Values{}, &payload); err != nil {
			return nil, err
		}
		return &payload, nil
	})
}

func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, target any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Latency: latency}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode tmdb %s response: %w", op, err)
	}
	return nil
}
