package recommend

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"playmate/internal/catalog/rawg"
	"playmate/internal/logging"
)

const searchPageSize = 5

// Catalog is the game catalog the resolver checks candidates against.
type Catalog interface {
	Search(ctx context.Context, query string, pageSize int, precise bool) (*rawg.SearchResponse, error)
	Detail(ctx context.Context, id int64) (*rawg.Game, error)
}

// Store is a storefront offering a game.
type Store struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Fact is a catalog record for one resolved candidate.
type Fact struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Released   string   `json:"released,omitempty"`
	Genres     []string `json:"genres"`
	Platforms  []string `json:"platforms"`
	Rating     float64  `json:"rating,omitempty"`
	Metacritic *int     `json:"metacritic,omitempty"`
	Cover      string   `json:"cover,omitempty"`
	Stores     []Store  `json:"stores,omitempty"`
}

// Resolver turns candidate names into catalog facts.
type Resolver struct {
	catalog Catalog
	logger  *slog.Logger
	workers int
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithWorkers resolves up to n candidates at a time. Results are still applied
// in candidate order.
func WithWorkers(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// NewResolver constructs a Resolver.
func NewResolver(catalog Catalog, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Resolver{
		catalog: catalog,
		logger:  logging.NewComponentLogger(logger, "resolver"),
		workers: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type lookupResult struct {
	name      string
	id        int64
	game      *rawg.Game
	searchErr error
	detailErr error
}

// Resolve checks candidates in order and keeps at most limit facts. Failed
// lookups skip the candidate. A non-positive limit keeps every match.
func (r *Resolver) Resolve(ctx context.Context, candidates, platforms []string, limit int) ([]Fact, error) {
	if limit <= 0 {
		limit = len(candidates)
	}
	tokens := platformTokens(platforms)
	seen := make(map[int64]bool)
	facts := make([]Fact, 0, min(limit, len(candidates)))
	logger := logging.WithContext(ctx, r.logger)

	if r.workers <= 1 {
		for _, name := range candidates {
			if len(facts) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res := r.lookup(ctx, name, seen)
			facts = r.apply(logger, res, tokens, seen, facts)
		}
	} else {
		for start := 0; start < len(candidates) && len(facts) < limit; start += r.workers {
			end := min(start+r.workers, len(candidates))
			window := make([]lookupResult, end-start)
			var g errgroup.Group
			g.SetLimit(r.workers)
			for i, name := range candidates[start:end] {
				g.Go(func() error {
					window[i] = r.lookup(ctx, name, nil)
					return ctx.Err()
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
			for _, res := range window {
				if len(facts) >= limit {
					break
				}
				facts = r.apply(logger, res, tokens, seen, facts)
			}
		}
	}

	if len(facts) == 0 {
		return nil, &NoMatchError{Candidates: len(candidates), Platforms: platforms}
	}
	logger.Info("candidates resolved",
		logging.Args(
			logging.Int("candidates", len(candidates)),
			logging.Int("facts", len(facts)),
			logging.Int("limit", limit),
		)...,
	)
	return facts, nil
}

// lookup runs search then detail for one name. When seen is non-nil the detail
// fetch is skipped for ids already taken.
func (r *Resolver) lookup(ctx context.Context, name string, seen map[int64]bool) lookupResult {
	res := lookupResult{name: strings.TrimSpace(name)}
	if res.name == "" {
		return res
	}
	resp, err := r.catalog.Search(ctx, res.name, searchPageSize, true)
	if err != nil {
		res.searchErr = &UpstreamError{Op: "catalog search", Query: res.name, Err: err}
		return res
	}
	if resp == nil || len(resp.Results) == 0 {
		return res
	}
	res.id = resp.Results[0].ID
	if res.id == 0 || (seen != nil && seen[res.id]) {
		return res
	}
	game, err := r.catalog.Detail(ctx, res.id)
	if err != nil {
		res.detailErr = &UpstreamError{Op: "catalog detail", Query: res.name, Err: err}
		return res
	}
	res.game = game
	return res
}

func (r *Resolver) apply(logger *slog.Logger, res lookupResult, tokens []string, seen map[int64]bool, facts []Fact) []Fact {
	if res.searchErr != nil {
		r.warnSkip(logger, res, res.searchErr)
		return facts
	}
	if res.id == 0 {
		logger.Debug("candidate skipped", logging.Args(append(
			logging.DecisionAttrs("catalog_match", "skip", "no search result"),
			logging.String("candidate", res.name),
		)...)...)
		return facts
	}
	if seen[res.id] {
		logger.Debug("candidate skipped", logging.Args(append(
			logging.DecisionAttrs("catalog_match", "skip", "duplicate id"),
			logging.String("candidate", res.name),
			logging.Int64("id", res.id),
		)...)...)
		return facts
	}
	if res.detailErr != nil {
		r.warnSkip(logger, res, res.detailErr)
		return facts
	}
	if res.game == nil {
		return facts
	}
	// Only a fetched detail claims the id; a failed fetch leaves it to later candidates.
	seen[res.id] = true

	platforms := res.game.PlatformNames()
	if !matchesPlatforms(tokens, platforms) {
		logger.Debug("candidate skipped", logging.Args(append(
			logging.DecisionAttrs("platform_filter", "skip", "no matching platform"),
			logging.String("candidate", res.name),
			logging.String("platforms", strings.Join(platforms, ", ")),
		)...)...)
		return facts
	}
	return append(facts, factFromGame(res.id, res.name, res.game, platforms))
}

func (r *Resolver) warnSkip(logger *slog.Logger, res lookupResult, err error) {
	logging.WarnWithContext(logger, "catalog lookup failed; skipping candidate", "catalog_lookup_failed",
		logging.String("candidate", res.name),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check rawg.api_key and network access"),
		logging.String(logging.FieldImpact, "candidate dropped from this run"),
	)
}

func factFromGame(id int64, candidate string, game *rawg.Game, platforms []string) Fact {
	name := strings.TrimSpace(game.Name)
	if name == "" {
		name = candidate
	}
	fact := Fact{
		ID:         id,
		Name:       name,
		Released:   strings.TrimSpace(game.Released),
		Genres:     game.GenreNames(),
		Platforms:  platforms,
		Rating:     game.Rating,
		Metacritic: game.Metacritic,
		Cover:      strings.TrimSpace(game.BackgroundImage),
	}
	for _, s := range game.StoreLinks() {
		fact.Stores = append(fact.Stores, Store{Name: s.Name, URL: s.URL})
	}
	return fact
}
