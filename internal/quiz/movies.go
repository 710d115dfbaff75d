package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"playmate/internal/catalog/tmdb"
	"playmate/internal/logging"
	"playmate/internal/services"
)

// Movie is the pick shown with a quiz result.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}

// Discoverer is the TMDB subset the picker needs.
type Discoverer interface {
	DiscoverMovies(ctx context.Context, genreID int) (*tmdb.Response, error)
	PosterURL(path string) string
}

// Picker fetches one movie for a quiz result.
type Picker struct {
	catalog Discoverer
	logger  *slog.Logger
}

// NewPicker constructs a Picker.
func NewPicker(catalog Discoverer, logger *slog.Logger) *Picker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Picker{catalog: catalog, logger: logging.NewComponentLogger(logger, "quiz")}
}

// Pick returns the most popular movie in the winning genre.
func (p *Picker) Pick(ctx context.Context, result Result) (*Movie, error) {
	genreID := result.Winner.GenreID()
	if genreID == 0 {
		return nil, services.Wrap(services.ErrValidation, "quiz", "pick", fmt.Sprintf("unknown category %q", result.Winner), nil)
	}
	resp, err := p.catalog.DiscoverMovies(ctx, genreID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "quiz", "discover movies", result.Winner.Label(), err)
	}
	for _, m := range resp.Results {
		if m.ID == 0 || strings.TrimSpace(m.Title) == "" {
			continue
		}
		p.logger.Debug("quiz movie picked",
			logging.Args(append(
				logging.DecisionAttrs("quiz_movie", "picked", "top popularity in genre"),
				logging.String("winner", string(result.Winner)),
				logging.Int64("tmdb_id", m.ID),
			)...)...,
		)
		return &Movie{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			ReleaseDate: m.ReleaseDate,
			PosterURL:   p.catalog.PosterURL(m.PosterPath),
			VoteAverage: m.VoteAverage,
		}, nil
	}
	return nil, services.Wrap(services.ErrNotFound, "quiz", "discover movies", "no movie for "+result.Winner.Label(), nil)
}
