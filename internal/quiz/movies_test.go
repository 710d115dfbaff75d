package quiz

import (
	"context"
	"errors"
	"testing"

	"playmate/internal/catalog/tmdb"
	"playmate/internal/services"
)

type fakeDiscoverer struct {
	genre int
	resp  *tmdb.Response
	err   error
}

func (f *fakeDiscoverer) DiscoverMovies(_ context.Context, genreID int) (*tmdb.Response, error) {
	f.genre = genreID
	return f.resp, f.err
}

func (f *fakeDiscoverer) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return "https://img.example" + path
}

func TestPickUsesWinnerGenre(t *testing.T) {
	fake := &fakeDiscoverer{resp: &tmdb.Response{Results: []tmdb.Movie{
		{ID: 0, Title: "broken"},
		{ID: 496243, Title: "기생충", PosterPath: "/p.jpg", VoteAverage: 8.5},
	}}}
	movie, err := NewPicker(fake, nil).Pick(context.Background(), Result{Winner: Thriller})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if fake.genre != 53 {
		t.Fatalf("expected thriller genre 53, got %d", fake.genre)
	}
	if movie.ID != 496243 || movie.PosterURL != "https://img.example/p.jpg" {
		t.Fatalf("unexpected movie %+v", movie)
	}
}

func TestPickNoResults(t *testing.T) {
	fake := &fakeDiscoverer{resp: &tmdb.Response{}}
	_, err := NewPicker(fake, nil).Pick(context.Background(), Result{Winner: Comedy})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPickUpstreamError(t *testing.T) {
	fake := &fakeDiscoverer{err: errors.New("401")}
	_, err := NewPicker(fake, nil).Pick(context.Background(), Result{Winner: Drama})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestPickUnknownCategory(t *testing.T) {
	fake := &fakeDiscoverer{}
	if _, err := NewPicker(fake, nil).Pick(context.Background(), Result{Winner: "western"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
