// Package tmdb provides the minimal TMDB API client used by the movie quiz.
//
// It exposes genre discovery (the quiz's single metadata fetch), title search
// and movie detail retrieval. Lookups go through the shared catalog cache when
// one is configured. Options allow tests to supply custom HTTP clients.
package tmdb
