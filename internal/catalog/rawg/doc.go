// Package rawg wraps the RAWG game catalog API: a name search and a per-game
// detail lookup. Both go through an optional read-through cache and a request
// pacer so a recommendation run with many candidates stays under the API quota.
package rawg
