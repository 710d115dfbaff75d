// Package quiz scores the movie-taste quiz and fetches one matching movie.
//
// Each option of each question carries fixed weights for a handful of genre
// categories. Score sums the weights of the chosen options and picks the
// highest category, breaking ties by a fixed priority order, so every complete
// answer set yields exactly one winner. Up to two descriptive tags come from
// keywords in the chosen answers to the first, third and fifth questions.
//
// Picker performs the quiz's single catalog fetch: a TMDB discovery in the
// winning genre.
package quiz
