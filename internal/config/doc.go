// Package config loads, normalizes, and validates playmate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY, RAWG_API_KEY and TMDB_API_KEY. The recommendation core never
// reads configuration itself; commands translate Config values into plain
// parameters.
package config
