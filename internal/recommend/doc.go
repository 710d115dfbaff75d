// Package recommend implements the game recommendation pipeline.
//
// A run compiles the user's selections into a profile block, asks the text
// generator for a fixed number of candidate titles, checks each candidate
// against the game catalog, lets the text generator pick the titles it is
// confident about, and overlays those picks onto the catalog facts.
//
//	Profile -> Generator -> Resolver -> Selector -> Merge
//
// The catalog is the source of truth: every recommendation carries an id that
// was resolved earlier in the same run, and picks naming any other id are
// dropped. An empty recommendation list with a nil error means "no confident
// match" and is not a failure.
//
// Error types (all usable with errors.As, and with errors.Is against the
// services markers):
//
//   - llmjson.DecodeError: reply never contained a JSON object
//   - SchemaError: valid JSON with the wrong shape or count
//   - NoMatchError: no candidate survived catalog resolution
//   - UpstreamError: one remote call failed at the transport level
//
// Direct is the catalog-free variant: five picks straight from the text
// generator with one repair attempt.
package recommend
