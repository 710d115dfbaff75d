// Package services defines shared utilities consumed by the recommendation
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp stage names and correlation identifiers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified consistently (validation vs not found vs transient).
//
// Use these helpers when wiring new pipeline stages so operational behaviour
// (error handling, observability) stays uniform across commands and the API.
package services
