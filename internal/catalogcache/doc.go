// Package catalogcache keeps catalog lookups (game search, game detail, movie
// discovery) for a bounded time so repeated recommendation runs do not hit the
// remote catalogs again.
//
// Entries are keyed by namespace plus a key built from a hash of the service
// credential and the query, so the credential itself is never stored. There is
// no invalidation beyond expiry; `playmate cache clear` and `playmate cache prune`
// are the manual escape hatches.
//
// Backends: SQLite (default, single file), Redis (shared between instances) and
// an in-process map used by tests and `backend = "memory"`.
package catalogcache
