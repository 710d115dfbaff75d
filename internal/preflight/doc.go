// Package preflight provides readiness checks for the remote services and the
// cache that playmate depends on.
//
// These checks run in two contexts:
//   - "playmate serve" calls RunAll at startup and logs every failure so an
//     operator sees a bad key before the first request does.
//   - "playmate preflight" renders the results as a table and exits non-zero
//     when any check fails.
//
// Services without a configured key are reported as failed with a hint rather
// than skipped, since every command depends on at least one of them.
package preflight
