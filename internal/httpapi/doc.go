// Package httpapi exposes the recommendation pipeline, direct mode, the movie
// quiz and chat over a small JSON API.
//
// Routes live under /api and accept JSON bodies validated with
// go-playground/validator. When a token is configured every /api route requires
// "Authorization: Bearer <token>". /healthz and /metrics stay open so probes and
// scrapers work without credentials.
package httpapi
