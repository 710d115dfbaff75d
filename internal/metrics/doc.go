// Package metrics exposes Prometheus collectors for recommendation runs and
// the HTTP API. Recorder satisfies recommend.Recorder.
package metrics
