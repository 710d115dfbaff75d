// Package llm provides the text-generation client used by the recommendation
// pipeline and the chat session.
//
// # Request Shape
//
// Every call is {model, system instructions, single input text}. The reply is
// returned as free-form text; decoding it is the caller's job (see
// internal/llmjson).
//
// # Timeouts and Retries
//
// Each call runs under a fixed per-call timeout (15s by default). Transport
// failures (HTTP 408/429/5xx, timeouts) are retried with exponential backoff.
// Empty replies come back as "" without a retry. Prompt-level repair ("your JSON was invalid, try again")
// is not a transport retry and lives in the pipeline stages.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send system/input text, receive reply text.
// Client.HealthCheck: verify API key and model availability.
package llm
