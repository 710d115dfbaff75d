// Package llmjson recovers JSON objects from text-generation output.
//
// Models asked for "JSON only" still wrap replies in code fences or add a
// sentence before the object. Decode strips a leading fence, tries the
// outermost brace slice, then falls back to the raw text. A value that decodes
// but has the wrong shape is not an error here; callers validate shape
// immediately after decoding.
package llmjson
