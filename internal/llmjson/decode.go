package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"playmate/internal/services"
)

const snippetLimit = 160

// DecodeError reports text that never produced a JSON object after every
// recovery attempt.
type DecodeError struct {
	Snippet string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode llm json: %v (payload snippet: %s)", e.Err, e.Snippet)
}

func (e *DecodeError) Unwrap() []error {
	return []error{services.ErrValidation, e.Err}
}

// Decode recovers a single JSON object from text produced by a text-generation
// service. Code fences and surrounding prose are tolerated; only the final
// parse failure is reported.
func Decode(text string) (map[string]any, error) {
	var obj map[string]any
	if err := DecodeInto(text, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, &DecodeError{Snippet: Snippet(text), Err: errors.New("payload is null")}
	}
	return obj, nil
}

// DecodeInto runs the same recovery steps as Decode but unmarshals into target.
func DecodeInto(text string, target any) error {
	s := stripFence(strings.TrimSpace(text))

	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end >= 0 {
		if start < end {
			if err := json.Unmarshal([]byte(strings.TrimSpace(s[start:end+1])), target); err == nil {
				return nil
			}
		}
	}

	if err := json.Unmarshal([]byte(s), target); err != nil {
		return &DecodeError{Snippet: Snippet(s), Err: err}
	}
	return nil
}

// stripFence removes a leading ``` fence (with an optional language tag on the
// same line) and a trailing fence when present.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimLeft(s, "`")
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		head := strings.TrimSpace(body[:idx])
		if !strings.ContainsAny(head, "{[") {
			body = body[idx+1:]
		}
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// Snippet collapses whitespace and truncates text for error messages and logs.
func Snippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	runes := []rune(clean)
	if len(runes) > snippetLimit {
		clean = string(runes[:snippetLimit]) + "..."
	}
	return clean
}
