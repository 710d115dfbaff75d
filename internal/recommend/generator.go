package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"playmate/internal/llmjson"
	"playmate/internal/logging"
)

// TextGenerator sends system instructions plus one input text and returns the
// raw reply.
type TextGenerator interface {
	Complete(ctx context.Context, systemPrompt, input string) (string, error)
}

// Generator asks the text generator for candidate titles.
type Generator struct {
	llm    TextGenerator
	logger *slog.Logger
}

// NewGenerator constructs a Generator.
func NewGenerator(llm TextGenerator, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{llm: llm, logger: logging.NewComponentLogger(logger, "generator")}
}

// Generate returns up to n distinct candidate names. The reply must list
// exactly n entries; anything else is a SchemaError. There is no retry.
func (g *Generator) Generate(ctx context.Context, profileText string, n int) ([]string, error) {
	if n <= 0 {
		return nil, &SchemaError{Stage: "generate", Reason: fmt.Sprintf("candidate count must be positive, got %d", n)}
	}
	reply, err := g.llm.Complete(ctx, jsonOnlyInstructions, candidatePrompt(profileText, n))
	if err != nil {
		return nil, &UpstreamError{Op: "generate", Err: err}
	}

	obj, err := llmjson.Decode(reply)
	if err != nil {
		return nil, err
	}
	raw, ok := obj["candidates"]
	if !ok {
		return nil, &SchemaError{Stage: "generate", Reason: "missing candidates", Snippet: llmjson.Snippet(reply)}
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &SchemaError{Stage: "generate", Reason: fmt.Sprintf("candidates is %T, want list", raw), Snippet: llmjson.Snippet(reply)}
	}
	if len(list) != n {
		return nil, &SchemaError{Stage: "generate", Reason: fmt.Sprintf("got %d candidates, want exactly %d", len(list), n)}
	}

	names := make([]string, 0, len(list))
	for i, entry := range list {
		name, ok := entry.(string)
		if !ok {
			return nil, &SchemaError{Stage: "generate", Reason: fmt.Sprintf("candidate %d is %T, want string", i, entry)}
		}
		names = append(names, name)
	}

	candidates := dedupeNames(names, n)
	g.logger.Debug("candidates generated",
		logging.Args(
			logging.Int("requested", n),
			logging.Int("kept", len(candidates)),
		)...,
	)
	return candidates, nil
}

// dedupeNames trims, drops empties and removes case-insensitive repeats,
// keeping the first spelling seen.
func dedupeNames(names []string, limit int) []string {
	folder := cases.Fold()
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := folder.String(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}
