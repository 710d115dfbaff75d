package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"playmate/internal/llmjson"
	"playmate/internal/logging"
)

// Selection is one pick made by the text generator from the resolved facts.
type Selection struct {
	ID      int64  `json:"id"`
	Reason  string `json:"reason"`
	TimeFit string `json:"time_fit"`
	Caution string `json:"caution,omitempty"`
}

type compactFact struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Released   string   `json:"released,omitempty"`
	Genres     []string `json:"genres"`
	Platforms  []string `json:"platforms"`
	Rating     float64  `json:"rating,omitempty"`
	Metacritic *int     `json:"metacritic,omitempty"`
}

// Selector lets the text generator pick the facts it is confident about.
type Selector struct {
	llm    TextGenerator
	logger *slog.Logger
}

// NewSelector constructs a Selector.
func NewSelector(llm TextGenerator, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Selector{llm: llm, logger: logging.NewComponentLogger(logger, "selector")}
}

// Select returns the picks in the order the text generator listed them. Zero
// picks is a valid answer. A reply that does not decode gets exactly one
// corrective call.
func (s *Selector) Select(ctx context.Context, profileText string, facts []Fact) ([]Selection, error) {
	if len(facts) == 0 {
		return []Selection{}, nil
	}
	compact := make([]compactFact, 0, len(facts))
	ids := make([]int64, 0, len(facts))
	for _, f := range facts {
		compact = append(compact, compactFact{
			ID:         f.ID,
			Name:       f.Name,
			Released:   f.Released,
			Genres:     f.Genres,
			Platforms:  f.Platforms,
			Rating:     f.Rating,
			Metacritic: f.Metacritic,
		})
		ids = append(ids, f.ID)
	}
	factsJSON, err := json.Marshal(compact)
	if err != nil {
		return nil, fmt.Errorf("encode facts: %w", err)
	}

	reply, err := s.llm.Complete(ctx, jsonOnlyInstructions, selectionPrompt(profileText, string(factsJSON)))
	if err != nil {
		return nil, &UpstreamError{Op: "select", Err: err}
	}
	obj, decodeErr := llmjson.Decode(reply)
	if decodeErr != nil {
		logger := logging.WithContext(ctx, s.logger)
		logging.WarnWithContext(logger, "selection reply was not valid JSON; asking once more", "selection_repair",
			logging.String("snippet", llmjson.Snippet(reply)),
			logging.String(logging.FieldImpact, "one extra text-generation call"),
		)
		repaired, err := s.llm.Complete(ctx, jsonOnlyInstructions, selectionRepairPrompt(reply, ids))
		if err != nil {
			return nil, &UpstreamError{Op: "select repair", Err: err}
		}
		obj, decodeErr = llmjson.Decode(repaired)
		if decodeErr != nil {
			return nil, &SchemaError{Stage: "select", Reason: "reply still not valid JSON after repair", Err: decodeErr}
		}
	}

	raw, ok := obj["selected"].([]any)
	if !ok {
		return nil, &SchemaError{Stage: "select", Reason: fmt.Sprintf("selected is %T, want list", obj["selected"])}
	}

	selections := make([]Selection, 0, len(raw))
	for _, entry := range raw {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, ok := numericID(fields["id"])
		if !ok {
			continue
		}
		selections = append(selections, Selection{
			ID:      id,
			Reason:  stringField(fields, "reason"),
			TimeFit: stringField(fields, "time_fit"),
			Caution: stringField(fields, "caution"),
		})
	}
	return selections, nil
}

func numericID(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) || v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

func stringField(fields map[string]any, key string) string {
	value, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
