package recommend

import (
	"context"
	"errors"
	"testing"

	"playmate/internal/llmjson"
	"playmate/internal/services"
)

func TestGenerateReturnsExactlyN(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"```json\n{\"candidates\": [\"Hades\", \"Celeste\", \"Stardew Valley\"]}\n```"}}
	got, err := NewGenerator(llm, nil).Generate(context.Background(), "profile", 3)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := []string{"Hades", "Celeste", "Stardew Valley"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestGenerateRejectsWrongCount(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"n-1", `{"candidates": ["A", "B"]}`},
		{"n+1", `{"candidates": ["A", "B", "C", "D"]}`},
		{"missing", `{"games": ["A", "B", "C"]}`},
		{"not a list", `{"candidates": "A, B, C"}`},
		{"non-string entry", `{"candidates": ["A", 2, "C"]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			llm := &scriptedLLM{replies: []string{tc.reply}}
			_, err := NewGenerator(llm, nil).Generate(context.Background(), "profile", 3)
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation marker on %v", err)
			}
			if llm.calls() != 1 {
				t.Fatalf("generator must not retry, got %d calls", llm.calls())
			}
		})
	}
}

func TestGenerateDeduplicatesCaseInsensitively(t *testing.T) {
	llm := &scriptedLLM{replies: []string{`{"candidates": [" Hades ", "hades", "", "CELESTE", "Celeste"]}`}}
	got, err := NewGenerator(llm, nil).Generate(context.Background(), "profile", 5)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != 2 || got[0] != "Hades" || got[1] != "CELESTE" {
		t.Fatalf("unexpected candidates %q", got)
	}
}

func TestGenerateDecodeFailure(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"I cannot help with that."}}
	_, err := NewGenerator(llm, nil).Generate(context.Background(), "profile", 3)
	var decodeErr *llmjson.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestGenerateUpstreamFailure(t *testing.T) {
	llm := &scriptedLLM{errs: []error{errors.New("connection reset")}}
	_, err := NewGenerator(llm, nil).Generate(context.Background(), "profile", 3)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestGenerateRejectsNonPositiveCount(t *testing.T) {
	llm := &scriptedLLM{}
	_, err := NewGenerator(llm, nil).Generate(context.Background(), "profile", 0)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if llm.calls() != 0 {
		t.Fatalf("expected no calls, got %d", llm.calls())
	}
}
