package recommend

import (
	"context"
	"fmt"
	"log/slog"

	"playmate/internal/llmjson"
	"playmate/internal/logging"
)

// DirectCount is the number of picks a direct recommendation returns.
const DirectCount = 5

// DirectPick is one catalog-free recommendation.
type DirectPick struct {
	Title          string   `json:"title"`
	Genre          string   `json:"genre"`
	Platforms      []string `json:"platforms"`
	PriceRangeKRW  string   `json:"price_range_krw"`
	StoreHint      string   `json:"store_hint"`
	WhyRecommended string   `json:"why_recommended"`
	FitEmotions    []string `json:"fit_emotions"`
	TimeFit        string   `json:"time_fit"`
	CautionOrNote  string   `json:"caution_or_note"`
}

// DirectResult is the full direct recommendation reply.
type DirectResult struct {
	Recommendations []DirectPick `json:"recommendations"`
	Summary         string       `json:"summary"`
	PriceDisclaimer string       `json:"price_disclaimer"`
}

// DefaultPriceDisclaimer is shown when the reply leaves price_disclaimer empty.
const DefaultPriceDisclaimer = "가격은 스토어/지역/세일에 따라 달라질 수 있어요. 구매 전 스토어에서 확인하세요."

// Direct asks the text generator for picks without checking the catalog.
type Direct struct {
	llm    TextGenerator
	logger *slog.Logger
}

// NewDirect constructs a Direct recommender.
func NewDirect(llm TextGenerator, logger *slog.Logger) *Direct {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Direct{llm: llm, logger: logging.NewComponentLogger(logger, "direct")}
}

// Recommend returns exactly DirectCount picks. A first reply that does not
// decode or has the wrong count gets one corrective call.
func (d *Direct) Recommend(ctx context.Context, profileText string) (*DirectResult, error) {
	system := AdvisorInstructions(profileText)
	reply, err := d.llm.Complete(ctx, system, directPrompt(profileText, DirectCount))
	if err != nil {
		return nil, &UpstreamError{Op: "direct", Err: err}
	}
	result, firstErr := parseDirect(reply)
	if firstErr == nil {
		return result, nil
	}

	logging.WarnWithContext(logging.WithContext(ctx, d.logger), "direct reply rejected; asking once more", "direct_repair",
		logging.Error(firstErr),
		logging.String(logging.FieldImpact, "one extra text-generation call"),
	)
	repaired, err := d.llm.Complete(ctx, system, directRepairPrompt(reply, DirectCount))
	if err != nil {
		return nil, &UpstreamError{Op: "direct repair", Err: err}
	}
	result, err = parseDirect(repaired)
	if err != nil {
		return nil, &SchemaError{Stage: "direct", Reason: fmt.Sprintf("model did not return %d valid recommendations", DirectCount), Err: err}
	}
	return result, nil
}

func parseDirect(text string) (*DirectResult, error) {
	var result DirectResult
	if err := llmjson.DecodeInto(text, &result); err != nil {
		return nil, err
	}
	if len(result.Recommendations) != DirectCount {
		return nil, &SchemaError{
			Stage:  "direct",
			Reason: fmt.Sprintf("got %d recommendations, want exactly %d", len(result.Recommendations), DirectCount),
		}
	}
	if result.PriceDisclaimer == "" {
		result.PriceDisclaimer = DefaultPriceDisclaimer
	}
	return &result, nil
}
