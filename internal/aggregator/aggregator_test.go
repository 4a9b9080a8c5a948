package aggregator

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/models"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func floatPtr(v float64) *float64 { return &v }

func TestSummarize_Counts(t *testing.T) {
	results := []models.EvaluationResult{
		{Status: models.StatusScored, Score: 1.0, Usage: models.Usage{InputTokens: 100, OutputTokens: 20}},
		{Status: models.StatusScored, Score: 0.5, Usage: models.Usage{InputTokens: 110, OutputTokens: 25}},
		{Status: models.StatusFailed, Error: "schema violation"},
		{Status: models.StatusTimedOut, Error: "context deadline exceeded"},
	}

	agg := NewAggregator(newTestLogger())
	summary := agg.Summarize(results, nil)

	if summary.Total != 4 {
		t.Errorf("expected total 4, got %d", summary.Total)
	}
	if summary.Scored != 2 || summary.Failed != 1 || summary.TimedOut != 1 {
		t.Errorf("status counts wrong: %+v", summary)
	}
	if summary.MeanScore != 0.75 {
		t.Errorf("expected mean score 0.75 over scored items only, got %v", summary.MeanScore)
	}
	if summary.InputTokens != 210 || summary.OutputTokens != 45 {
		t.Errorf("token totals wrong: %+v", summary)
	}
}

func TestSummarize_Agreement(t *testing.T) {
	requests := []models.JudgementRequest{
		{EventID: "1", ExpectedScore: floatPtr(0)},
		{EventID: "2", ExpectedScore: floatPtr(0)},
		{EventID: "3"}, // no ground truth, excluded from agreement
	}
	results := []models.EvaluationResult{
		{EventID: "1", Status: models.StatusScored, Score: 0},   // agreement 1
		{EventID: "2", Status: models.StatusScored, Score: 0.5}, // agreement 0.5
		{EventID: "3", Status: models.StatusScored, Score: 1},
	}

	agg := NewAggregator(newTestLogger())
	summary := agg.Summarize(results, requests)

	if math.Abs(summary.MeanAgreement-0.75) > 1e-9 {
		t.Errorf("expected mean agreement 0.75, got %v", summary.MeanAgreement)
	}
}

func TestSummarize_Empty(t *testing.T) {
	agg := NewAggregator(newTestLogger())
	summary := agg.Summarize(nil, nil)

	if summary.Total != 0 || summary.MeanScore != 0 || summary.MeanAgreement != 0 {
		t.Errorf("empty batch must produce zero summary: %+v", summary)
	}
}

func TestSummarize_FailedItemsExcludedFromMeans(t *testing.T) {
	requests := []models.JudgementRequest{
		{EventID: "1", ExpectedScore: floatPtr(0)},
		{EventID: "2", ExpectedScore: floatPtr(0)},
	}
	results := []models.EvaluationResult{
		{EventID: "1", Status: models.StatusScored, Score: 0},
		{EventID: "2", Status: models.StatusFailed, Error: "boom"},
	}

	agg := NewAggregator(newTestLogger())
	summary := agg.Summarize(results, requests)

	if summary.MeanScore != 0 {
		t.Errorf("expected mean score 0, got %v", summary.MeanScore)
	}
	// Only the scored item contributes to agreement.
	if summary.MeanAgreement != 1 {
		t.Errorf("expected mean agreement 1, got %v", summary.MeanAgreement)
	}
}
