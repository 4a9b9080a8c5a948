package aggregator

import (
	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/score"
)

// Summary rolls a batch of evaluation results up into per-status counts and
// batch-level means. Failed and timed-out items count toward Total but are
// excluded from the score and agreement means.
type Summary struct {
	Total    int `json:"total"`
	Scored   int `json:"scored"`
	Failed   int `json:"failed"`
	TimedOut int `json:"timed_out"`

	MeanScore     float64 `json:"mean_score"`
	MeanAgreement float64 `json:"mean_agreement,omitempty"`

	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type Aggregator struct {
	logger *zerolog.Logger
}

func NewAggregator(logger *zerolog.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Summarize reduces results to a Summary. Requests supplies per-item
// expected scores for meta-evaluation runs; agreement for an item is
// 1 - |score - expected|. When no request carries an expected score the
// agreement mean stays zero.
func (a *Aggregator) Summarize(results []models.EvaluationResult, requests []models.JudgementRequest) Summary {
	summary := Summary{Total: len(results)}

	scoreSum := 0.0
	agreementSum := 0.0
	agreementCount := 0

	for i, result := range results {
		summary.InputTokens += result.Usage.InputTokens
		summary.OutputTokens += result.Usage.OutputTokens

		switch result.Status {
		case models.StatusScored:
			summary.Scored++
			scoreSum += result.Score
			if i < len(requests) && requests[i].ExpectedScore != nil {
				agreementSum += score.Agreement(result.Score, *requests[i].ExpectedScore)
				agreementCount++
			}
		case models.StatusTimedOut:
			summary.TimedOut++
		default:
			summary.Failed++
		}
	}

	if summary.Scored > 0 {
		summary.MeanScore = scoreSum / float64(summary.Scored)
	}
	if agreementCount > 0 {
		summary.MeanAgreement = agreementSum / float64(agreementCount)
	}

	a.logger.Info().
		Int("total", summary.Total).
		Int("scored", summary.Scored).
		Int("failed", summary.Failed).
		Int("timed_out", summary.TimedOut).
		Float64("mean_score", summary.MeanScore).
		Msg("aggregation complete")

	return summary
}
