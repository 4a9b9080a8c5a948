package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/llm"
	"github.com/mkrastev/veridict/internal/models"
)

// Hallucination prompt variants. Each asks the model to corrupt the
// reference answer in a different way so the resulting dataset covers more
// than one failure shape.
var fabricationPrompts = []string{
	"Rewrite the following answer so that it adds one plausible but invented detail that is not supported by the original. Keep the rest of the answer intact. Reply with the rewritten answer only, no preamble.\n\nQuestion: %s\nAnswer: %s",
	"Rewrite the following answer so that it states the opposite of one key fact while staying fluent and confident. Reply with the rewritten answer only, no preamble.\n\nQuestion: %s\nAnswer: %s",
	"Rewrite the following answer replacing one named entity, number, or place with a different plausible one. Reply with the rewritten answer only, no preamble.\n\nQuestion: %s\nAnswer: %s",
}

const fabricationMaxTokens = 512

// Generator produces known-hallucinated evaluation items by asking a
// completion model to corrupt reference answers. The random source is
// injected so that dataset generation is reproducible under a fixed seed.
type Generator struct {
	llmClient llm.Client
	rng       *rand.Rand
	logger    *zerolog.Logger
}

func NewGenerator(llmClient llm.Client, rng *rand.Rand, logger *zerolog.Logger) (*Generator, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	return &Generator{
		llmClient: llmClient,
		rng:       rng,
		logger:    logger,
	}, nil
}

// trivialAnswer reports whether the reference answer collapses to a bare
// yes/no. Corrupting those produces degenerate items (the only possible
// corruption is flipping the answer), so they are dropped.
func trivialAnswer(answer string) bool {
	normalized := strings.ToLower(strings.TrimRight(strings.TrimSpace(answer), "."))
	return normalized == "yes" || normalized == "no"
}

// Generate corrupts each item's generated answer in place and returns the
// surviving items. Items whose reference answer is trivial are discarded;
// items whose corruption call fails are discarded with a warning rather than
// aborting the run.
func (g *Generator) Generate(ctx context.Context, items []models.EvaluationItem) ([]models.EvaluationItem, error) {
	var out []models.EvaluationItem

	for _, item := range items {
		if trivialAnswer(item.ExpectedAnswer) {
			g.logger.Debug().
				Str("question", item.Question).
				Msg("skipping yes/no answer, not worth corrupting")
			continue
		}

		variant := g.rng.Intn(len(fabricationPrompts))
		request := llm.Request{
			Prompt:    fmt.Sprintf(fabricationPrompts[variant], item.Question, item.ExpectedAnswer),
			MaxTokens: fabricationMaxTokens,
		}

		resp, err := g.llmClient.InvokeModelWithRetry(ctx, request)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			g.logger.Warn().
				Err(err).
				Str("question", item.Question).
				Msg("hallucination generation failed for item, dropping it")
			continue
		}

		corrupted := strings.TrimSpace(resp.Content)
		if corrupted == "" {
			g.logger.Warn().
				Str("question", item.Question).
				Msg("model returned empty corruption, dropping item")
			continue
		}

		item.GeneratedAnswer = corrupted
		out = append(out, item)
	}

	g.logger.Info().
		Int("input_items", len(items)).
		Int("generated_items", len(out)).
		Msg("hallucinated dataset generated")

	return out, nil
}
