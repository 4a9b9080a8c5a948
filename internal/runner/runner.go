//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
package runner

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mkrastev/veridict/internal/judge"
	"github.com/mkrastev/veridict/internal/models"
)

// Judge issues one structured judge invocation per item.
type Judge interface {
	Name() string
	Judge(ctx context.Context, item models.EvaluationItem) (*judge.Judgement, error)
}

// Mapper converts a validated verdict into a score in [0,1].
type Mapper interface {
	Map(verdict models.JudgeVerdict) (float64, error)
}

// Runner drives the format -> invoke -> map pipeline over a batch of
// items. Items run independently: no shared mutable state, no ordering
// guarantee among completions, and one item's failure never aborts the
// rest. Workers bounds the number of simultaneous in-flight invocations.
type Runner struct {
	judge   Judge
	mapper  Mapper
	workers int
	timeout time.Duration
	logger  *zerolog.Logger
}

const defaultWorkers = 10

func New(j Judge, m Mapper, workers int, timeout time.Duration, logger *zerolog.Logger) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Runner{
		judge:   j,
		mapper:  m,
		workers: workers,
		timeout: timeout,
		logger:  logger,
	}
}

// Run evaluates every request and returns one result per request, in input
// order. The result set is identical to sequential execution; only the
// completion order differs.
func (r *Runner) Run(ctx context.Context, requests []models.JudgementRequest) []models.EvaluationResult {
	results := make([]models.EvaluationResult, len(requests))

	g := new(errgroup.Group)
	g.SetLimit(r.workers)

	for i, request := range requests {
		g.Go(func() error {
			results[i] = r.Evaluate(ctx, request)
			return nil
		})
	}

	// Workers never return errors; failures live in the result slots.
	_ = g.Wait()

	return results
}

// Evaluate runs the pipeline for a single request.
func (r *Runner) Evaluate(ctx context.Context, request models.JudgementRequest) models.EvaluationResult {
	now := time.Now()

	result := models.EvaluationResult{
		EventID: request.EventID,
		Item:    request.Item,
	}

	itemCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	judgement, err := r.judge.Judge(itemCtx, request.Item)
	if err != nil {
		result.Duration = time.Since(now)
		result.Error = err.Error()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			// Abandoned invocations are a distinct outcome, not a
			// silent drop.
			result.Status = models.StatusTimedOut
		} else {
			result.Status = models.StatusFailed
		}
		r.logger.Error().
			Err(err).
			Str("event_id", request.EventID).
			Str("judge", r.judge.Name()).
			Str("status", string(result.Status)).
			Msg("evaluation failed")
		return result
	}

	mapped, err := r.mapper.Map(judgement.Verdict)
	if err != nil {
		result.Duration = time.Since(now)
		result.Status = models.StatusFailed
		result.Error = err.Error()
		result.Verdict = judgement.Verdict
		result.Usage = models.Usage(judgement.Usage)
		return result
	}

	result.Status = models.StatusScored
	result.Verdict = judgement.Verdict
	result.Score = mapped
	result.Usage = models.Usage(judgement.Usage)
	result.Duration = time.Since(now)

	r.logger.Info().
		Str("event_id", request.EventID).
		Str("judge", r.judge.Name()).
		Float64("score", result.Score).
		Dur("duration", result.Duration).
		Msg("evaluation complete")

	return result
}
