package judge

import (
	"context"

	"github.com/mkrastev/veridict/internal/llm"
	"github.com/mkrastev/veridict/internal/models"
)

// Judgement is the outcome of one judge invocation.
type Judgement struct {
	Verdict models.JudgeVerdict
	Usage   llm.Usage
}

// Judge issues one structured-output invocation per item and returns the
// validated verdict. Errors follow the llm/schema taxonomy: transport
// failures are retried internally when configured, schema violations are
// surfaced to the caller.
type Judge interface {
	Name() string
	Judge(ctx context.Context, item models.EvaluationItem) (*Judgement, error)
}
