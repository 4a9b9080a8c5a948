package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/runner"
)

// JudgeAnswerInput is the MCP tool input schema for judging one answer.
type JudgeAnswerInput struct {
	EventID         string `json:"event_id,omitempty" jsonschema:"unique event identifier"`
	Question        string `json:"question" jsonschema:"the question that was asked"`
	ExpectedAnswer  string `json:"expected_answer" jsonschema:"the reference answer"`
	GeneratedAnswer string `json:"generated_answer" jsonschema:"the answer under evaluation"`
	JudgeName       string `json:"judge_name,omitempty" jsonschema:"configured judge name; empty selects the default judge"`
}

// NewJudgeAnswerHandler returns a tool handler that resolves the named judge
// and runs the scoring pipeline for one answer. Pass the returned function
// to mcp.AddTool.
func NewJudgeAnswerHandler(registry *runner.Registry) func(context.Context, *mcp.CallToolRequest, JudgeAnswerInput) (*mcp.CallToolResult, models.EvaluationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input JudgeAnswerInput) (*mcp.CallToolResult, models.EvaluationResult, error) {
		return JudgeAnswer(ctx, registry, req, input)
	}
}

// JudgeAnswer runs one judgement and returns its result.
func JudgeAnswer(
	ctx context.Context,
	registry *runner.Registry,
	req *mcp.CallToolRequest,
	input JudgeAnswerInput,
) (*mcp.CallToolResult, models.EvaluationResult, error) {
	pipeline, err := registry.Resolve(input.JudgeName)
	if err != nil {
		return nil, models.EvaluationResult{}, err
	}

	request := models.JudgementRequest{
		EventID: input.EventID,
		Judge:   input.JudgeName,
		Item: models.EvaluationItem{
			Question:        input.Question,
			ExpectedAnswer:  input.ExpectedAnswer,
			GeneratedAnswer: input.GeneratedAnswer,
		},
	}

	result := pipeline.Evaluate(ctx, request)
	return nil, result, nil
}
