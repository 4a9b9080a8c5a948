package gpt

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/mkrastev/veridict/internal/llm"
)

func (c *Client) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(request.MaxTokens)),
		Temperature:         openai.Float(request.Temperature),
		Model:               openai.ChatModel(c.ModelID),
	}

	output, err := c.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, llm.Classify(fmt.Errorf("unable to invoke gpt model: %w", err))
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := output.Choices[0]
	return &llm.Response{
		Content:    choice.Message.Content,
		StopReason: fmt.Sprint(choice.FinishReason),
		Usage: llm.Usage{
			InputTokens:  int(output.Usage.PromptTokens),
			OutputTokens: int(output.Usage.CompletionTokens),
		},
	}, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.Request) (*llm.Response, error) {
	return llm.Retry(ctx, c.Retry, func() (*llm.Response, error) {
		return c.InvokeModel(ctx, request)
	})
}

func (c *Client) InvokeTool(ctx context.Context, request llm.ToolRequest) (*llm.ToolResponse, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		MaxCompletionTokens: openai.Int(int64(request.MaxTokens)),
		Temperature:         openai.Float(request.Temperature),
		Model:               openai.ChatModel(c.ModelID),
		Tools: []openai.ChatCompletionToolParam{
			{
				Function: openai.FunctionDefinitionParam{
					Name:        request.Tool.Name,
					Description: openai.String(request.Tool.Description),
					Parameters:  shared.FunctionParameters(request.Tool.InputSchema),
				},
			},
		},
		// Force the named function so the model cannot answer in prose.
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
					Name: request.Tool.Name,
				},
			},
		},
	}

	output, err := c.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, llm.Classify(fmt.Errorf("unable to invoke gpt model: %w", err))
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	choice := output.Choices[0]
	response := &llm.ToolResponse{
		StopReason: fmt.Sprint(choice.FinishReason),
		Usage: llm.Usage{
			InputTokens:  int(output.Usage.PromptTokens),
			OutputTokens: int(output.Usage.CompletionTokens),
		},
	}
	for _, call := range choice.Message.ToolCalls {
		response.Calls = append(response.Calls, llm.ToolCall{
			Name:      call.Function.Name,
			Arguments: json.RawMessage(call.Function.Arguments),
		})
	}

	return response, nil
}

func (c *Client) InvokeToolWithRetry(ctx context.Context, request llm.ToolRequest) (*llm.ToolResponse, error) {
	return llm.Retry(ctx, c.Retry, func() (*llm.ToolResponse, error) {
		return c.InvokeTool(ctx, request)
	})
}
