package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/mkrastev/veridict/internal/llm"
)

var anthropicVersion = "bedrock-2023-05-31"

type claudeMessageRequest struct {
	AnthropicVersion string            `json:"anthropic_version"`
	MaxTokens        int               `json:"max_tokens"`
	Temperature      float64           `json:"temperature"`
	Messages         []claudeMessage   `json:"messages"`
	Tools            []claudeTool      `json:"tools,omitempty"`
	ToolChoice       *claudeToolChoice `json:"tool_choice,omitempty"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// claudeToolChoice with Type "tool" forces the named tool; the model cannot
// answer in prose.
type claudeToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type claudeContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type claudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type claudeMessageResponse struct {
	Content    []claudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason"`
	Usage      claudeUsage          `json:"usage"`
}

func (c *Client) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        request.MaxTokens,
		Temperature:      request.Temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: request.Prompt},
		},
	}

	response, err := c.invoke(ctx, payload)
	if err != nil {
		return nil, err
	}

	var content string
	for _, block := range response.Content {
		if block.Type == "text" {
			content = block.Text
			break
		}
	}

	return &llm.Response{
		Content:    content,
		StopReason: response.StopReason,
		Usage:      llm.Usage{InputTokens: response.Usage.InputTokens, OutputTokens: response.Usage.OutputTokens},
	}, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.Request) (*llm.Response, error) {
	return llm.Retry(ctx, c.Retry, func() (*llm.Response, error) {
		return c.InvokeModel(ctx, request)
	})
}

func (c *Client) InvokeTool(ctx context.Context, request llm.ToolRequest) (*llm.ToolResponse, error) {
	payload := claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        request.MaxTokens,
		Temperature:      request.Temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: request.Prompt},
		},
		Tools: []claudeTool{
			{
				Name:        request.Tool.Name,
				Description: request.Tool.Description,
				InputSchema: request.Tool.InputSchema,
			},
		},
		ToolChoice: &claudeToolChoice{Type: "tool", Name: request.Tool.Name},
	}

	response, err := c.invoke(ctx, payload)
	if err != nil {
		return nil, err
	}

	toolResponse := &llm.ToolResponse{
		StopReason: response.StopReason,
		Usage:      llm.Usage{InputTokens: response.Usage.InputTokens, OutputTokens: response.Usage.OutputTokens},
	}
	for _, block := range response.Content {
		if block.Type == "tool_use" {
			toolResponse.Calls = append(toolResponse.Calls, llm.ToolCall{
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}

	return toolResponse, nil
}

func (c *Client) InvokeToolWithRetry(ctx context.Context, request llm.ToolRequest) (*llm.ToolResponse, error) {
	return llm.Retry(ctx, c.Retry, func() (*llm.ToolResponse, error) {
		return c.InvokeTool(ctx, request)
	})
}

func (c *Client) invoke(ctx context.Context, payload claudeMessageRequest) (*claudeMessageResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize claude request: %w", err)
	}

	output, err := c.Client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.ModelID,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, llm.Classify(fmt.Errorf("unable to invoke claude model: %w", err))
	}

	var response claudeMessageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bedrock response: %w", err)
	}

	return &response, nil
}
