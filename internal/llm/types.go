package llm

import "encoding/json"

// Request is a plain completion request.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response is a plain completion response.
type Response struct {
	Content    string
	StopReason string
	Usage      Usage
}

// Usage reports token consumption for one invocation.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Tool describes the single callable function the model is forced to invoke.
// InputSchema is a JSON-schema object encoding the verdict domain.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// ToolRequest is a completion request with a forced tool invocation.
type ToolRequest struct {
	Request
	Tool Tool
}

// ToolCall is one tool invocation returned by the model. Arguments is the
// raw JSON argument object, parsed and validated by the caller.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// ToolResponse carries every tool invocation present in the model response.
// The judging contract demands exactly one call; enforcing that is the
// caller's job, so all calls are surfaced here.
type ToolResponse struct {
	Calls      []ToolCall
	StopReason string
	Usage      Usage
}
