package llm

import (
	"context"
)

// Client is an interface for invoking LLM models.
// This allows mocking in tests without making real API calls.
//
// InvokeTool issues a completion constrained to call the given tool; the
// WithRetry variants apply the provider's retry policy to transient
// transport failures only.
type Client interface {
	InvokeModel(ctx context.Context, request Request) (*Response, error)
	InvokeModelWithRetry(ctx context.Context, request Request) (*Response, error)
	InvokeTool(ctx context.Context, request ToolRequest) (*ToolResponse, error)
	InvokeToolWithRetry(ctx context.Context, request ToolRequest) (*ToolResponse, error)
}
