package dataset

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/mkrastev/veridict/internal/llm"
	"github.com/mkrastev/veridict/internal/models"
)

// fakeCompletionClient answers completion requests from a script.
type fakeCompletionClient struct {
	content string
	err     error
	prompts []string
}

func (f *fakeCompletionClient) InvokeModel(ctx context.Context, request llm.Request) (*llm.Response, error) {
	return f.invoke(request)
}

func (f *fakeCompletionClient) InvokeModelWithRetry(ctx context.Context, request llm.Request) (*llm.Response, error) {
	return f.invoke(request)
}

func (f *fakeCompletionClient) InvokeTool(ctx context.Context, request llm.ToolRequest) (*llm.ToolResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCompletionClient) InvokeToolWithRetry(ctx context.Context, request llm.ToolRequest) (*llm.ToolResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCompletionClient) invoke(request llm.Request) (*llm.Response, error) {
	f.prompts = append(f.prompts, request.Prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Content: f.content, StopReason: "end_turn"}, nil
}

func testItems() []models.EvaluationItem {
	return []models.EvaluationItem{
		{Question: "Where did she live?", ExpectedAnswer: "in a cottage", GeneratedAnswer: "in a cottage"},
		{Question: "Did the dog bark?", ExpectedAnswer: "Yes.", GeneratedAnswer: "Yes."},
		{Question: "What did the dog do?", ExpectedAnswer: "licked her face", GeneratedAnswer: "licked her face"},
	}
}

func TestNewGenerator_RequiresRand(t *testing.T) {
	if _, err := NewGenerator(&fakeCompletionClient{}, nil, newTestLogger()); err == nil {
		t.Fatal("expected error for nil random source")
	}
}

func TestGenerate_CorruptsAnswers(t *testing.T) {
	client := &fakeCompletionClient{content: "in a lighthouse by the sea"}
	generator, err := NewGenerator(client, rand.New(rand.NewSource(1)), newTestLogger())
	if err != nil {
		t.Fatalf("NewGenerator() failed: %v", err)
	}

	out, err := generator.Generate(context.Background(), testItems())
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	// The yes/no item is discarded, the other two are corrupted.
	if len(out) != 2 {
		t.Fatalf("expected 2 items, got %d", len(out))
	}
	for i, item := range out {
		if item.GeneratedAnswer != "in a lighthouse by the sea" {
			t.Errorf("item %d: generated answer not replaced: %q", i, item.GeneratedAnswer)
		}
		if item.ExpectedAnswer == item.GeneratedAnswer {
			t.Errorf("item %d: reference answer must stay untouched", i)
		}
	}
}

func TestGenerate_DiscardsTrivialAnswers(t *testing.T) {
	tests := []struct {
		answer  string
		trivial bool
	}{
		{answer: "yes", trivial: true},
		{answer: "Yes.", trivial: true},
		{answer: " NO ", trivial: true},
		{answer: "yes, every morning", trivial: false},
		{answer: "in a cottage", trivial: false},
	}

	for _, tt := range tests {
		if got := trivialAnswer(tt.answer); got != tt.trivial {
			t.Errorf("trivialAnswer(%q) = %v, want %v", tt.answer, got, tt.trivial)
		}
	}
}

func TestGenerate_DeterministicUnderSeed(t *testing.T) {
	items := testItems()

	run := func() []string {
		client := &fakeCompletionClient{content: "corrupted"}
		generator, err := NewGenerator(client, rand.New(rand.NewSource(42)), newTestLogger())
		if err != nil {
			t.Fatalf("NewGenerator() failed: %v", err)
		}
		if _, err := generator.Generate(context.Background(), items); err != nil {
			t.Fatalf("Generate() failed: %v", err)
		}
		return client.prompts
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("prompt counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("prompt %d differs under the same seed", i)
		}
	}
}

func TestGenerate_DropsFailedItems(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("model unavailable")}
	generator, err := NewGenerator(client, rand.New(rand.NewSource(1)), newTestLogger())
	if err != nil {
		t.Fatalf("NewGenerator() failed: %v", err)
	}

	out, err := generator.Generate(context.Background(), testItems())
	if err != nil {
		t.Fatalf("Generate() must not abort on per-item failures: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected 0 surviving items, got %d", len(out))
	}
}

func TestGenerate_DropsEmptyCorruptions(t *testing.T) {
	client := &fakeCompletionClient{content: "   "}
	generator, err := NewGenerator(client, rand.New(rand.NewSource(1)), newTestLogger())
	if err != nil {
		t.Fatalf("NewGenerator() failed: %v", err)
	}

	out, err := generator.Generate(context.Background(), testItems())
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("blank corruptions must be dropped, got %d items", len(out))
	}
}
