package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestReader_InvalidFile(t *testing.T) {
	file := strings.NewReader("invalid file content")

	reader := NewReader(file, newTestLogger())
	ctx := context.Background()
	ch := reader.ReadAll(ctx)

	for record := range ch {
		if record.Error == nil {
			t.Errorf("expected parse error for invalid JSON, but got none")
		}
	}
}

func TestReader_ValidFile(t *testing.T) {
	inputFile := `{"event_id":"1","item":{"question":"Where did she live?","expected_answer":"in a cottage","generated_answer":"in a barn"}}
{"event_id":"2","judge":"rating","item":{"question":"What did the dog do?","expected_answer":"licked her face","generated_answer":"licked her face"}}`

	file := strings.NewReader(inputFile)

	ctx := context.Background()
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(ctx)
	count := 0
	for record := range ch {
		count += 1
		if record.Error != nil {
			t.Errorf("Error reading the judgement request record. Got: %s", record.Error)
		}
	}
	if count != 2 {
		t.Errorf("Expected 2 judgement request messages. Got: %d", count)
	}
}

func TestReader_ContextCancellation(t *testing.T) {
	// Large input with many lines
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines,
			`{"event_id":"1","item":{"question":"q","expected_answer":"a","generated_answer":"b"}}`)
	}
	file := strings.NewReader(strings.Join(lines, "\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(ctx)
	count := 0
	for range ch {
		count++
		if count == 5 {
			cancel() // Cancel after 5 records
			break
		}
	}

	// Should have stopped early
	if count >= 100 {
		t.Errorf("expected early cancellation, but read all records")
	}
}

func TestReader_LineNumbers(t *testing.T) {
	inputFile := `{"event_id":"1","item":{"question":"q1","expected_answer":"a1","generated_answer":"g1"}}

{"invalid json}
{"event_id":"2","item":{"question":"q2","expected_answer":"a2","generated_answer":"g2"}}`

	file := strings.NewReader(inputFile)
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(context.Background())
	records := []InputRecord{}
	for record := range ch {
		records = append(records, record)
	}

	// Blank line is skipped, line numbers are preserved
	if records[0].LineNumber != 1 {
		t.Errorf("first record should be line 1, got %d", records[0].LineNumber)
	}
	if records[1].LineNumber != 3 {
		t.Errorf("error record should be line 3, got %d", records[1].LineNumber)
	}
	if records[2].LineNumber != 4 {
		t.Errorf("third record should be line 4, got %d", records[2].LineNumber)
	}
	if records[1].Error == nil {
		t.Error("malformed line must carry an error")
	}
}

func TestReader_ExpectedScore(t *testing.T) {
	inputFile := `{"event_id":"1","item":{"question":"q","expected_answer":"a","generated_answer":"b"},"expected_score":0}`

	reader := NewReader(strings.NewReader(inputFile), newTestLogger())
	ch := reader.ReadAll(context.Background())

	for record := range ch {
		if record.Error != nil {
			t.Fatalf("unexpected error: %v", record.Error)
		}
		if record.Request.ExpectedScore == nil {
			t.Fatal("expected_score not decoded")
		}
		if *record.Request.ExpectedScore != 0 {
			t.Errorf("expected score 0, got %v", *record.Request.ExpectedScore)
		}
	}
}
