package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkrastev/veridict/internal/dataset"
	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/runner"
	"github.com/mkrastev/veridict/internal/setup"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input JSONL file, or '-' for stdin")
	output := flag.String("output", "", "Output file (default: stdout)")
	format := flag.String("format", "jsonl", "Output format. Supported formats: 'jsonl', 'summary'")
	workers := flag.Int("workers", 5, "Concurrent judge invocations")
	judgeName := flag.String("judge", "", "Judge to run (default: config default)")
	timeout := flag.Duration("timeout", 60*time.Second, "Per-item judge timeout")
	dryRun := flag.Bool("dry-run", false, "Validate input without evaluating")
	validate := flag.Bool("validate", false, "Meta-evaluation mode: score agreement against expected scores")
	expectedScore := flag.Float64("expected-score", 0, "Expected score for records without one (hallucinated datasets expect 0)")
	agreementThreshold := flag.Float64("agreement-threshold", 0.7, "Minimum mean agreement for validation to pass")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}
	formatValidator(format)

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Open input file
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	// Read records
	reader := dataset.NewReader(inputFile, deps.Logger)
	recordsCh := reader.ReadAll(ctx)

	var records []dataset.InputRecord
	for record := range recordsCh {
		records = append(records, record)
	}

	log.Info().Int("total", len(records)).Msg("Input file parsed")

	// Dry run validation
	if *dryRun {
		dryRunAndExit(records)
	}

	requests := collectRequests(records)

	// Resolve the judge and build a pipeline honoring the CLI flags.
	name := *judgeName
	if name == "" {
		name = deps.Factory.Default()
	}
	entry, err := deps.Factory.Get(name)
	if err != nil {
		log.Fatal().Err(err).Str("judge", name).Msg("Unknown judge")
	}
	pipeline := runner.New(entry.Judge, entry.Mapper, *workers, *timeout, deps.Logger)

	log.Info().
		Str("judge", name).
		Int("workers", *workers).
		Dur("timeout", *timeout).
		Int("items", len(requests)).
		Msg("Starting batch evaluation")

	// Validation mode
	if *validate {
		runValidationMode(ctx, requests, pipeline, deps, *expectedScore, *agreementThreshold)
		return
	}

	results := pipeline.Run(ctx, requests)
	summary := deps.Aggregator.Summarize(results, requests)

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	switch *format {
	case "jsonl":
		encoder := json.NewEncoder(outputFile)
		for _, result := range results {
			if err := encoder.Encode(result); err != nil {
				log.Error().Err(err).Str("event_id", result.EventID).Msg("Failed to write result")
			}
		}
	case "summary":
		encoded, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to marshal summary")
		}
		fmt.Fprintln(outputFile, string(encoded))
	}

	log.Info().
		Int("scored", summary.Scored).
		Int("failed", summary.Failed).
		Int("timed_out", summary.TimedOut).
		Float64("mean_score", summary.MeanScore).
		Dur("duration", time.Since(startTime)).
		Msg("Batch processing complete")
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func formatValidator(format *string) {
	validFormats := map[string]bool{"jsonl": true, "summary": true}
	if !validFormats[*format] {
		log.Fatal().
			Str("format", *format).
			Msg("Invalid format. Supported: jsonl, summary")
	}
}

func dryRunAndExit(records []dataset.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}

func collectRequests(records []dataset.InputRecord) []models.JudgementRequest {
	var requests []models.JudgementRequest
	for _, record := range records {
		if record.Error != nil {
			log.Warn().Int("line", record.LineNumber).Err(record.Error).Msg("Skipping malformed record")
			continue
		}
		requests = append(requests, record.Request)
	}
	return requests
}

// runValidationMode scores the whole dataset and compares against known
// expected scores. Used to compare judge variants on hallucinated datasets
// where every item has a known ground truth.
func runValidationMode(
	ctx context.Context,
	requests []models.JudgementRequest,
	pipeline *runner.Runner,
	deps *setup.Dependencies,
	defaultExpected float64,
	threshold float64,
) {
	log.Info().Msg("Validation mode enabled")

	// Records without an explicit expected score inherit the default.
	for i := range requests {
		if requests[i].ExpectedScore == nil {
			expected := defaultExpected
			requests[i].ExpectedScore = &expected
		}
	}

	results := pipeline.Run(ctx, requests)
	summary := deps.Aggregator.Summarize(results, requests)

	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal validation summary")
	}
	fmt.Println(string(encoded))

	if summary.Scored == 0 {
		log.Fatal().Msg("Validation failed: no items were scored")
	}

	if summary.MeanAgreement < threshold {
		log.Error().
			Float64("mean_agreement", summary.MeanAgreement).
			Float64("threshold", threshold).
			Msg("Validation failed: agreement below threshold")
		log.Error().Msg("Review configs/judges.yaml prompts and re-run validation")
		os.Exit(1)
	}

	log.Info().
		Float64("mean_agreement", summary.MeanAgreement).
		Float64("threshold", threshold).
		Msg("Judge validated against expected scores")
}
