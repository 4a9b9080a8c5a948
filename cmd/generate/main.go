package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkrastev/veridict/internal/dataset"
	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/setup"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	passagesPath := flag.String("passages", "", "Passage dataset (JSON array)")
	output := flag.String("output", "", "Output JSONL file (default: stdout)")
	seed := flag.Int64("seed", 42, "Random seed for corruption strategy selection")
	limit := flag.Int("limit", 0, "Maximum number of items to generate (0: all)")
	flag.Parse()

	if *passagesPath == "" {
		log.Fatal().Msg("required flag -passages not provided")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()

	llmClient, err := setup.CreateLLMClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LLM client")
	}

	f, err := os.Open(*passagesPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *passagesPath).Msg("Failed to open passages file")
	}
	passages, err := dataset.LoadPassages(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load passages")
	}

	items := dataset.Flatten(passages)
	if *limit > 0 && len(items) > *limit {
		items = items[:*limit]
	}

	log.Info().
		Int("passages", len(passages)).
		Int("items", len(items)).
		Int64("seed", *seed).
		Msg("Generating hallucinated dataset")

	rng := rand.New(rand.NewSource(*seed))
	generator, err := dataset.NewGenerator(llmClient, rng, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create generator")
	}

	generated, err := generator.Generate(ctx, items)
	if err != nil {
		log.Fatal().Err(err).Msg("Generation aborted")
	}

	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
	} else {
		out, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer out.Close()
		outputFile = out
	}

	// Every generated item is a known hallucination: expected score 0.
	expected := 0.0
	encoder := json.NewEncoder(outputFile)
	for i, item := range generated {
		request := models.JudgementRequest{
			EventID:       fmt.Sprintf("gen-%04d", i+1),
			Item:          item,
			ExpectedScore: &expected,
		}
		if err := encoder.Encode(request); err != nil {
			log.Fatal().Err(err).Int("item", i).Msg("Failed to write item")
		}
	}

	log.Info().Int("written", len(generated)).Msg("Dataset generation complete")
}
