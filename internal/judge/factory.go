package judge

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/config"
	"github.com/mkrastev/veridict/internal/llm"
	"github.com/mkrastev/veridict/internal/schema"
	"github.com/mkrastev/veridict/internal/score"
)

var ErrJudgeNotFound = errors.New("judge not found")

// Entry pairs a judge with the score mapper derived from its configuration.
type Entry struct {
	Judge  Judge
	Mapper *score.Mapper
}

// Factory looks up judges (and their mappers) by name.
type Factory struct {
	entries map[string]Entry
	def     string
}

// NewFactory builds every enabled judge from configuration. The first
// enabled discrete judge becomes the default, falling back to the first
// enabled judge: discrete-with-rationale is the recommended mode.
func NewFactory(cfg *config.JudgesConfig, llmClient llm.Client, logger *zerolog.Logger) (*Factory, error) {
	pool := NewPool(llmClient, logger)
	judges, err := pool.BuildFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]config.JudgeConfiguration, len(cfg.Judges.Evaluators))
	for _, judgeCfg := range cfg.Judges.Evaluators {
		byName[judgeCfg.Name] = judgeCfg
	}

	entries := make(map[string]Entry, len(judges))
	def := ""
	for _, j := range judges {
		judgeCfg := byName[j.Name()]

		mapper, err := score.NewMapper(judgeCfg.Schema, score.Mapping(judgeCfg.Mapping))
		if err != nil {
			return nil, fmt.Errorf("judge %s: %w", j.Name(), err)
		}

		entries[j.Name()] = Entry{Judge: j, Mapper: mapper}

		if def == "" || (judgeCfg.Schema.Kind == schema.KindDiscrete && byName[def].Schema.Kind != schema.KindDiscrete) {
			def = j.Name()
		}
	}

	logger.Info().
		Int("judge_count", len(entries)).
		Str("default", def).
		Msg("judge factory initialized from config")

	return &Factory{entries: entries, def: def}, nil
}

func (f *Factory) Get(judgeName string) (Entry, error) {
	entry, ok := f.entries[judgeName]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrJudgeNotFound, judgeName)
	}
	return entry, nil
}

// Default returns the name of the recommended judge.
func (f *Factory) Default() string {
	return f.def
}

// Names lists every registered judge.
func (f *Factory) Names() []string {
	names := make([]string, 0, len(f.entries))
	for name := range f.entries {
		names = append(names, name)
	}
	return names
}
