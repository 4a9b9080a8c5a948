package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/mkrastev/veridict/internal/schema"
	"github.com/mkrastev/veridict/internal/score"
)

func LoadJudgesConfig() (*JudgesConfig, error) {
	path := os.Getenv("JUDGES_CONFIG_PATH")
	if path == "" {
		path = "configs/judges.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg JudgesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *JudgesConfig) {
	if cfg.Judges.DefaultModel.MaxTokens == 0 {
		cfg.Judges.DefaultModel.MaxTokens = 256
	}

	for i := range cfg.Judges.Evaluators {
		judge := &cfg.Judges.Evaluators[i]
		if judge.Model == nil {
			model := cfg.Judges.DefaultModel
			judge.Model = &model
		} else if judge.Model.MaxTokens == 0 {
			judge.Model.MaxTokens = cfg.Judges.DefaultModel.MaxTokens
		}
	}
}

// Validate rejects configuration errors before any judge is built: invalid
// descriptors and partial mapping tables must never reach the network.
func (c *JudgesConfig) Validate() error {
	enabled := 0
	seen := make(map[string]bool)

	for _, judge := range c.Judges.Evaluators {
		if judge.Name == "" {
			return fmt.Errorf("judge with empty name")
		}
		if seen[judge.Name] {
			return fmt.Errorf("duplicate judge name %q", judge.Name)
		}
		seen[judge.Name] = true

		if !judge.Enabled {
			continue
		}
		enabled++

		if err := judge.Schema.Validate(); err != nil {
			return fmt.Errorf("judge %q: %w", judge.Name, err)
		}

		if judge.Schema.Kind == schema.KindDiscrete {
			// NewMapper checks the table is total over the alphabet.
			if _, err := score.NewMapper(judge.Schema, score.Mapping(judge.Mapping)); err != nil {
				return fmt.Errorf("judge %q: %w", judge.Name, err)
			}
		}
	}

	if enabled == 0 {
		return fmt.Errorf("no enabled judges found in config")
	}

	return nil
}
