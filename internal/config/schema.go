package config

import (
	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/schema"
)

// JudgesConfig is the root of configs/judges.yaml.
type JudgesConfig struct {
	Judges JudgesSection `yaml:"judges"`
}

type JudgesSection struct {
	DefaultModel ModelConfig          `yaml:"default_model"`
	Evaluators   []JudgeConfiguration `yaml:"evaluators"`
}

// ModelConfig carries per-judge decoding parameters.
type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}

// JudgeConfiguration defines one judge variant: its prompt template, the
// response schema it forces, and (for discrete judges) the score table.
type JudgeConfiguration struct {
	Name        string `yaml:"name"`
	Enabled     bool   `yaml:"enabled"`
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt"`

	Schema  schema.Descriptor           `yaml:"schema"`
	Mapping map[models.Relation]float64 `yaml:"mapping"`

	// ReaskOnViolation allows a single automatic re-ask when the model
	// breaks the schema contract. Off by default: a violation means the
	// remote model deviated from an explicit contract.
	ReaskOnViolation bool `yaml:"reask_on_violation"`

	Model *ModelConfig `yaml:"model"`
}
