package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/schema"
)

const testConfig = `judges:
  default_model:
    max_tokens: 256
    temperature: 0.0
    retry: true

  evaluators:
    - name: relation
      enabled: true
      description: "Discrete judge"
      prompt: |
        Q: {{.Question}}
        Ref: {{.ExpectedAnswer}}
        Gen: {{.GeneratedAnswer}}
      schema:
        kind: discrete
        alphabet: [subset, superset, exact, conflict, immaterial]
        with_rationale: true
      mapping:
        subset: 0.5
        superset: 0
        exact: 1
        conflict: 0
        immaterial: 1
      reask_on_violation: true

    - name: rating
      enabled: true
      description: "Numeric judge"
      prompt: |
        Q: {{.Question}}
        Ref: {{.ExpectedAnswer}}
        Gen: {{.GeneratedAnswer}}
      schema:
        kind: numeric
        min: 1
        max: 10
      model:
        max_tokens: 128
`

func writeConfig(t *testing.T, content string) {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "judges.yaml")

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	os.Setenv("JUDGES_CONFIG_PATH", configPath)
	t.Cleanup(func() { os.Unsetenv("JUDGES_CONFIG_PATH") })
}

func TestLoadJudgesConfig_Success(t *testing.T) {
	writeConfig(t, testConfig)

	cfg, err := LoadJudgesConfig()
	if err != nil {
		t.Fatalf("LoadJudgesConfig() failed: %v", err)
	}

	if len(cfg.Judges.Evaluators) != 2 {
		t.Errorf("Expected 2 evaluators, got %d", len(cfg.Judges.Evaluators))
	}

	relation := cfg.Judges.Evaluators[0]
	if relation.Name != "relation" {
		t.Errorf("Expected judge name 'relation', got '%s'", relation.Name)
	}
	if relation.Schema.Kind != schema.KindDiscrete {
		t.Errorf("Expected discrete schema, got %q", relation.Schema.Kind)
	}
	if len(relation.Schema.Alphabet) != 5 {
		t.Errorf("Expected 5 alphabet symbols, got %d", len(relation.Schema.Alphabet))
	}
	if !relation.ReaskOnViolation {
		t.Error("Expected reask_on_violation=true")
	}
	if relation.Mapping[models.RelationSuperset] != 0 {
		t.Errorf("Expected superset mapped to 0, got %v", relation.Mapping[models.RelationSuperset])
	}

	// Model should be populated with defaults
	if relation.Model == nil {
		t.Fatal("Expected relation.Model to be populated with defaults")
	}
	if relation.Model.MaxTokens != 256 {
		t.Errorf("Expected relation max_tokens=256 (default), got %d", relation.Model.MaxTokens)
	}
	if !relation.Model.Retry {
		t.Error("Expected relation retry=true (default)")
	}

	rating := cfg.Judges.Evaluators[1]
	if rating.Schema.Kind != schema.KindNumeric {
		t.Errorf("Expected numeric schema, got %q", rating.Schema.Kind)
	}
	if rating.Schema.Min != 1 || rating.Schema.Max != 10 {
		t.Errorf("Expected bounds [1,10], got [%d,%d]", rating.Schema.Min, rating.Schema.Max)
	}

	// Check model override was applied
	if rating.Model.MaxTokens != 128 {
		t.Errorf("Expected rating max_tokens=128, got %d", rating.Model.MaxTokens)
	}
}

func TestLoadJudgesConfig_MissingFile(t *testing.T) {
	os.Setenv("JUDGES_CONFIG_PATH", "/nonexistent/judges.yaml")
	defer os.Unsetenv("JUDGES_CONFIG_PATH")

	if _, err := LoadJudgesConfig(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadJudgesConfig_PartialMapping(t *testing.T) {
	writeConfig(t, `judges:
  evaluators:
    - name: relation
      enabled: true
      prompt: "{{.Question}} {{.ExpectedAnswer}} {{.GeneratedAnswer}}"
      schema:
        kind: discrete
        alphabet: [subset, superset, exact, conflict, immaterial]
      mapping:
        exact: 1
        conflict: 0
`)

	if _, err := LoadJudgesConfig(); err == nil {
		t.Fatal("expected error for mapping table not covering the alphabet")
	}
}

func TestLoadJudgesConfig_DuplicateNames(t *testing.T) {
	writeConfig(t, `judges:
  evaluators:
    - name: relation
      enabled: true
      prompt: "{{.Question}} {{.ExpectedAnswer}} {{.GeneratedAnswer}}"
      schema:
        kind: numeric
        min: 1
        max: 10
    - name: relation
      enabled: true
      prompt: "{{.Question}} {{.ExpectedAnswer}} {{.GeneratedAnswer}}"
      schema:
        kind: numeric
        min: 1
        max: 10
`)

	if _, err := LoadJudgesConfig(); err == nil {
		t.Fatal("expected error for duplicate judge names")
	}
}

func TestLoadJudgesConfig_NoEnabledJudges(t *testing.T) {
	writeConfig(t, `judges:
  evaluators:
    - name: relation
      enabled: false
      prompt: "{{.Question}} {{.ExpectedAnswer}} {{.GeneratedAnswer}}"
      schema:
        kind: numeric
        min: 1
        max: 10
`)

	if _, err := LoadJudgesConfig(); err == nil {
		t.Fatal("expected error when no judge is enabled")
	}
}

func TestLoadJudgesConfig_InvalidDescriptor(t *testing.T) {
	writeConfig(t, `judges:
  evaluators:
    - name: rating
      enabled: true
      prompt: "{{.Question}} {{.ExpectedAnswer}} {{.GeneratedAnswer}}"
      schema:
        kind: numeric
        min: 10
        max: 1
`)

	if _, err := LoadJudgesConfig(); err == nil {
		t.Fatal("expected error for inverted numeric bounds")
	}
}
