package judge

import (
	"errors"
	"testing"

	"github.com/mkrastev/veridict/internal/config"
	"github.com/mkrastev/veridict/internal/models"
)

func testJudgesConfig() *config.JudgesConfig {
	rating := numericJudgeConfig()
	relation := discreteJudgeConfig()
	relation.Mapping = map[models.Relation]float64{
		models.RelationSubset:     0.5,
		models.RelationSuperset:   0,
		models.RelationExact:      1,
		models.RelationConflict:   0,
		models.RelationImmaterial: 1,
	}

	return &config.JudgesConfig{
		Judges: config.JudgesSection{
			Evaluators: []config.JudgeConfiguration{rating, relation},
		},
	}
}

func TestNewFactory(t *testing.T) {
	factory, err := NewFactory(testJudgesConfig(), &fakeLLMClient{}, newTestLogger())
	if err != nil {
		t.Fatalf("NewFactory() failed: %v", err)
	}

	if len(factory.Names()) != 2 {
		t.Errorf("expected 2 judges, got %v", factory.Names())
	}

	// The discrete judge wins the default slot even when listed second.
	if factory.Default() != "relation" {
		t.Errorf("expected default 'relation', got %q", factory.Default())
	}

	entry, err := factory.Get("relation")
	if err != nil {
		t.Fatalf("Get(relation) failed: %v", err)
	}
	if entry.Judge.Name() != "relation" {
		t.Errorf("entry carries wrong judge: %s", entry.Judge.Name())
	}
	if entry.Mapper == nil {
		t.Fatal("entry missing score mapper")
	}

	score, err := entry.Mapper.Map(models.JudgeVerdict{Kind: models.VerdictDiscrete, Relation: models.RelationSuperset})
	if err != nil {
		t.Fatalf("Map() failed: %v", err)
	}
	if score != 0 {
		t.Errorf("superset must map to 0, got %v", score)
	}
}

func TestFactory_GetUnknown(t *testing.T) {
	factory, err := NewFactory(testJudgesConfig(), &fakeLLMClient{}, newTestLogger())
	if err != nil {
		t.Fatalf("NewFactory() failed: %v", err)
	}

	_, err = factory.Get("nonexistent")
	if !errors.Is(err, ErrJudgeNotFound) {
		t.Errorf("expected ErrJudgeNotFound, got: %v", err)
	}
}

func TestPool_SkipsDisabledJudges(t *testing.T) {
	cfg := testJudgesConfig()
	cfg.Judges.Evaluators[0].Enabled = false

	pool := NewPool(&fakeLLMClient{}, newTestLogger())
	judges, err := pool.BuildFromConfig(cfg)
	if err != nil {
		t.Fatalf("BuildFromConfig() failed: %v", err)
	}

	if len(judges) != 1 {
		t.Fatalf("expected 1 enabled judge, got %d", len(judges))
	}
	if judges[0].Name() != "relation" {
		t.Errorf("wrong judge built: %s", judges[0].Name())
	}
}

func TestPool_NoEnabledJudges(t *testing.T) {
	cfg := testJudgesConfig()
	for i := range cfg.Judges.Evaluators {
		cfg.Judges.Evaluators[i].Enabled = false
	}

	pool := NewPool(&fakeLLMClient{}, newTestLogger())
	if _, err := pool.BuildFromConfig(cfg); err == nil {
		t.Fatal("expected error when every judge is disabled")
	}
}

func TestPool_InvalidJudgeFailsFast(t *testing.T) {
	cfg := testJudgesConfig()
	cfg.Judges.Evaluators[1].Prompt = "no placeholders at all"

	pool := NewPool(&fakeLLMClient{}, newTestLogger())
	if _, err := pool.BuildFromConfig(cfg); err == nil {
		t.Fatal("expected error for invalid judge template")
	}
}

func TestFactory_NumericJudgeHasNilSafeMapper(t *testing.T) {
	factory, err := NewFactory(testJudgesConfig(), &fakeLLMClient{}, newTestLogger())
	if err != nil {
		t.Fatalf("NewFactory() failed: %v", err)
	}

	entry, err := factory.Get("rating")
	if err != nil {
		t.Fatalf("Get(rating) failed: %v", err)
	}

	score, err := entry.Mapper.Map(models.JudgeVerdict{Kind: models.VerdictNumeric, Rating: 10})
	if err != nil {
		t.Fatalf("Map() failed: %v", err)
	}
	if score != 1 {
		t.Errorf("rating 10 of [1,10] must map to 1, got %v", score)
	}
}
