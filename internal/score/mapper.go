// Package score converts judge verdicts into numeric scores in [0,1].
package score

import (
	"errors"
	"fmt"
	"math"

	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/schema"
)

// ErrUnmapped marks a discrete symbol the mapping table does not cover.
// There is no default value: an unmapped symbol is always an error.
var ErrUnmapped = errors.New("relation not covered by score mapping")

// Mapping assigns a score to each symbol of a discrete alphabet.
type Mapping map[models.Relation]float64

// HallucinationMapping is the shipped default for hallucination detection:
// unsupported embellishment (superset) is scored exactly as bad as outright
// contradiction. Callers with other judging tasks supply their own table.
var HallucinationMapping = Mapping{
	models.RelationSubset:     0.5,
	models.RelationSuperset:   0,
	models.RelationExact:      1,
	models.RelationConflict:   0,
	models.RelationImmaterial: 1,
}

// Mapper is a pure, total, deterministic function from JudgeVerdict to
// [0,1]. Numeric verdicts rescale affinely; discrete verdicts go through
// the table. Domain membership is validated upstream by the invoker, so
// mapping carries no clamping.
type Mapper struct {
	descriptor schema.Descriptor
	table      Mapping
}

// NewMapper validates that the table is total over the descriptor's
// alphabet (discrete kind only) and that every score is inside [0,1].
func NewMapper(descriptor schema.Descriptor, table Mapping) (*Mapper, error) {
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}

	if descriptor.Kind == schema.KindDiscrete {
		if table == nil {
			return nil, fmt.Errorf("%w: no mapping table supplied", ErrUnmapped)
		}
		for _, symbol := range descriptor.Alphabet {
			value, ok := table[symbol]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnmapped, symbol)
			}
			if value < 0 || value > 1 {
				return nil, fmt.Errorf("mapping for %q is %v, outside [0,1]", symbol, value)
			}
		}
	}

	return &Mapper{descriptor: descriptor, table: table}, nil
}

// Map converts a verdict to its score. Idempotent: mapping the same verdict
// any number of times yields the same value.
func (m *Mapper) Map(verdict models.JudgeVerdict) (float64, error) {
	switch verdict.Kind {
	case models.VerdictNumeric:
		return float64(verdict.Rating-m.descriptor.Min) / float64(m.descriptor.Max-m.descriptor.Min), nil
	case models.VerdictDiscrete:
		value, ok := m.table[verdict.Relation]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnmapped, verdict.Relation)
		}
		return value, nil
	default:
		return 0, fmt.Errorf("unknown verdict kind %q", verdict.Kind)
	}
}

// Agreement is the normalized agreement between a mapped score and a known
// expected score: 1 means perfect agreement, 0 maximal disagreement.
func Agreement(score, expected float64) float64 {
	return 1 - math.Abs(score-expected)
}
