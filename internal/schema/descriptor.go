// Package schema declares the response-schema contract a judge forces on
// the model, and validates what comes back against it.
package schema

import (
	"errors"
	"fmt"

	"github.com/mkrastev/veridict/internal/llm"
	"github.com/mkrastev/veridict/internal/models"
)

// ToolName is the single callable tool every judge invocation forces.
const ToolName = "submit_verdict"

// ErrDescriptor marks a malformed descriptor: a configuration error,
// detected before any network call.
var ErrDescriptor = errors.New("invalid schema descriptor")

// ErrViolation marks a model response that deviates from the forced schema:
// no tool call, more than one, or a value outside the declared domain.
// Never retried automatically by the transport layer.
var ErrViolation = errors.New("schema violation")

type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindDiscrete Kind = "discrete"
)

// Descriptor declares the verdict domain for a judge. Numeric judges answer
// with an integer in [Min,Max]; discrete judges pick one symbol from
// Alphabet. WithRationale additionally requires free-text reasoning before
// the verdict field.
type Descriptor struct {
	Kind          Kind              `yaml:"kind" json:"kind"`
	Min           int               `yaml:"min" json:"min,omitempty"`
	Max           int               `yaml:"max" json:"max,omitempty"`
	Alphabet      []models.Relation `yaml:"alphabet" json:"alphabet,omitempty"`
	WithRationale bool              `yaml:"with_rationale" json:"with_rationale,omitempty"`
}

func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindNumeric:
		if d.Min >= d.Max {
			return fmt.Errorf("%w: numeric bounds [%d,%d] are empty", ErrDescriptor, d.Min, d.Max)
		}
		if len(d.Alphabet) > 0 {
			return fmt.Errorf("%w: numeric descriptor must not declare an alphabet", ErrDescriptor)
		}
	case KindDiscrete:
		if len(d.Alphabet) == 0 {
			return fmt.Errorf("%w: discrete descriptor requires a non-empty alphabet", ErrDescriptor)
		}
		seen := make(map[models.Relation]bool, len(d.Alphabet))
		for _, symbol := range d.Alphabet {
			if !symbol.Valid() {
				return fmt.Errorf("%w: unknown relation symbol %q", ErrDescriptor, symbol)
			}
			if seen[symbol] {
				return fmt.Errorf("%w: duplicate relation symbol %q", ErrDescriptor, symbol)
			}
			seen[symbol] = true
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrDescriptor, d.Kind)
	}
	return nil
}

// Contains reports whether the symbol is part of the declared alphabet.
func (d Descriptor) Contains(symbol models.Relation) bool {
	for _, s := range d.Alphabet {
		if s == symbol {
			return true
		}
	}
	return false
}

// Tool builds the forced-tool definition whose parameters encode the
// verdict domain. Rationale, when requested, is listed first so the model
// reasons before it commits to a verdict.
func (d Descriptor) Tool() llm.Tool {
	properties := map[string]any{}
	var required []string

	if d.WithRationale {
		properties["reasons"] = map[string]any{
			"type":        "string",
			"description": "Step-by-step comparison of the generated answer against the reference answer.",
		}
		required = append(required, "reasons")
	}

	switch d.Kind {
	case KindNumeric:
		properties["rating"] = map[string]any{
			"type":        "integer",
			"minimum":     d.Min,
			"maximum":     d.Max,
			"description": fmt.Sprintf("Correctness rating from %d (worst) to %d (best).", d.Min, d.Max),
		}
		required = append(required, "rating")
	case KindDiscrete:
		symbols := make([]string, len(d.Alphabet))
		for i, s := range d.Alphabet {
			symbols[i] = string(s)
		}
		properties["choice"] = map[string]any{
			"type":        "string",
			"enum":        symbols,
			"description": "The single relation category that best describes the generated answer.",
		}
		required = append(required, "choice")
	}

	return llm.Tool{
		Name:        ToolName,
		Description: "Record the verdict for the candidate answer.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

type verdictArguments struct {
	Choice  string `json:"choice"`
	Rating  *int   `json:"rating"`
	Reasons string `json:"reasons"`
}

// ParseVerdict validates the model's tool invocations against the
// descriptor and extracts the typed verdict. Anything outside the declared
// domain is an ErrViolation; values are never clamped or coerced.
func (d Descriptor) ParseVerdict(response *llm.ToolResponse) (models.JudgeVerdict, error) {
	var verdict models.JudgeVerdict

	if len(response.Calls) == 0 {
		return verdict, fmt.Errorf("%w: model did not invoke the %s tool", ErrViolation, ToolName)
	}
	if len(response.Calls) > 1 {
		return verdict, fmt.Errorf("%w: model invoked %d tools, want exactly 1", ErrViolation, len(response.Calls))
	}

	call := response.Calls[0]
	if call.Name != ToolName {
		return verdict, fmt.Errorf("%w: model invoked unexpected tool %q", ErrViolation, call.Name)
	}

	args, err := decodeArguments(call.Arguments)
	if err != nil {
		return verdict, fmt.Errorf("%w: malformed tool arguments: %v", ErrViolation, err)
	}

	verdict.Reasons = args.Reasons

	switch d.Kind {
	case KindNumeric:
		if args.Rating == nil {
			return verdict, fmt.Errorf("%w: rating field missing", ErrViolation)
		}
		if *args.Rating < d.Min || *args.Rating > d.Max {
			return verdict, fmt.Errorf("%w: rating %d outside [%d,%d]", ErrViolation, *args.Rating, d.Min, d.Max)
		}
		verdict.Kind = models.VerdictNumeric
		verdict.Rating = *args.Rating
	case KindDiscrete:
		symbol := models.Relation(args.Choice)
		if !d.Contains(symbol) {
			return verdict, fmt.Errorf("%w: choice %q not in alphabet", ErrViolation, args.Choice)
		}
		verdict.Kind = models.VerdictDiscrete
		verdict.Relation = symbol
	}

	return verdict, nil
}
