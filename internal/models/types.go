package models

import (
	"time"
)

// Relation classifies how a generated answer relates to the reference answer.
// The five categories are mutually exclusive; a judge configured in discrete
// mode must pick exactly one of them.
type Relation string

const (
	// RelationSubset: the generated answer is a partial match, missing
	// information present in the reference.
	RelationSubset Relation = "subset"
	// RelationSuperset: the generated answer adds detail the reference does
	// not support.
	RelationSuperset Relation = "superset"
	// RelationExact: the generated answer matches the reference.
	RelationExact Relation = "exact"
	// RelationConflict: the generated answer disagrees with the reference.
	RelationConflict Relation = "conflict"
	// RelationImmaterial: the answers differ only in wording that does not
	// matter for correctness.
	RelationImmaterial Relation = "immaterial"
)

// Relations lists every valid relation symbol.
var Relations = []Relation{
	RelationSubset,
	RelationSuperset,
	RelationExact,
	RelationConflict,
	RelationImmaterial,
}

func (r Relation) Valid() bool {
	switch r {
	case RelationSubset, RelationSuperset, RelationExact, RelationConflict, RelationImmaterial:
		return true
	}
	return false
}

// VerdictKind tags which variant of JudgeVerdict is populated.
type VerdictKind string

const (
	VerdictDiscrete VerdictKind = "discrete"
	VerdictNumeric  VerdictKind = "numeric"
)

// EvaluationItem is one question/answer tuple under evaluation. Immutable
// once built; the pipeline never writes back into it.
type EvaluationItem struct {
	Question        string `json:"question"`
	ExpectedAnswer  string `json:"expected_answer"`
	GeneratedAnswer string `json:"generated_answer"`
}

// JudgeVerdict is the structured output of a single judge invocation.
// Exactly one of Relation (discrete) or Rating (numeric) carries the value,
// selected by Kind. The value is always a member of the configured domain;
// out-of-domain responses are rejected upstream, never coerced.
type JudgeVerdict struct {
	Kind     VerdictKind `json:"kind"`
	Relation Relation    `json:"relation,omitempty"`
	Rating   int         `json:"rating,omitempty"`
	Reasons  string      `json:"reasons,omitempty"`
}

// Status is the terminal outcome of one item's pipeline run.
type Status string

const (
	StatusScored   Status = "scored"
	StatusFailed   Status = "failed"
	StatusTimedOut Status = "timed_out"
)

// Usage counts tokens consumed by the judge invocation for an item.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// EvaluationResult is the terminal record for one item. Created once after
// the judge invocation settles, never mutated. Failed and timed-out items
// keep their slot so that batch reporting can account for them instead of
// silently dropping them.
type EvaluationResult struct {
	EventID  string         `json:"event_id,omitempty"`
	Item     EvaluationItem `json:"item"`
	Verdict  JudgeVerdict   `json:"verdict,omitempty"`
	Score    float64        `json:"score"`
	Status   Status         `json:"status"`
	Error    string         `json:"error,omitempty"`
	Usage    Usage          `json:"usage"`
	Duration time.Duration  `json:"duration_ns"`
}

// JudgementRequest is the inbound message shape shared by the HTTP API, the
// stream consumer and the batch reader.
type JudgementRequest struct {
	EventID string         `json:"event_id"`
	Judge   string         `json:"judge,omitempty"`
	Item    EvaluationItem `json:"item"`
	// ExpectedScore is the known ground-truth score for meta-evaluation
	// runs (0 for every known-hallucinated item). Nil outside validation.
	ExpectedScore *float64 `json:"expected_score,omitempty"`
}

// Passage is one record of the source dataset: a passage text with parallel
// question and reference-answer sequences. Consumed read-only.
type Passage struct {
	Passage   string   `json:"passage"`
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}
