package api

import (
	"github.com/mkrastev/veridict/internal/aggregator"
	"github.com/mkrastev/veridict/internal/models"
)

type HealthResponse struct {
	Status  string   `json:"status"`
	Version string   `json:"version"`
	Judges  []string `json:"judges,omitempty"`
}

// BatchRequest is the body of POST /api/v1/evaluate.
type BatchRequest struct {
	Judge string                    `json:"judge,omitempty"`
	Items []models.JudgementRequest `json:"items"`
}

// BatchResponse pairs per-item results with the batch summary.
type BatchResponse struct {
	Judge   string                    `json:"judge"`
	Results []models.EvaluationResult `json:"results"`
	Summary aggregator.Summary        `json:"summary"`
}
