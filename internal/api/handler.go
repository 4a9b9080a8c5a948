package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/aggregator"
	"github.com/mkrastev/veridict/internal/api/middleware"
	"github.com/mkrastev/veridict/internal/judge"
	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/runner"
)

const apiVersion = "1.0.0"

type Handler struct {
	registry   *runner.Registry
	aggregator *aggregator.Aggregator
	logger     *zerolog.Logger
}

func NewHandler(registry *runner.Registry, agg *aggregator.Aggregator, logger *zerolog.Logger) *Handler {
	return &Handler{
		registry:   registry,
		aggregator: agg,
		logger:     logger,
	}
}

// POST /api/v1/judge/{judge_name}
// Body: JudgementRequest
// Returns: EvaluationResult
func (h *Handler) JudgeSingle(req *restful.Request, resp *restful.Response) {
	judgeName := req.PathParameter("judge_name")

	var request models.JudgementRequest
	if err := req.ReadEntity(&request); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if request.Item.Question == "" {
		middleware.HandleError(resp, fmt.Errorf("item.question is required"), http.StatusBadRequest)
		return
	}

	pipeline, err := h.registry.Resolve(judgeName)
	if err != nil {
		if errors.Is(err, judge.ErrJudgeNotFound) {
			middleware.HandleError(resp, err, http.StatusNotFound)
			return
		}
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Str("event_id", request.EventID).
		Str("judge", judgeName).
		Msg("single judgement started")

	result := pipeline.Evaluate(req.Request.Context(), request)

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/evaluate
// Body: BatchRequest
// Returns: BatchResponse
func (h *Handler) Evaluate(req *restful.Request, resp *restful.Response) {
	var batchRequest BatchRequest
	if err := req.ReadEntity(&batchRequest); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if len(batchRequest.Items) == 0 {
		middleware.HandleError(resp, fmt.Errorf("items must not be empty"), http.StatusBadRequest)
		return
	}

	judgeName := batchRequest.Judge
	if judgeName == "" {
		judgeName = h.registry.Default()
	}

	pipeline, err := h.registry.Resolve(judgeName)
	if err != nil {
		if errors.Is(err, judge.ErrJudgeNotFound) {
			middleware.HandleError(resp, err, http.StatusNotFound)
			return
		}
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Str("judge", judgeName).
		Int("items", len(batchRequest.Items)).
		Msg("batch evaluation started")

	results := pipeline.Run(req.Request.Context(), batchRequest.Items)
	summary := h.aggregator.Summarize(results, batchRequest.Items)

	resp.WriteHeaderAndEntity(http.StatusOK, BatchResponse{
		Judge:   judgeName,
		Results: results,
		Summary: summary,
	})
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: apiVersion,
		Judges:  h.registry.Names(),
	})
}
