package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/mkrastev/veridict/internal/api/middleware"
	"github.com/mkrastev/veridict/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/judge/{judge_name}").
			To(handler.JudgeSingle).
			Doc("Judge a single answer with the named judge").
			Metadata(restfulspec.KeyOpenAPITags, []string{"judge"}).
			Param(ws.PathParameter("judge_name", "Configured judge name").DataType("string")).
			Reads(models.JudgementRequest{}).
			Writes(models.EvaluationResult{}).
			Returns(200, "OK", models.EvaluationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Judge Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/evaluate").
			To(handler.Evaluate).
			Doc("Evaluate a batch of answers with bounded concurrency").
			Metadata(restfulspec.KeyOpenAPITags, []string{"evaluate"}).
			Reads(BatchRequest{}).
			Writes(BatchResponse{}).
			Returns(200, "OK", BatchResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Judge Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
