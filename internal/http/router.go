package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/redlinehq/redline-backend/internal/http/handlers"
	httpMW "github.com/redlinehq/redline-backend/internal/http/middleware"
)

type RouterConfig struct {
	NegotiationHandler *httpH.NegotiationHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readycheck", cfg.HealthHandler.ReadyCheck)
	}

	api := r.Group("/api")
	{
		if cfg.NegotiationHandler != nil {
			api.GET("/rounds/:id/changes", cfg.NegotiationHandler.ListChanges)
			api.POST("/rounds/analyze", cfg.NegotiationHandler.BatchAnalyze)

			api.POST("/changes/:id/analyze", cfg.NegotiationHandler.AnalyzeChange)
			api.POST("/changes/:id/resolve", cfg.NegotiationHandler.ResolveChange)
			api.POST("/changes/:id/counterproposals", cfg.NegotiationHandler.GenerateCounterproposal)
			api.GET("/changes/:id/counterproposals", cfg.NegotiationHandler.ListCounterproposals)

			api.POST("/counterproposals/:id/accept", cfg.NegotiationHandler.AcceptCounterproposal)
		}
	}

	return r
}
