package app

import (
	"gorm.io/gorm"

	"github.com/redlinehq/redline-backend/internal/http"
	httpH "github.com/redlinehq/redline-backend/internal/http/handlers"
	negotiation "github.com/redlinehq/redline-backend/internal/modules/negotiation"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Negotiation *httpH.NegotiationHandler
}

func wireUsecases(log *logger.Logger, cfg Config, clients Clients, reposet Repos, serviceset Services) negotiation.Usecases {
	return negotiation.New(negotiation.UsecasesDeps{
		Log:              log,
		Cfg:              cfg.Pipeline,
		AI:               clients.AI,
		Entities:         serviceset.Entities,
		Clauses:          serviceset.Clauses,
		Policies:         serviceset.Policies,
		History:          serviceset.History,
		Sessions:         reposet.Sessions,
		Changes:          reposet.Changes,
		Counterproposals: reposet.Counterproposals,
		ClauseLib:        reposet.Clauses,
		CallLog:          reposet.CallLog,
	})
}

func wireHandlers(log *logger.Logger, db *gorm.DB, uc negotiation.Usecases) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(db),
		Negotiation: httpH.NewNegotiationHandler(uc),
	}
}

func wireServer(handlers Handlers) *http.Server {
	return http.NewServer(http.RouterConfig{
		HealthHandler:      handlers.Health,
		NegotiationHandler: handlers.Negotiation,
	})
}
