package app

import (
	"gorm.io/gorm"

	"github.com/redlinehq/redline-backend/internal/pkg/logger"
	"github.com/redlinehq/redline-backend/internal/services"
)

type Services struct {
	Entities services.EntitySearchService
	Clauses  services.ClauseSearchService
	Policies services.PolicyService
	History  services.DealHistoryService
}

func wireServices(db *gorm.DB, log *logger.Logger, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Entities: services.NewEntitySearchService(clients.Graph, log),
		Clauses:  services.NewClauseSearchService(db, reposet.Clauses, log),
		Policies: services.NewPolicyService(reposet.Policies, clients.PolicyCache, log),
		History:  services.NewDealHistoryService(reposet.Sessions, reposet.Changes, log),
	}
}
