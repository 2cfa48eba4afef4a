package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/redlinehq/redline-backend/internal/data/graph"
	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
	"github.com/redlinehq/redline-backend/internal/platform/neo4jdb"
)

type EntitySearchService interface {
	Search(ctx context.Context, workspaceID uuid.UUID, term string, limit int) ([]types.GraphEntity, error)
}

type entitySearchService struct {
	graph *neo4jdb.Client
	log   *logger.Logger
}

func NewEntitySearchService(graphClient *neo4jdb.Client, log *logger.Logger) EntitySearchService {
	return &entitySearchService{
		graph: graphClient,
		log:   log.With("service", "EntitySearchService"),
	}
}

func (s *entitySearchService) Search(ctx context.Context, workspaceID uuid.UUID, term string, limit int) ([]types.GraphEntity, error) {
	return graph.SearchEntities(ctx, s.graph, s.log, workspaceID, term, limit)
}
