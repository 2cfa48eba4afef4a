package services

import (
	"context"

	"github.com/google/uuid"

	redisclient "github.com/redlinehq/redline-backend/internal/clients/redis"
	"github.com/redlinehq/redline-backend/internal/data/repos"
	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

type PolicyService interface {
	ListEnabled(ctx context.Context, workspaceID uuid.UUID) ([]*types.CompliancePolicy, error)
}

type policyService struct {
	policies repos.PolicyRepo
	cache    redisclient.PolicyCache
	log      *logger.Logger
}

// NewPolicyService accepts a nil cache; lookups then always hit postgres.
func NewPolicyService(policies repos.PolicyRepo, cache redisclient.PolicyCache, log *logger.Logger) PolicyService {
	return &policyService{
		policies: policies,
		cache:    cache,
		log:      log.With("service", "PolicyService"),
	}
}

func (s *policyService) ListEnabled(ctx context.Context, workspaceID uuid.UUID) ([]*types.CompliancePolicy, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetEnabled(ctx, workspaceID); ok {
			return cached, nil
		}
	}
	rows, err := s.policies.ListEnabled(dbctx.Context{Ctx: ctx}, workspaceID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetEnabled(ctx, workspaceID, rows)
	}
	return rows, nil
}
