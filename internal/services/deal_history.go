package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/redlinehq/redline-backend/internal/data/repos"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

// DealHistoryService summarizes prior negotiations with the same
// counterparty into one free-text paragraph for the analysis prompt.
type DealHistoryService interface {
	Summary(ctx context.Context, workspaceID uuid.UUID, counterparty string) (string, error)
}

type dealHistoryService struct {
	sessions repos.SessionRepo
	changes  repos.ChangeRepo
	log      *logger.Logger
}

func NewDealHistoryService(sessions repos.SessionRepo, changes repos.ChangeRepo, log *logger.Logger) DealHistoryService {
	return &dealHistoryService{
		sessions: sessions,
		changes:  changes,
		log:      log.With("service", "DealHistoryService"),
	}
}

func (s *dealHistoryService) Summary(ctx context.Context, workspaceID uuid.UUID, counterparty string) (string, error) {
	counterparty = strings.TrimSpace(counterparty)
	if counterparty == "" {
		return "", nil
	}
	dbc := dbctx.Context{Ctx: ctx}
	sessions, err := s.sessions.ListByCounterparty(dbc, workspaceID, counterparty, 20)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", nil
	}

	ids := make([]uuid.UUID, 0, len(sessions))
	for _, sess := range sessions {
		if sess != nil && sess.ID != uuid.Nil {
			ids = append(ids, sess.ID)
		}
	}
	stats, err := s.changes.ResolutionStatsBySessions(dbc, ids)
	if err != nil {
		return "", err
	}

	resolved := stats.Accepted + stats.Rejected + stats.Countered
	if resolved == 0 {
		return fmt.Sprintf("%d prior negotiation(s) with %s; no resolved edits on record yet.", len(sessions), counterparty), nil
	}

	acceptPct := int(100 * stats.Accepted / resolved)
	counterPct := int(100 * stats.Countered / resolved)
	return fmt.Sprintf(
		"%d prior negotiation(s) with %s covering %d resolved edit(s): %d%% accepted, %d%% countered, rest rejected.",
		len(sessions), counterparty, resolved, acceptPct, counterPct,
	), nil
}
