package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/redlinehq/redline-backend/internal/data/repos"
	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

// ClauseMatch is one clause-library hit with a 0-100 similarity score and
// a short rationale for why it matched.
type ClauseMatch struct {
	Clause      *types.Clause `json:"clause"`
	Similarity  int           `json:"similarity"`
	MatchReason string        `json:"match_reason"`
}

type ClauseSearchService interface {
	FindSimilar(ctx context.Context, workspaceID uuid.UUID, text string, limit int) ([]ClauseMatch, error)
}

type clauseSearchService struct {
	db      *gorm.DB
	clauses repos.ClauseRepo
	log     *logger.Logger
}

func NewClauseSearchService(db *gorm.DB, clauses repos.ClauseRepo, log *logger.Logger) ClauseSearchService {
	return &clauseSearchService{
		db:      db,
		clauses: clauses,
		log:     log.With("service", "ClauseSearchService"),
	}
}

func (s *clauseSearchService) FindSimilar(ctx context.Context, workspaceID uuid.UUID, text string, limit int) ([]ClauseMatch, error) {
	if limit <= 0 {
		limit = 5
	}
	dbc := dbctx.Context{Ctx: ctx}
	hits, err := s.clauses.LexicalSearchHits(dbc, repos.ClauseLexicalQuery{
		WorkspaceID: workspaceID,
		Query:       text,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]ClauseMatch, 0, len(hits))
	for _, h := range hits {
		if h.Clause == nil {
			continue
		}
		out = append(out, ClauseMatch{
			Clause:      h.Clause,
			Similarity:  similarityScore(h.Rank),
			MatchReason: fmt.Sprintf("lexical overlap with library clause %q", h.Clause.Title),
		})
	}
	return out, nil
}

// similarityScore maps an unbounded ts_rank onto 0-100. Ranks above ~1.0
// are already very strong matches, so the curve saturates there.
func similarityScore(rank float64) int {
	if rank <= 0 {
		return 0
	}
	score := int(math.Round(100 * (1 - math.Exp(-2*rank))))
	if score > 100 {
		score = 100
	}
	return score
}
