package app

import (
	"gorm.io/gorm"

	"github.com/redlinehq/redline-backend/internal/data/repos"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

type Repos struct {
	Sessions         repos.SessionRepo
	Changes          repos.ChangeRepo
	Counterproposals repos.CounterproposalRepo
	Clauses          repos.ClauseRepo
	Policies         repos.PolicyRepo
	CallLog          repos.AICallLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Sessions:         repos.NewSessionRepo(db, log),
		Changes:          repos.NewChangeRepo(db, log),
		Counterproposals: repos.NewCounterproposalRepo(db, log),
		Clauses:          repos.NewClauseRepo(db, log),
		Policies:         repos.NewPolicyRepo(db, log),
		CallLog:          repos.NewAICallLogRepo(db, log),
	}
}
