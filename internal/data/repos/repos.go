package repos

import (
	"github.com/redlinehq/redline-backend/internal/data/repos/negotiation"
)

type ChangeRepo = negotiation.ChangeRepo
type CounterproposalRepo = negotiation.CounterproposalRepo
type SessionRepo = negotiation.SessionRepo
type ClauseRepo = negotiation.ClauseRepo
type PolicyRepo = negotiation.PolicyRepo
type AICallLogRepo = negotiation.AICallLogRepo

type ChangeListQuery = negotiation.ChangeListQuery
type ClauseLexicalQuery = negotiation.ClauseLexicalQuery
type ClauseLexicalHit = negotiation.ClauseLexicalHit
type ResolutionStats = negotiation.ResolutionStats

var (
	NewChangeRepo          = negotiation.NewChangeRepo
	NewCounterproposalRepo = negotiation.NewCounterproposalRepo
	NewSessionRepo         = negotiation.NewSessionRepo
	NewClauseRepo          = negotiation.NewClauseRepo
	NewPolicyRepo          = negotiation.NewPolicyRepo
	NewAICallLogRepo       = negotiation.NewAICallLogRepo
)
