package steps

import (
	"time"

	"github.com/google/uuid"

	"github.com/redlinehq/redline-backend/internal/data/repos"
	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
	"github.com/redlinehq/redline-backend/internal/platform/openai"
	"github.com/redlinehq/redline-backend/internal/services"
)

// Scope identifies the workspace and session a unit of work runs under.
type Scope struct {
	WorkspaceID  uuid.UUID
	SessionID    uuid.UUID
	DocumentType string
}

// Config carries the pipeline budgets and thresholds.
type Config struct {
	SourceTimeout      time.Duration
	ModelTimeout       time.Duration
	MaxModelCalls      int
	MaxBatchDuration   time.Duration
	EditorialGroupSize int
	MaxEntities        int
	SimilarityFloor    int
}

func DefaultConfig() Config {
	return Config{
		SourceTimeout:      5 * time.Second,
		ModelTimeout:       15 * time.Second,
		MaxModelCalls:      10,
		MaxBatchDuration:   30 * time.Second,
		EditorialGroupSize: 8,
		MaxEntities:        10,
		SimilarityFloor:    60,
	}
}

// Deps bundles everything the pipeline steps touch. Every field is an
// interface so the steps can run against fakes.
type Deps struct {
	Log *logger.Logger
	Cfg Config

	AI openai.Client

	Entities services.EntitySearchService
	Clauses  services.ClauseSearchService
	Policies services.PolicyService
	History  services.DealHistoryService

	Sessions         repos.SessionRepo
	Changes          repos.ChangeRepo
	Counterproposals repos.CounterproposalRepo
	ClauseLib        repos.ClauseRepo
	CallLog          repos.AICallLogRepo
}

// ContextBundle is the ephemeral per-change aggregate of knowledge-source
// results. Any field may be empty; absence is not an error.
type ContextBundle struct {
	Entities      []types.GraphEntity
	ClauseMatches []services.ClauseMatch
	Policies      []*types.CompliancePolicy
	DealHistory   string
}

// Provenance markers for an analysis result, carried alongside the result.
const (
	SourceAI        = "ai"
	SourceHeuristic = "heuristic"
	SourceCache     = "cache"
)

type AnalyzeOutcome struct {
	ChangeID  uuid.UUID             `json:"change_id"`
	Analysis  *types.AnalysisResult `json:"analysis"`
	Provider  string                `json:"provider,omitempty"`
	Model     string                `json:"model,omitempty"`
	Source    string                `json:"source"`
	FromCache bool                  `json:"from_cache"`
}

type BatchResult struct {
	Analyzed   int              `json:"analyzed"`
	Failed     int              `json:"failed"`
	Skipped    int              `json:"skipped"`
	Results    []AnalyzeOutcome `json:"results"`
	ModelCalls int              `json:"model_calls"`
	Duration   time.Duration    `json:"duration_ms"`
}

type CounterproposalOutcome struct {
	Counterproposal *types.Counterproposal `json:"counterproposal"`
	Provider        string                 `json:"provider,omitempty"`
	Model           string                 `json:"model,omitempty"`
	ClauseMatch     *services.ClauseMatch  `json:"clause_match,omitempty"`
}
