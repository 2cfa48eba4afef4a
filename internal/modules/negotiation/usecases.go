package negotiation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/redlinehq/redline-backend/internal/data/repos"
	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/modules/negotiation/steps"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	pkgerrors "github.com/redlinehq/redline-backend/internal/pkg/errors"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
	"github.com/redlinehq/redline-backend/internal/platform/openai"
	"github.com/redlinehq/redline-backend/internal/services"
)

type UsecasesDeps struct {
	Log *logger.Logger
	Cfg steps.Config

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

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type (
	AnalyzeOutcome         = steps.AnalyzeOutcome
	BatchResult            = steps.BatchResult
	CounterproposalOutcome = steps.CounterproposalOutcome
)

type AnalyzeInput struct {
	ChangeID uuid.UUID
}

type BatchAnalyzeInput struct {
	SessionID uuid.UUID
	RoundID   uuid.UUID
}

type GenerateCounterproposalInput struct {
	ChangeID  uuid.UUID
	Mode      string
	CreatedBy uuid.UUID
}

type AcceptCounterproposalInput struct {
	CounterproposalID uuid.UUID
	AcceptedBy        uuid.UUID
}

type ListChangesInput struct {
	RoundID   uuid.UUID
	Status    string
	RiskLevel string
	Limit     int
}

type ResolveChangeInput struct {
	ChangeID   uuid.UUID
	Status     string
	ResolvedBy uuid.UUID
}

func (u Usecases) stepDeps() steps.Deps {
	return steps.Deps{
		Log:              u.deps.Log,
		Cfg:              u.deps.Cfg,
		AI:               u.deps.AI,
		Entities:         u.deps.Entities,
		Clauses:          u.deps.Clauses,
		Policies:         u.deps.Policies,
		History:          u.deps.History,
		Sessions:         u.deps.Sessions,
		Changes:          u.deps.Changes,
		Counterproposals: u.deps.Counterproposals,
		ClauseLib:        u.deps.ClauseLib,
		CallLog:          u.deps.CallLog,
	}
}

func (u Usecases) scopeFor(ctx context.Context, sessionID uuid.UUID) (steps.Scope, error) {
	sess, err := u.deps.Sessions.GetByID(dbctx.Context{Ctx: ctx}, sessionID)
	if err != nil {
		return steps.Scope{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return steps.Scope{
		WorkspaceID:  sess.WorkspaceID,
		SessionID:    sess.ID,
		DocumentType: sess.DocumentType,
	}, nil
}

// AnalyzeChange analyzes one change, serving a stored analysis when one
// exists. The returned outcome is always usable; only missing rows and
// session lookups fail.
func (u Usecases) AnalyzeChange(ctx context.Context, in AnalyzeInput) (*AnalyzeOutcome, error) {
	change, err := u.deps.Changes.GetByID(dbctx.Context{Ctx: ctx}, in.ChangeID)
	if err != nil {
		return nil, fmt.Errorf("load change %s: %w", in.ChangeID, err)
	}
	scope, err := u.scopeFor(ctx, change.SessionID)
	if err != nil {
		return nil, err
	}
	return steps.AnalyzeChange(ctx, u.stepDeps(), scope, change)
}

// BatchAnalyze analyzes every pending change in a round under the
// configured call and time budgets.
func (u Usecases) BatchAnalyze(ctx context.Context, in BatchAnalyzeInput) (*BatchResult, error) {
	scope, err := u.scopeFor(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	changes, err := u.deps.Changes.ListByRound(dbctx.Context{Ctx: ctx}, repos.ChangeListQuery{RoundID: in.RoundID})
	if err != nil {
		return nil, fmt.Errorf("list changes for round %s: %w", in.RoundID, err)
	}
	return steps.BatchAnalyze(ctx, u.stepDeps(), scope, changes), nil
}

// GenerateCounterproposal drafts compromise text for one change. Failures
// propagate; there is no fallback that fabricates contract language.
func (u Usecases) GenerateCounterproposal(ctx context.Context, in GenerateCounterproposalInput) (*CounterproposalOutcome, error) {
	change, err := u.deps.Changes.GetByID(dbctx.Context{Ctx: ctx}, in.ChangeID)
	if err != nil {
		return nil, fmt.Errorf("load change %s: %w", in.ChangeID, err)
	}
	scope, err := u.scopeFor(ctx, change.SessionID)
	if err != nil {
		return nil, err
	}
	return steps.GenerateCounterproposal(ctx, u.stepDeps(), scope, change, in.Mode, in.CreatedBy)
}

// AcceptCounterproposal marks a counterproposal accepted, exactly once,
// and resolves its change as countered. A second accept reports not
// found because the conditional update matches nothing.
func (u Usecases) AcceptCounterproposal(ctx context.Context, in AcceptCounterproposalInput) (*types.Counterproposal, error) {
	dbc := dbctx.Context{Ctx: ctx}
	cp, err := u.deps.Counterproposals.Accept(dbc, in.CounterproposalID)
	if err != nil {
		return nil, fmt.Errorf("accept counterproposal %s: %w", in.CounterproposalID, err)
	}
	if _, err := u.deps.Changes.UpdateResolution(dbc, cp.ChangeID, types.ChangeStatusCountered, in.AcceptedBy); err != nil {
		// The change may already be resolved; acceptance itself stands.
		u.deps.Log.Warn("change resolution update failed after accept",
			"counterproposal_id", cp.ID, "change_id", cp.ChangeID, "error", err)
	}
	return cp, nil
}

// ListCounterproposals returns all counterproposals drafted for a change,
// newest first.
func (u Usecases) ListCounterproposals(ctx context.Context, changeID uuid.UUID) ([]*types.Counterproposal, error) {
	return u.deps.Counterproposals.ListByChange(dbctx.Context{Ctx: ctx}, changeID)
}

// ListChanges returns a round's changes with optional status and risk
// filters.
func (u Usecases) ListChanges(ctx context.Context, in ListChangesInput) ([]*types.DocumentChange, error) {
	if in.RoundID == uuid.Nil {
		return nil, fmt.Errorf("%w: round id required", pkgerrors.ErrInvalidArgument)
	}
	return u.deps.Changes.ListByRound(dbctx.Context{Ctx: ctx}, repos.ChangeListQuery{
		RoundID:   in.RoundID,
		Status:    in.Status,
		RiskLevel: in.RiskLevel,
		Limit:     in.Limit,
	})
}

// ResolveChange records a pending change's resolution.
func (u Usecases) ResolveChange(ctx context.Context, in ResolveChangeInput) (*types.DocumentChange, error) {
	switch in.Status {
	case types.ChangeStatusAccepted, types.ChangeStatusRejected, types.ChangeStatusCountered:
	default:
		return nil, fmt.Errorf("%w: invalid resolution status %q", pkgerrors.ErrInvalidArgument, in.Status)
	}
	return u.deps.Changes.UpdateResolution(dbctx.Context{Ctx: ctx}, in.ChangeID, in.Status, in.ResolvedBy)
}
