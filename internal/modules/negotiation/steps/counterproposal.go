package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	pkgerrors "github.com/redlinehq/redline-backend/internal/pkg/errors"
	"github.com/redlinehq/redline-backend/internal/services"
)

var (
	// ErrMissingChangeText marks a change with neither original nor
	// proposed text; there is nothing to draft from.
	ErrMissingChangeText = errors.New("change has no text to generate from")

	ErrInvalidMode = errors.New("invalid counterproposal mode")
)

// GenerateCounterproposal drafts compromise text for one change. Unlike
// analysis there is no heuristic tier: the output is insertable contract
// language, so every failure propagates to the caller.
func GenerateCounterproposal(ctx context.Context, d Deps, scope Scope, change *types.DocumentChange, mode string, createdBy uuid.UUID) (*CounterproposalOutcome, error) {
	if change == nil {
		return nil, fmt.Errorf("%w: nil change", pkgerrors.ErrInvalidArgument)
	}
	if !types.ValidMode(mode) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if strings.TrimSpace(change.Text()) == "" {
		return nil, ErrMissingChangeText
	}

	bundle := gatherContext(ctx, d, scope, change, false)
	prompt := buildCounterproposalPrompt(change, bundle, mode, scope.DocumentType)

	raw, err := invokeModel(ctx, d, counterproposalSystemPrompt, prompt)
	recordCall(ctx, d, scope, &change.ID, types.CallTypeCounterproposal, prompt, raw, err)
	if err != nil {
		return nil, fmt.Errorf("counterproposal model call: %w", err)
	}

	draft, err := parseCounterproposalResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("counterproposal response: %w", err)
	}

	row := &types.Counterproposal{
		ChangeID:     change.ID,
		Mode:         mode,
		ProposedText: draft.ProposedText,
		Rationale:    assembleRationale(draft, mode),
		CreatedBy:    createdBy,
	}

	match := topClauseMatch(bundle, d.Cfg.SimilarityFloor)
	if match != nil {
		row.ClauseID = &match.Clause.ID
		if err := d.ClauseLib.IncrementUsage(dbctx.Context{Ctx: ctx}, match.Clause.ID); err != nil {
			d.Log.Warn("clause usage increment failed", "clause_id", match.Clause.ID, "error", err)
		}
	}

	created, err := d.Counterproposals.Create(dbctx.Context{Ctx: ctx}, row)
	if err != nil {
		return nil, fmt.Errorf("counterproposal write: %w", err)
	}

	return &CounterproposalOutcome{
		Counterproposal: created,
		Provider:        d.AI.Provider(),
		Model:           d.AI.Model(),
		ClauseMatch:     match,
	}, nil
}

// assembleRationale folds the model's stated concessions and
// preservations into one stored rationale string alongside the mode.
func assembleRationale(draft *counterproposalPayload, mode string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", mode, draft.Rationale)
	if len(draft.Concessions) > 0 {
		fmt.Fprintf(&b, " Concedes: %s.", strings.Join(draft.Concessions, "; "))
	}
	if len(draft.Preserved) > 0 {
		fmt.Fprintf(&b, " Preserves: %s.", strings.Join(draft.Preserved, "; "))
	}
	return b.String()
}

func topClauseMatch(bundle *ContextBundle, floor int) *services.ClauseMatch {
	if bundle == nil {
		return nil
	}
	var best *services.ClauseMatch
	for i := range bundle.ClauseMatches {
		m := &bundle.ClauseMatches[i]
		if m.Clause == nil || m.Similarity < floor {
			continue
		}
		if best == nil || m.Similarity > best.Similarity {
			best = m
		}
	}
	return best
}
