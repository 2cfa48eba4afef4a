package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	pkgerrors "github.com/redlinehq/redline-backend/internal/pkg/errors"
)

// AnalyzeChange produces a risk analysis for one change. A change that
// already carries an analysis is returned as-is with no source or model
// calls. Model, parse, and persistence failures all degrade to the
// heuristic, so the caller always receives a stored result.
func AnalyzeChange(ctx context.Context, d Deps, scope Scope, change *types.DocumentChange) (*AnalyzeOutcome, error) {
	if change == nil {
		return nil, fmt.Errorf("%w: nil change", pkgerrors.ErrInvalidArgument)
	}
	if change.HasAnalysis() {
		cached, err := types.AnalysisFromJSON(change.AIAnalysis)
		if err == nil && cached != nil {
			return &AnalyzeOutcome{
				ChangeID:  change.ID,
				Analysis:  cached,
				Source:    SourceCache,
				FromCache: true,
			}, nil
		}
		d.Log.Warn("stored analysis is unreadable, reanalyzing", "change_id", change.ID, "error", err)
	}
	outcome := analyzeUncached(ctx, d, scope, change, false)
	return outcome, nil
}

// analyzeUncached runs the full model path and never fails: any error
// along the way falls back to the heuristic, which is persisted in turn.
func analyzeUncached(ctx context.Context, d Deps, scope Scope, change *types.DocumentChange, light bool) *AnalyzeOutcome {
	bundle := gatherContext(ctx, d, scope, change, light)
	prompt := buildAnalysisPrompt(change, bundle, scope.DocumentType)

	raw, err := invokeModel(ctx, d, analysisSystemPrompt, prompt)
	recordCall(ctx, d, scope, &change.ID, types.CallTypeAnalyze, prompt, raw, err)
	if err != nil {
		d.Log.Warn("model call failed, using heuristic", "change_id", change.ID, "error", err)
		return fallbackHeuristic(ctx, d, change)
	}

	result, err := parseAnalysisResponse(raw)
	if err != nil {
		d.Log.Warn("model response unusable, using heuristic", "change_id", change.ID, "error", err)
		return fallbackHeuristic(ctx, d, change)
	}

	if err := persistAnalysis(ctx, d, change.ID, result); err != nil {
		d.Log.Warn("analysis write failed, using heuristic", "change_id", change.ID, "error", err)
		return fallbackHeuristic(ctx, d, change)
	}

	return &AnalyzeOutcome{
		ChangeID: change.ID,
		Analysis: result,
		Provider: d.AI.Provider(),
		Model:    d.AI.Model(),
		Source:   SourceAI,
	}
}

// fallbackHeuristic is the terminal path: the heuristic is total, and a
// failed persist is logged rather than surfaced so the outcome is still
// usable by the caller.
func fallbackHeuristic(ctx context.Context, d Deps, change *types.DocumentChange) *AnalyzeOutcome {
	result := HeuristicAnalysis(change)
	if err := persistAnalysis(ctx, d, change.ID, result); err != nil {
		d.Log.Error("heuristic analysis write failed", "change_id", change.ID, "error", err)
	}
	return &AnalyzeOutcome{
		ChangeID: change.ID,
		Analysis: result,
		Source:   SourceHeuristic,
	}
}

func persistAnalysis(ctx context.Context, d Deps, changeID uuid.UUID, result *types.AnalysisResult) error {
	_, err := d.Changes.UpdateAnalysis(dbctx.Context{Ctx: ctx}, changeID, result.ToJSON(), result.RiskLevel)
	return err
}

func invokeModel(ctx context.Context, d Deps, system, prompt string) (string, error) {
	mctx, cancel := context.WithTimeout(ctx, d.Cfg.ModelTimeout)
	defer cancel()
	return d.AI.GenerateText(mctx, system, prompt)
}

// recordCall writes one audit row per model invocation. Best effort; the
// pipeline never fails because the audit trail is unavailable.
func recordCall(ctx context.Context, d Deps, scope Scope, changeID *uuid.UUID, callType, prompt, response string, callErr error) {
	if d.CallLog == nil {
		return
	}
	row := &types.AICallLog{
		WorkspaceID: scope.WorkspaceID,
		ChangeID:    changeID,
		CallType:    callType,
		Provider:    d.AI.Provider(),
		Model:       d.AI.Model(),
		Prompt:      prompt,
		Response:    response,
		Success:     callErr == nil,
	}
	if callErr != nil {
		row.Error = callErr.Error()
	}
	if _, err := d.CallLog.Create(dbctx.Context{Ctx: ctx}, []*types.AICallLog{row}); err != nil {
		d.Log.Warn("ai call audit write failed", "call_type", callType, "error", err)
	}
}
