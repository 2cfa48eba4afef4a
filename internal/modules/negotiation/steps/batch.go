package steps

import (
	"context"
	"time"

	types "github.com/redlinehq/redline-backend/internal/domain"
)

// budget tracks the two ceilings a batch runs under. Both are checked
// before each unit of work; an in-flight call may overrun the deadline
// by at most its own duration.
type budget struct {
	calls    int
	maxCalls int
	started  time.Time
	maxDur   time.Duration
}

func (b *budget) allow() bool {
	return b.calls < b.maxCalls && time.Since(b.started) < b.maxDur
}

func (b *budget) spend() { b.calls++ }

// BatchAnalyze analyzes a round's worth of changes under a joint budget
// of model calls and wall-clock time. Already-analyzed changes are
// skipped at zero cost. Substantive changes go first, one call each,
// then structural, then editorial in groups that share one call.
// Whatever the budget cannot cover is back-filled with the heuristic, so
// every input change has a stored analysis on return and
// analyzed+failed+skipped always equals the input size.
func BatchAnalyze(ctx context.Context, d Deps, scope Scope, changes []*types.DocumentChange) *BatchResult {
	start := time.Now()
	b := &budget{
		maxCalls: d.Cfg.MaxModelCalls,
		started:  start,
		maxDur:   d.Cfg.MaxBatchDuration,
	}
	res := &BatchResult{}

	var substantive, structural, editorial []*types.DocumentChange
	for _, change := range changes {
		if change == nil {
			res.Skipped++
			continue
		}
		if change.HasAnalysis() {
			res.Skipped++
			if cached, err := types.AnalysisFromJSON(change.AIAnalysis); err == nil && cached != nil {
				res.Results = append(res.Results, AnalyzeOutcome{
					ChangeID:  change.ID,
					Analysis:  cached,
					Source:    SourceCache,
					FromCache: true,
				})
			}
			continue
		}
		switch change.Category {
		case types.CategoryEditorial:
			editorial = append(editorial, change)
		case types.CategoryStructural:
			structural = append(structural, change)
		default:
			substantive = append(substantive, change)
		}
	}

	var leftover []*types.DocumentChange

	leftover = append(leftover, runSingles(ctx, d, scope, b, substantive, res)...)
	leftover = append(leftover, runSingles(ctx, d, scope, b, structural, res)...)
	leftover = append(leftover, runEditorialGroups(ctx, d, scope, b, editorial, res)...)

	for _, change := range leftover {
		recordOutcome(res, fallbackHeuristic(ctx, d, change))
	}

	res.ModelCalls = b.calls
	res.Duration = time.Since(start)
	return res
}

// runSingles analyzes each change with its own model call, returning the
// tail the budget could not cover.
func runSingles(ctx context.Context, d Deps, scope Scope, b *budget, bucket []*types.DocumentChange, res *BatchResult) []*types.DocumentChange {
	for i, change := range bucket {
		if !b.allow() {
			return bucket[i:]
		}
		b.spend()
		recordOutcome(res, analyzeUncached(ctx, d, scope, change, true))
	}
	return nil
}

// runEditorialGroups amortizes model cost by analyzing fixed-size groups
// of editorial changes with one call each. Response elements map back by
// index; anything the response misses is back-filled per item.
func runEditorialGroups(ctx context.Context, d Deps, scope Scope, b *budget, bucket []*types.DocumentChange, res *BatchResult) []*types.DocumentChange {
	size := d.Cfg.EditorialGroupSize
	if size <= 0 {
		size = 1
	}
	for len(bucket) > 0 {
		if !b.allow() {
			return bucket
		}
		group := bucket
		if len(group) > size {
			group = group[:size]
		}
		bucket = bucket[len(group):]

		b.spend()
		analyzeEditorialGroup(ctx, d, scope, group, res)
	}
	return nil
}

func analyzeEditorialGroup(ctx context.Context, d Deps, scope Scope, group []*types.DocumentChange, res *BatchResult) {
	prompt := buildBatchAnalysisPrompt(group, scope.DocumentType)

	raw, err := invokeModel(ctx, d, batchAnalysisSystemPrompt, prompt)
	recordCall(ctx, d, scope, nil, types.CallTypeBatchAnalyze, prompt, raw, err)
	if err != nil {
		d.Log.Warn("group model call failed, using heuristic", "group_size", len(group), "error", err)
		for _, change := range group {
			recordOutcome(res, fallbackHeuristic(ctx, d, change))
		}
		return
	}

	byIndex, err := parseBatchAnalysisResponse(raw, len(group))
	if err != nil {
		d.Log.Warn("group response unusable, using heuristic", "group_size", len(group), "error", err)
		byIndex = nil
	}

	for i, change := range group {
		result, ok := byIndex[i]
		if !ok {
			recordOutcome(res, fallbackHeuristic(ctx, d, change))
			continue
		}
		if err := persistAnalysis(ctx, d, change.ID, result); err != nil {
			d.Log.Warn("analysis write failed, using heuristic", "change_id", change.ID, "error", err)
			recordOutcome(res, fallbackHeuristic(ctx, d, change))
			continue
		}
		recordOutcome(res, &AnalyzeOutcome{
			ChangeID: change.ID,
			Analysis: result,
			Provider: d.AI.Provider(),
			Model:    d.AI.Model(),
			Source:   SourceAI,
		})
	}
}

func recordOutcome(res *BatchResult, outcome *AnalyzeOutcome) {
	if outcome.Source == SourceHeuristic {
		res.Failed++
	} else {
		res.Analyzed++
	}
	res.Results = append(res.Results, *outcome)
}
