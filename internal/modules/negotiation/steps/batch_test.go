package steps

import (
	"context"
	"strconv"
	"testing"
	"time"

	types "github.com/redlinehq/redline-backend/internal/domain"
)

func batchAnalysisJSON(n int) string {
	out := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += `{"change_index":` + strconv.Itoa(i) + `,"category":"editorial","risk_level":"low","summary":"Minor wording change.","recommendation":"accept"}`
	}
	return out + "]"
}

func TestBatchConservation(t *testing.T) {
	h := newHarness(t)
	h.ai.responses = []string{validAnalysisJSON, validAnalysisJSON, batchAnalysisJSON(2)}

	analyzed := substantiveChange("already done")
	analyzed.AIAnalysis = (&types.AnalysisResult{RiskLevel: types.RiskLow, Summary: "old", Recommendation: types.RecommendationAccept}).ToJSON()

	changes := []*types.DocumentChange{
		analyzed,
		substantiveChange("raises the liability cap"),
		substantiveChange("changes the governing law"),
		editorialChange("fixes a typo"),
		editorialChange("renumbers a list"),
	}

	res := BatchAnalyze(context.Background(), h.deps, h.scope, changes)

	if res.Analyzed+res.Failed+res.Skipped != len(changes) {
		t.Fatalf("conservation violated: %d+%d+%d != %d", res.Analyzed, res.Failed, res.Skipped, len(changes))
	}
	if res.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", res.Skipped)
	}
	if res.Failed != 0 {
		t.Fatalf("failed = %d, want 0", res.Failed)
	}
	if h.changes.storedCount() != 4 {
		t.Fatalf("stored analyses = %d, want 4 (skipped change untouched)", h.changes.storedCount())
	}
	if res.ModelCalls != 3 {
		t.Fatalf("model calls = %d, want 3 (two singles, one editorial group)", res.ModelCalls)
	}
	if res.Duration <= 0 {
		t.Fatal("duration not recorded")
	}
}

func TestBatchEditorialGrouping(t *testing.T) {
	h := newHarness(t)
	h.ai.responses = []string{batchAnalysisJSON(8), batchAnalysisJSON(1)}

	var changes []*types.DocumentChange
	for i := 0; i < 9; i++ {
		changes = append(changes, editorialChange("typo fix number "+strconv.Itoa(i)))
	}

	res := BatchAnalyze(context.Background(), h.deps, h.scope, changes)

	if res.ModelCalls != 2 {
		t.Fatalf("model calls = %d, want 2 (group of 8 plus group of 1)", res.ModelCalls)
	}
	if res.Analyzed != 9 || res.Failed != 0 || res.Skipped != 0 {
		t.Fatalf("counts = %d/%d/%d, want 9/0/0", res.Analyzed, res.Failed, res.Skipped)
	}
	if h.changes.storedCount() != 9 {
		t.Fatalf("stored analyses = %d, want 9", h.changes.storedCount())
	}
}

func TestBatchCallBudgetBackfillsWithHeuristic(t *testing.T) {
	h := newHarness(t)
	h.deps.Cfg.MaxModelCalls = 2
	h.ai.responses = []string{validAnalysisJSON, validAnalysisJSON, validAnalysisJSON, validAnalysisJSON}

	changes := []*types.DocumentChange{
		substantiveChange("raises the liability cap"),
		substantiveChange("adds an indemnity obligation"),
		substantiveChange("changes the governing law"),
		substantiveChange("extends the termination notice"),
	}

	res := BatchAnalyze(context.Background(), h.deps, h.scope, changes)

	if res.ModelCalls != 2 {
		t.Fatalf("model calls = %d, budget was 2", res.ModelCalls)
	}
	if h.ai.callCount() != 2 {
		t.Fatalf("ai calls = %d, budget was 2", h.ai.callCount())
	}
	if res.Analyzed != 2 || res.Failed != 2 {
		t.Fatalf("counts = %d analyzed / %d failed, want 2/2", res.Analyzed, res.Failed)
	}
	if h.changes.storedCount() != len(changes) {
		t.Fatal("every change must have a stored analysis, including back-filled ones")
	}
	heuristics := 0
	for _, r := range res.Results {
		if r.Source == SourceHeuristic {
			heuristics++
			if r.FromCache {
				t.Fatal("back-filled results must not claim cache provenance")
			}
		}
	}
	if heuristics != 2 {
		t.Fatalf("heuristic back-fills = %d, want 2", heuristics)
	}
}

func TestBatchTimeBudgetBackfillsWithHeuristic(t *testing.T) {
	h := newHarness(t)
	h.deps.Cfg.MaxBatchDuration = -time.Millisecond

	changes := []*types.DocumentChange{
		substantiveChange("raises the liability cap"),
		editorialChange("fixes a typo"),
	}

	res := BatchAnalyze(context.Background(), h.deps, h.scope, changes)

	if h.ai.callCount() != 0 {
		t.Fatalf("expired time budget should prevent all model calls, got %d", h.ai.callCount())
	}
	if res.Failed != 2 || res.Analyzed != 0 {
		t.Fatalf("counts = %d/%d, want 0 analyzed / 2 failed", res.Analyzed, res.Failed)
	}
	if h.changes.storedCount() != 2 {
		t.Fatal("back-fill must still persist heuristic analyses")
	}
}

func TestBatchSubstantiveBeforeEditorial(t *testing.T) {
	h := newHarness(t)
	h.deps.Cfg.MaxModelCalls = 1
	h.ai.responses = []string{validAnalysisJSON}

	editorial := editorialChange("fixes a typo")
	substantive := substantiveChange("raises the liability cap")
	changes := []*types.DocumentChange{editorial, substantive}

	res := BatchAnalyze(context.Background(), h.deps, h.scope, changes)

	if res.ModelCalls != 1 {
		t.Fatalf("model calls = %d, want 1", res.ModelCalls)
	}
	stored := h.changes.stored(substantive.ID)
	if stored == nil || stored.Summary != "Raises the liability cap." {
		t.Fatalf("the single call should have gone to the substantive change, stored = %+v", stored)
	}
	if got := h.changes.stored(editorial.ID); got == nil || got.RiskLevel != types.RiskLow {
		t.Fatalf("editorial change should be heuristic back-filled, got %+v", got)
	}
}

func TestBatchGroupResponseGapsBackfillPerItem(t *testing.T) {
	h := newHarness(t)
	// Group of three, response only covers index 1.
	h.ai.responses = []string{`[{"change_index":1,"category":"editorial","risk_level":"low","summary":"Covered.","recommendation":"accept"}]`}

	changes := []*types.DocumentChange{
		editorialChange("first"),
		editorialChange("second"),
		editorialChange("third"),
	}

	res := BatchAnalyze(context.Background(), h.deps, h.scope, changes)

	if res.ModelCalls != 1 {
		t.Fatalf("model calls = %d, want 1", res.ModelCalls)
	}
	if res.Analyzed != 1 || res.Failed != 2 {
		t.Fatalf("counts = %d analyzed / %d failed, want 1/2", res.Analyzed, res.Failed)
	}
	if got := h.changes.stored(changes[1].ID); got == nil || got.Summary != "Covered." {
		t.Fatalf("covered change lost its model result: %+v", got)
	}
	if h.changes.storedCount() != 3 {
		t.Fatal("uncovered changes must be heuristic back-filled")
	}
}
