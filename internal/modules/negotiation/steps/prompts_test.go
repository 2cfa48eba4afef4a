package steps

import (
	"strings"
	"testing"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/services"
)

func TestBuildAnalysisPromptIsDeterministic(t *testing.T) {
	change := substantiveChange("Vendor shall indemnify Customer against third-party claims.")
	change.SectionHeading = ptr("Indemnification")
	bundle := &ContextBundle{
		Entities: []types.GraphEntity{{Name: "Acme Corp", Kind: "organization", Mentions: 4}},
		Policies: []*types.CompliancePolicy{{Name: "Liability cap", Severity: "high", Description: "Cap must not exceed 2x fees."}},
		ClauseMatches: []services.ClauseMatch{{
			Clause:      &types.Clause{Title: "Mutual indemnity", Body: "Each party shall indemnify the other."},
			Similarity:  83,
			MatchReason: "lexical overlap on indemnify",
		}},
		DealHistory: "2 prior negotiations with Acme Corp.",
	}

	a := buildAnalysisPrompt(change, bundle, "services agreement")
	b := buildAnalysisPrompt(change, bundle, "services agreement")
	if a != b {
		t.Fatal("prompt is not deterministic")
	}
	for _, want := range []string{
		"services agreement",
		"Section: Indemnification",
		"Edit kind: replace",
		"Heuristic category: substantive",
		"Acme Corp",
		"[similarity 83] Mutual indemnity",
		"Liability cap",
		"2 prior negotiations",
	} {
		if !strings.Contains(a, want) {
			t.Fatalf("prompt missing %q:\n%s", want, a)
		}
	}
}

func TestBuildAnalysisPromptOmitsEmptyBlocks(t *testing.T) {
	p := buildAnalysisPrompt(substantiveChange("plain edit text here"), &ContextBundle{}, "")
	for _, absent := range []string{"Known entities", "Similar clauses", "Compliance policies", "History with"} {
		if strings.Contains(p, absent) {
			t.Fatalf("empty bundle should omit %q block:\n%s", absent, p)
		}
	}
	if !strings.Contains(p, "contract document") {
		t.Fatalf("missing document type fallback:\n%s", p)
	}
}

func TestBuildAnalysisPromptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", maxPromptTextLen+500)
	change := substantiveChange(long)
	p := buildAnalysisPrompt(change, nil, "contract")
	if strings.Contains(p, long) {
		t.Fatal("long text should have been truncated")
	}
	if !strings.Contains(p, "…") {
		t.Fatal("truncation marker missing")
	}
}

func TestBuildAnalysisPromptCapsContextLists(t *testing.T) {
	bundle := &ContextBundle{}
	for i := 0; i < 10; i++ {
		bundle.Entities = append(bundle.Entities, types.GraphEntity{Name: "Entity" + string(rune('A'+i))})
	}
	p := buildAnalysisPrompt(substantiveChange("some change text"), bundle, "contract")
	if strings.Contains(p, "EntityF") {
		t.Fatalf("more than %d entities rendered:\n%s", maxEntitiesShown, p)
	}
	if !strings.Contains(p, "EntityE") {
		t.Fatalf("fewer than %d entities rendered:\n%s", maxEntitiesShown, p)
	}
}

func TestBuildBatchPromptIndexesChanges(t *testing.T) {
	changes := []*types.DocumentChange{
		editorialChange("fix typo one"),
		editorialChange("fix typo two"),
		editorialChange("fix typo three"),
	}
	p := buildBatchAnalysisPrompt(changes, "nda")
	for _, want := range []string{"Change 0:", "Change 1:", "Change 2:", "fix typo three"} {
		if !strings.Contains(p, want) {
			t.Fatalf("batch prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildCounterproposalPromptModes(t *testing.T) {
	change := substantiveChange("Liability is capped at three times the fees paid.")
	seen := map[string]bool{}
	for _, mode := range []string{types.ModeBalanced, types.ModeFavorable, types.ModeMinimalChange} {
		p := buildCounterproposalPrompt(change, nil, mode, "msa")
		if seen[p] {
			t.Fatalf("modes should produce distinct prompts")
		}
		seen[p] = true
	}
}

func TestBuildCounterproposalPromptShortTextNotice(t *testing.T) {
	short := &types.DocumentChange{
		ChangeKind:   types.ChangeKindReplace,
		Category:     types.CategorySubstantive,
		OriginalText: ptr("Net 30."),
		ProposedText: ptr("Net 60."),
	}
	p := buildCounterproposalPrompt(short, nil, types.ModeBalanced, "contract")
	if !strings.Contains(p, "proportionally short") {
		t.Fatalf("short-text notice missing:\n%s", p)
	}

	long := substantiveChange(strings.Repeat("long clause text ", 10))
	p = buildCounterproposalPrompt(long, nil, types.ModeBalanced, "contract")
	if strings.Contains(p, "proportionally short") {
		t.Fatalf("notice should only appear for short variants:\n%s", p)
	}
}
