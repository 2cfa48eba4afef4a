package negotiation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	negotiationrepos "github.com/redlinehq/redline-backend/internal/data/repos/negotiation"
	"github.com/redlinehq/redline-backend/internal/data/repos/testutil"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
)

func TestClauseRepoLexicalSearch(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	workspace := uuid.New()
	indemnity := testutil.SeedClause(t, ctx, tx, workspace,
		"Mutual indemnification",
		"Each party shall indemnify and hold harmless the other party against third-party claims.")
	testutil.SeedClause(t, ctx, tx, workspace,
		"Payment terms",
		"Invoices are payable within thirty days of receipt.")
	testutil.SeedClause(t, ctx, tx, uuid.New(),
		"Foreign indemnity",
		"Indemnify clause in another workspace.")

	repo := negotiationrepos.NewClauseRepo(db, log)

	hits, err := repo.LexicalSearchHits(dbc, negotiationrepos.ClauseLexicalQuery{
		WorkspaceID: workspace,
		Query:       "indemnify third-party claims",
		Limit:       5,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("no hits for matching clause")
	}
	if hits[0].Clause.ID != indemnity.ID {
		t.Fatalf("top hit = %q, want the indemnity clause", hits[0].Clause.Title)
	}
	if hits[0].Rank <= 0 {
		t.Fatalf("rank = %f, want > 0", hits[0].Rank)
	}
	for _, h := range hits {
		if h.Clause.WorkspaceID != workspace {
			t.Fatalf("hit from foreign workspace: %+v", h.Clause)
		}
	}
}

func TestClauseRepoIncrementUsage(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	clause := testutil.SeedClause(t, ctx, tx, uuid.New(), "Cap clause", "Liability capped at fees paid.")
	repo := negotiationrepos.NewClauseRepo(db, log)

	if err := repo.IncrementUsage(dbc, clause.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := repo.IncrementUsage(dbc, clause.ID); err != nil {
		t.Fatalf("increment twice: %v", err)
	}

	got, err := repo.GetByID(dbc, clause.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UsageCount != 2 {
		t.Fatalf("usage count = %d, want 2", got.UsageCount)
	}
}
