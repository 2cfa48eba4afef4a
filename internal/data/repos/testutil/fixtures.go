package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/redlinehq/redline-backend/internal/domain"
)

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }

func PtrString(s string) *string { return &s }

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, counterparty string) *types.NegotiationSession {
	tb.Helper()
	s := &types.NegotiationSession{
		ID:               uuid.New(),
		WorkspaceID:      workspaceID,
		Title:            "MSA renewal",
		CounterpartyName: counterparty,
		DocumentType:     "contract",
		Status:           "active",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedRound(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, number int) *types.DocumentRound {
	tb.Helper()
	r := &types.DocumentRound{
		ID:          uuid.New(),
		SessionID:   sessionID,
		RoundNumber: number,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed round: %v", err)
	}
	return r
}

func SeedChange(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID, roundID uuid.UUID, category, proposed string) *types.DocumentChange {
	tb.Helper()
	c := &types.DocumentChange{
		ID:           uuid.New(),
		SessionID:    sessionID,
		RoundID:      roundID,
		ChangeKind:   types.ChangeKindReplace,
		Category:     category,
		ProposedText: PtrString(proposed),
		Status:       types.ChangeStatusPending,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed change: %v", err)
	}
	return c
}

func SeedClause(tb testing.TB, ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, title, body string) *types.Clause {
	tb.Helper()
	cl := &types.Clause{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Title:       title,
		Body:        body,
		Category:    "general",
		Tags:        []byte("[]"),
	}
	if err := tx.WithContext(ctx).Create(cl).Error; err != nil {
		tb.Fatalf("seed clause: %v", err)
	}
	return cl
}

func SeedPolicy(tb testing.TB, ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, name string, enabled bool) *types.CompliancePolicy {
	tb.Helper()
	p := &types.CompliancePolicy{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        name,
		Description: "policy " + name,
		Severity:    "medium",
		Enabled:     enabled,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed policy: %v", err)
	}
	return p
}
