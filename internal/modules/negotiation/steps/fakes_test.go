package steps

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/redlinehq/redline-backend/internal/data/repos"
	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	pkgerrors "github.com/redlinehq/redline-backend/internal/pkg/errors"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
	"github.com/redlinehq/redline-backend/internal/services"
)

type fakeAI struct {
	mu        sync.Mutex
	calls     int
	responses []string
	err       error
}

func (f *fakeAI) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fakeAI: no response queued")
	}
	out := f.responses[0]
	f.responses = f.responses[1:]
	return out, nil
}

func (f *fakeAI) Provider() string { return "fake" }
func (f *fakeAI) Model() string    { return "fake-model" }

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeEntities struct {
	mu      sync.Mutex
	calls   int
	results []types.GraphEntity
	err     error
}

func (f *fakeEntities) Search(ctx context.Context, workspaceID uuid.UUID, term string, limit int) ([]types.GraphEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.results, f.err
}

type fakeClauses struct {
	mu      sync.Mutex
	calls   int
	matches []services.ClauseMatch
	err     error
}

func (f *fakeClauses) FindSimilar(ctx context.Context, workspaceID uuid.UUID, text string, limit int) ([]services.ClauseMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.matches, f.err
}

type fakePolicies struct {
	mu       sync.Mutex
	calls    int
	policies []*types.CompliancePolicy
	err      error
}

func (f *fakePolicies) ListEnabled(ctx context.Context, workspaceID uuid.UUID) ([]*types.CompliancePolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.policies, f.err
}

type fakeHistory struct {
	mu      sync.Mutex
	calls   int
	summary string
	err     error
}

func (f *fakeHistory) Summary(ctx context.Context, workspaceID uuid.UUID, counterparty string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.summary, f.err
}

// fakeChanges records UpdateAnalysis writes keyed by change id.
type fakeChanges struct {
	mu        sync.Mutex
	updates   map[uuid.UUID]*types.AnalysisResult
	updateErr error
}

func newFakeChanges() *fakeChanges {
	return &fakeChanges{updates: make(map[uuid.UUID]*types.AnalysisResult)}
}

func (f *fakeChanges) Create(dbc dbctx.Context, rows []*types.DocumentChange) ([]*types.DocumentChange, error) {
	return rows, nil
}

func (f *fakeChanges) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DocumentChange, error) {
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeChanges) ListByRound(dbc dbctx.Context, q repos.ChangeListQuery) ([]*types.DocumentChange, error) {
	return nil, nil
}

func (f *fakeChanges) UpdateAnalysis(dbc dbctx.Context, id uuid.UUID, analysis datatypes.JSON, riskLevel string) (*types.DocumentChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	parsed, err := types.AnalysisFromJSON(analysis)
	if err != nil {
		return nil, err
	}
	f.updates[id] = parsed
	return &types.DocumentChange{ID: id, AIAnalysis: analysis, RiskLevel: &riskLevel}, nil
}

func (f *fakeChanges) UpdateResolution(dbc dbctx.Context, id uuid.UUID, status string, resolvedBy uuid.UUID) (*types.DocumentChange, error) {
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeChanges) ResolutionStatsBySessions(dbc dbctx.Context, sessionIDs []uuid.UUID) (repos.ResolutionStats, error) {
	return repos.ResolutionStats{}, nil
}

func (f *fakeChanges) stored(id uuid.UUID) *types.AnalysisResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates[id]
}

func (f *fakeChanges) storedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

type fakeSessions struct {
	mu      sync.Mutex
	calls   int
	session *types.NegotiationSession
	err     error
}

func (f *fakeSessions) Create(dbc dbctx.Context, row *types.NegotiationSession) (*types.NegotiationSession, error) {
	return row, nil
}

func (f *fakeSessions) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.NegotiationSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.session == nil {
		return nil, pkgerrors.ErrNotFound
	}
	return f.session, nil
}

func (f *fakeSessions) ListByCounterparty(dbc dbctx.Context, workspaceID uuid.UUID, counterparty string, limit int) ([]*types.NegotiationSession, error) {
	return nil, nil
}

type fakeCounterproposals struct {
	mu        sync.Mutex
	created   []*types.Counterproposal
	createErr error
}

func (f *fakeCounterproposals) Create(dbc dbctx.Context, row *types.Counterproposal) (*types.Counterproposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	row.ID = uuid.New()
	f.created = append(f.created, row)
	return row, nil
}

func (f *fakeCounterproposals) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Counterproposal, error) {
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeCounterproposals) ListByChange(dbc dbctx.Context, changeID uuid.UUID) ([]*types.Counterproposal, error) {
	return nil, nil
}

func (f *fakeCounterproposals) Accept(dbc dbctx.Context, id uuid.UUID) (*types.Counterproposal, error) {
	return nil, pkgerrors.ErrNotFound
}

type fakeClauseLib struct {
	mu         sync.Mutex
	usageCalls []uuid.UUID
}

func (f *fakeClauseLib) Create(dbc dbctx.Context, rows []*types.Clause) ([]*types.Clause, error) {
	return rows, nil
}

func (f *fakeClauseLib) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Clause, error) {
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeClauseLib) LexicalSearchHits(dbc dbctx.Context, q repos.ClauseLexicalQuery) ([]repos.ClauseLexicalHit, error) {
	return nil, nil
}

func (f *fakeClauseLib) IncrementUsage(dbc dbctx.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usageCalls = append(f.usageCalls, id)
	return nil
}

type fakeCallLog struct {
	mu   sync.Mutex
	rows []*types.AICallLog
}

func (f *fakeCallLog) Create(dbc dbctx.Context, rows []*types.AICallLog) ([]*types.AICallLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, rows...)
	return rows, nil
}

// testHarness bundles all fakes behind a ready-to-use Deps.
type testHarness struct {
	ai               *fakeAI
	entities         *fakeEntities
	clauses          *fakeClauses
	policies         *fakePolicies
	history          *fakeHistory
	changes          *fakeChanges
	sessions         *fakeSessions
	counterproposals *fakeCounterproposals
	clauseLib        *fakeClauseLib
	callLog          *fakeCallLog
	deps             Deps
	scope            Scope
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	h := &testHarness{
		ai:               &fakeAI{},
		entities:         &fakeEntities{},
		clauses:          &fakeClauses{},
		policies:         &fakePolicies{},
		history:          &fakeHistory{},
		changes:          newFakeChanges(),
		sessions:         &fakeSessions{},
		counterproposals: &fakeCounterproposals{},
		clauseLib:        &fakeClauseLib{},
		callLog:          &fakeCallLog{},
	}
	h.deps = Deps{
		Log:              log,
		Cfg:              DefaultConfig(),
		AI:               h.ai,
		Entities:         h.entities,
		Clauses:          h.clauses,
		Policies:         h.policies,
		History:          h.history,
		Sessions:         h.sessions,
		Changes:          h.changes,
		Counterproposals: h.counterproposals,
		ClauseLib:        h.clauseLib,
		CallLog:          h.callLog,
	}
	h.scope = Scope{
		WorkspaceID:  uuid.New(),
		SessionID:    uuid.New(),
		DocumentType: "services agreement",
	}
	return h
}

func ptr(s string) *string { return &s }

func substantiveChange(text string) *types.DocumentChange {
	return &types.DocumentChange{
		ID:           uuid.New(),
		SessionID:    uuid.New(),
		RoundID:      uuid.New(),
		ChangeKind:   types.ChangeKindReplace,
		Category:     types.CategorySubstantive,
		OriginalText: ptr("The original language of this section."),
		ProposedText: ptr(text),
		Status:       types.ChangeStatusPending,
	}
}

func editorialChange(text string) *types.DocumentChange {
	c := substantiveChange(text)
	c.Category = types.CategoryEditorial
	return c
}
