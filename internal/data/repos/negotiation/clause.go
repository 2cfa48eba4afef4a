package negotiation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	pkgerrors "github.com/redlinehq/redline-backend/internal/pkg/errors"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

type ClauseLexicalQuery struct {
	WorkspaceID uuid.UUID
	Query       string
	Category    string
	Limit       int
}

type ClauseLexicalHit struct {
	Clause *types.Clause
	Rank   float64
}

type ClauseRepo interface {
	Create(dbc dbctx.Context, rows []*types.Clause) ([]*types.Clause, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Clause, error)
	LexicalSearchHits(dbc dbctx.Context, q ClauseLexicalQuery) ([]ClauseLexicalHit, error)
	IncrementUsage(dbc dbctx.Context, id uuid.UUID) error
}

type clauseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClauseRepo(db *gorm.DB, log *logger.Logger) ClauseRepo {
	return &clauseRepo{
		db:  db,
		log: log.With("repo", "ClauseRepo"),
	}
}

func (r *clauseRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *clauseRepo) Create(dbc dbctx.Context, rows []*types.Clause) ([]*types.Clause, error) {
	if len(rows) == 0 {
		return []*types.Clause{}, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *clauseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Clause, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing clause id")
	}
	var out types.Clause
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// clauseSearchSQL builds the full-text ranking statement. Placeholders are
// bound positionally, so args must follow the order the markers appear in
// the statement: the ranking tsquery, the WHERE scope, the match tsquery.
func clauseSearchSQL(q ClauseLexicalQuery) (string, []any) {
	where := "clause.workspace_id = ?"
	args := []any{q.Query, q.WorkspaceID}
	if q.Category != "" {
		where += " AND clause.category = ?"
		args = append(args, q.Category)
	}
	args = append(args, q.Query)

	sql := fmt.Sprintf(`
		SELECT clause.*,
		       ts_rank(to_tsvector('english', clause.title || ' ' || clause.body), plainto_tsquery('english', ?)) AS rank
		FROM clause
		WHERE %s
			AND to_tsvector('english', clause.title || ' ' || clause.body) @@ plainto_tsquery('english', ?)
		ORDER BY rank DESC,
		         clause.usage_count DESC
		LIMIT %d;
	`, where, q.Limit)
	return sql, args
}

// LexicalSearchHits ranks clause bodies against the query text with
// postgres full-text search. plainto_tsquery keeps raw change text safe.
func (r *clauseRepo) LexicalSearchHits(dbc dbctx.Context, q ClauseLexicalQuery) ([]ClauseLexicalHit, error) {
	if q.WorkspaceID == uuid.Nil {
		return nil, fmt.Errorf("missing workspace id")
	}
	if strings.TrimSpace(q.Query) == "" {
		return []ClauseLexicalHit{}, nil
	}
	if q.Limit <= 0 || q.Limit > 50 {
		q.Limit = 10
	}

	sql, args := clauseSearchSQL(q)

	type row struct {
		types.Clause
		Rank float64 `gorm:"column:rank"`
	}
	var rows []row
	if err := r.tx(dbc).WithContext(dbc.Ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ClauseLexicalHit, 0, len(rows))
	for i := range rows {
		cl := rows[i].Clause
		out = append(out, ClauseLexicalHit{Clause: &cl, Rank: rows[i].Rank})
	}
	return out, nil
}

func (r *clauseRepo) IncrementUsage(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing clause id")
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.Clause{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}
