package negotiation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/redlinehq/redline-backend/internal/domain"
	pkgerrors "github.com/redlinehq/redline-backend/internal/pkg/errors"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

type ChangeListQuery struct {
	RoundID   uuid.UUID
	Status    string
	RiskLevel string
	Limit     int
}

type ResolutionStats struct {
	Total     int64
	Accepted  int64
	Rejected  int64
	Countered int64
}

type ChangeRepo interface {
	Create(dbc dbctx.Context, rows []*types.DocumentChange) ([]*types.DocumentChange, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DocumentChange, error)
	ListByRound(dbc dbctx.Context, q ChangeListQuery) ([]*types.DocumentChange, error)
	UpdateAnalysis(dbc dbctx.Context, id uuid.UUID, analysis datatypes.JSON, riskLevel string) (*types.DocumentChange, error)
	UpdateResolution(dbc dbctx.Context, id uuid.UUID, status string, resolvedBy uuid.UUID) (*types.DocumentChange, error)
	ResolutionStatsBySessions(dbc dbctx.Context, sessionIDs []uuid.UUID) (ResolutionStats, error)
}

type changeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChangeRepo(db *gorm.DB, log *logger.Logger) ChangeRepo {
	return &changeRepo{
		db:  db,
		log: log.With("repo", "ChangeRepo"),
	}
}

func (r *changeRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *changeRepo) Create(dbc dbctx.Context, rows []*types.DocumentChange) ([]*types.DocumentChange, error) {
	if len(rows) == 0 {
		return []*types.DocumentChange{}, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *changeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.DocumentChange, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing change id")
	}
	var out types.DocumentChange
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

func (r *changeRepo) ListByRound(dbc dbctx.Context, q ChangeListQuery) ([]*types.DocumentChange, error) {
	if q.RoundID == uuid.Nil {
		return nil, fmt.Errorf("missing round id")
	}
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 200
	}
	query := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.DocumentChange{}).
		Where("round_id = ?", q.RoundID)
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.RiskLevel != "" {
		query = query.Where("risk_level = ?", q.RiskLevel)
	}
	var out []*types.DocumentChange
	if err := query.
		Order("start_offset ASC").
		Limit(q.Limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateAnalysis stores the analysis payload together with the denormalized
// risk level and the analysis-assigned category in a single row update.
func (r *changeRepo) UpdateAnalysis(dbc dbctx.Context, id uuid.UUID, analysis datatypes.JSON, riskLevel string) (*types.DocumentChange, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing change id")
	}
	if len(analysis) == 0 {
		return nil, fmt.Errorf("missing analysis payload")
	}
	updates := map[string]any{
		"ai_analysis": analysis,
		"risk_level":  riskLevel,
		"updated_at":  time.Now().UTC(),
	}
	res := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.DocumentChange{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return r.GetByID(dbc, id)
}

func (r *changeRepo) UpdateResolution(dbc dbctx.Context, id uuid.UUID, status string, resolvedBy uuid.UUID) (*types.DocumentChange, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing change id")
	}
	now := time.Now().UTC()
	res := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.DocumentChange{}).
		Where("id = ? AND status = ?", id, types.ChangeStatusPending).
		Updates(map[string]any{
			"status":      status,
			"resolved_by": resolvedBy,
			"resolved_at": now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return r.GetByID(dbc, id)
}

func (r *changeRepo) ResolutionStatsBySessions(dbc dbctx.Context, sessionIDs []uuid.UUID) (ResolutionStats, error) {
	var stats ResolutionStats
	if len(sessionIDs) == 0 {
		return stats, nil
	}
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.DocumentChange{}).
		Select("status, COUNT(*) AS n").
		Where("session_id IN ?", sessionIDs).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return stats, err
	}
	for _, rw := range rows {
		stats.Total += rw.N
		switch rw.Status {
		case types.ChangeStatusAccepted:
			stats.Accepted = rw.N
		case types.ChangeStatusRejected:
			stats.Rejected = rw.N
		case types.ChangeStatusCountered:
			stats.Countered = rw.N
		}
	}
	return stats, nil
}
