package negotiation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	pkgerrors "github.com/redlinehq/redline-backend/internal/pkg/errors"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

type CounterproposalRepo interface {
	Create(dbc dbctx.Context, row *types.Counterproposal) (*types.Counterproposal, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Counterproposal, error)
	ListByChange(dbc dbctx.Context, changeID uuid.UUID) ([]*types.Counterproposal, error)
	Accept(dbc dbctx.Context, id uuid.UUID) (*types.Counterproposal, error)
}

type counterproposalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCounterproposalRepo(db *gorm.DB, log *logger.Logger) CounterproposalRepo {
	return &counterproposalRepo{
		db:  db,
		log: log.With("repo", "CounterproposalRepo"),
	}
}

func (r *counterproposalRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *counterproposalRepo) Create(dbc dbctx.Context, row *types.Counterproposal) (*types.Counterproposal, error) {
	if row == nil {
		return nil, fmt.Errorf("missing counterproposal")
	}
	if row.ChangeID == uuid.Nil {
		return nil, fmt.Errorf("missing change id")
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *counterproposalRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Counterproposal, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing counterproposal id")
	}
	var out types.Counterproposal
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

func (r *counterproposalRepo) ListByChange(dbc dbctx.Context, changeID uuid.UUID) ([]*types.Counterproposal, error) {
	if changeID == uuid.Nil {
		return nil, fmt.Errorf("missing change id")
	}
	var out []*types.Counterproposal
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.Counterproposal{}).
		Where("change_id = ?", changeID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Accept marks a counterproposal accepted exactly once. A second call
// finds no unaccepted row and reports ErrNotFound.
func (r *counterproposalRepo) Accept(dbc dbctx.Context, id uuid.UUID) (*types.Counterproposal, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing counterproposal id")
	}
	now := time.Now().UTC()
	res := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.Counterproposal{}).
		Where("id = ? AND accepted = false", id).
		Updates(map[string]any{
			"accepted":    true,
			"accepted_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.ErrNotFound
	}
	return r.GetByID(dbc, id)
}
