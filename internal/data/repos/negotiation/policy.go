package negotiation

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

type PolicyRepo interface {
	Create(dbc dbctx.Context, rows []*types.CompliancePolicy) ([]*types.CompliancePolicy, error)
	ListEnabled(dbc dbctx.Context, workspaceID uuid.UUID) ([]*types.CompliancePolicy, error)
}

type policyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPolicyRepo(db *gorm.DB, log *logger.Logger) PolicyRepo {
	return &policyRepo{
		db:  db,
		log: log.With("repo", "PolicyRepo"),
	}
}

func (r *policyRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *policyRepo) Create(dbc dbctx.Context, rows []*types.CompliancePolicy) ([]*types.CompliancePolicy, error) {
	if len(rows) == 0 {
		return []*types.CompliancePolicy{}, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *policyRepo) ListEnabled(dbc dbctx.Context, workspaceID uuid.UUID) ([]*types.CompliancePolicy, error) {
	if workspaceID == uuid.Nil {
		return nil, fmt.Errorf("missing workspace id")
	}
	var out []*types.CompliancePolicy
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.CompliancePolicy{}).
		Where("workspace_id = ? AND enabled = true", workspaceID).
		Order("severity DESC, name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
