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

type SessionRepo interface {
	Create(dbc dbctx.Context, row *types.NegotiationSession) (*types.NegotiationSession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.NegotiationSession, error)
	ListByCounterparty(dbc dbctx.Context, workspaceID uuid.UUID, counterparty string, limit int) ([]*types.NegotiationSession, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, log *logger.Logger) SessionRepo {
	return &sessionRepo{
		db:  db,
		log: log.With("repo", "SessionRepo"),
	}
}

func (r *sessionRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *sessionRepo) Create(dbc dbctx.Context, row *types.NegotiationSession) (*types.NegotiationSession, error) {
	if row == nil {
		return nil, fmt.Errorf("missing session")
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.NegotiationSession, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing session id")
	}
	var out types.NegotiationSession
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

func (r *sessionRepo) ListByCounterparty(dbc dbctx.Context, workspaceID uuid.UUID, counterparty string, limit int) ([]*types.NegotiationSession, error) {
	if workspaceID == uuid.Nil {
		return nil, fmt.Errorf("missing workspace id")
	}
	counterparty = strings.TrimSpace(counterparty)
	if counterparty == "" {
		return []*types.NegotiationSession{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var out []*types.NegotiationSession
	if err := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&types.NegotiationSession{}).
		Where("workspace_id = ? AND LOWER(counterparty_name) = LOWER(?)", workspaceID, counterparty).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
