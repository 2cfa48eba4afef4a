package negotiation

import (
	"gorm.io/gorm"

	types "github.com/redlinehq/redline-backend/internal/domain"
	"github.com/redlinehq/redline-backend/internal/pkg/dbctx"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

type AICallLogRepo interface {
	Create(dbc dbctx.Context, rows []*types.AICallLog) ([]*types.AICallLog, error)
}

type aiCallLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAICallLogRepo(db *gorm.DB, log *logger.Logger) AICallLogRepo {
	return &aiCallLogRepo{
		db:  db,
		log: log.With("repo", "AICallLogRepo"),
	}
}

func (r *aiCallLogRepo) Create(dbc dbctx.Context, rows []*types.AICallLog) ([]*types.AICallLog, error) {
	if len(rows) == 0 {
		return []*types.AICallLog{}, nil
	}
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
