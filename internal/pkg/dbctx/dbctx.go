package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries a request context together with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
