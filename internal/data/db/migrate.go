package db

import (
	types "github.com/redlinehq/redline-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Negotiation core
		&types.NegotiationSession{},
		&types.DocumentRound{},
		&types.DocumentChange{},
		&types.Counterproposal{},

		// Knowledge sources
		&types.Clause{},
		&types.CompliancePolicy{},

		// Audit
		&types.AICallLog{},
	)
}
