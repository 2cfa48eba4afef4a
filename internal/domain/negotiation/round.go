package negotiation

import (
	"time"

	"github.com/google/uuid"
)

type DocumentRound struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`

	RoundNumber int    `gorm:"column:round_number;not null" json:"round_number"`
	SubmittedBy string `gorm:"column:submitted_by;not null;default:''" json:"submitted_by"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (DocumentRound) TableName() string { return "document_round" }
