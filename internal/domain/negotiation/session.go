package negotiation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NegotiationSession struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`

	Title            string `gorm:"column:title;not null" json:"title"`
	CounterpartyName string `gorm:"column:counterparty_name;not null;default:'';index" json:"counterparty_name"`
	DocumentType     string `gorm:"column:document_type;not null;default:'contract'" json:"document_type"`
	Status           string `gorm:"column:status;not null;default:'active';index" json:"status"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (NegotiationSession) TableName() string { return "negotiation_session" }
