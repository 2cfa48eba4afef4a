package negotiation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Clause is a clause-library entry used as a drafting model.
type Clause struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`

	Title    string         `gorm:"column:title;not null" json:"title"`
	Body     string         `gorm:"column:body;not null" json:"body"`
	Category string         `gorm:"column:category;not null;default:'general';index" json:"category"`
	Tags     datatypes.JSON `gorm:"type:jsonb;column:tags;not null;default:'[]'" json:"tags,omitempty"`

	UsageCount int `gorm:"column:usage_count;not null;default:0" json:"usage_count"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Clause) TableName() string { return "clause" }
