package negotiation

import (
	"time"

	"github.com/google/uuid"
)

// CompliancePolicy is a workspace-level rule the analysis prompt surfaces
// so the model can flag conflicting edits.
type CompliancePolicy struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`

	Name        string `gorm:"column:name;not null" json:"name"`
	Description string `gorm:"column:description;not null;default:''" json:"description"`
	Severity    string `gorm:"column:severity;not null;default:'medium'" json:"severity"`
	Enabled     bool   `gorm:"column:enabled;not null;default:true;index" json:"enabled"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CompliancePolicy) TableName() string { return "compliance_policy" }
