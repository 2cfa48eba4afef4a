package negotiation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Change kinds as produced by the diff engine.
const (
	ChangeKindInsert  = "insert"
	ChangeKindDelete  = "delete"
	ChangeKindReplace = "replace"
)

const (
	CategorySubstantive = "substantive"
	CategoryEditorial   = "editorial"
	CategoryStructural  = "structural"
)

const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

const (
	ChangeStatusPending   = "pending"
	ChangeStatusAccepted  = "accepted"
	ChangeStatusRejected  = "rejected"
	ChangeStatusCountered = "countered"
)

// DocumentChange is one detected edit between two round snapshots.
// AIAnalysis and RiskLevel are written together: risk level is
// denormalized from the analysis for query efficiency.
type DocumentChange struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	RoundID   uuid.UUID `gorm:"type:uuid;not null;index" json:"round_id"`

	ChangeKind     string  `gorm:"column:change_kind;not null" json:"change_kind"`
	Category       string  `gorm:"column:category;not null;default:'substantive';index" json:"category"`
	SectionHeading *string `gorm:"column:section_heading" json:"section_heading,omitempty"`
	OriginalText   *string `gorm:"column:original_text" json:"original_text,omitempty"`
	ProposedText   *string `gorm:"column:proposed_text" json:"proposed_text,omitempty"`
	StartOffset    int     `gorm:"column:start_offset;not null;default:0" json:"start_offset"`
	EndOffset      int     `gorm:"column:end_offset;not null;default:0" json:"end_offset"`

	Status     string         `gorm:"column:status;not null;default:'pending';index" json:"status"`
	RiskLevel  *string        `gorm:"column:risk_level;index" json:"risk_level,omitempty"`
	AIAnalysis datatypes.JSON `gorm:"type:jsonb;column:ai_analysis" json:"ai_analysis,omitempty"`

	ResolvedBy *uuid.UUID `gorm:"type:uuid;column:resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (DocumentChange) TableName() string { return "document_change" }

// Text returns the proposed text when present, else the original text.
func (c *DocumentChange) Text() string {
	if c == nil {
		return ""
	}
	if c.ProposedText != nil && *c.ProposedText != "" {
		return *c.ProposedText
	}
	if c.OriginalText != nil {
		return *c.OriginalText
	}
	return ""
}

func (c *DocumentChange) HasAnalysis() bool {
	return c != nil && len(c.AIAnalysis) > 0 && string(c.AIAnalysis) != "null"
}
