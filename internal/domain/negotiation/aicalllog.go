package negotiation

import (
	"time"

	"github.com/google/uuid"
)

const (
	CallTypeAnalyze         = "analyze_change"
	CallTypeBatchAnalyze    = "batch_analyze"
	CallTypeCounterproposal = "counterproposal"
)

// AICallLog is an append-only audit row for one model invocation.
type AICallLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	ChangeID    *uuid.UUID `gorm:"type:uuid;index" json:"change_id,omitempty"`

	CallType string `gorm:"column:call_type;not null" json:"call_type"`
	Provider string `gorm:"column:provider;not null;default:''" json:"provider"`
	Model    string `gorm:"column:model;not null" json:"model"`
	Prompt   string `gorm:"column:prompt" json:"prompt"`
	Response string `gorm:"column:response" json:"response"`
	Success  bool   `gorm:"column:success;not null" json:"success"`
	Error    string `gorm:"column:error" json:"error"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (AICallLog) TableName() string { return "ai_call_log" }
