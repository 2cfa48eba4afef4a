package negotiation

import (
	"time"

	"github.com/google/uuid"
)

const (
	ModeBalanced      = "balanced"
	ModeFavorable     = "favorable"
	ModeMinimalChange = "minimal_change"
)

// Counterproposal is model-authored compromise text for one change.
// Created once, optionally accepted exactly once, never otherwise mutated.
type Counterproposal struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChangeID uuid.UUID `gorm:"type:uuid;not null;index" json:"change_id"`

	Mode         string     `gorm:"column:mode;not null" json:"mode"`
	ProposedText string     `gorm:"column:proposed_text;not null" json:"proposed_text"`
	Rationale    string     `gorm:"column:rationale;not null" json:"rationale"`
	ClauseID     *uuid.UUID `gorm:"type:uuid;column:clause_id" json:"clause_id,omitempty"`

	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	Accepted   bool       `gorm:"column:accepted;not null;default:false" json:"accepted"`
	AcceptedAt *time.Time `gorm:"column:accepted_at" json:"accepted_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Counterproposal) TableName() string { return "counterproposal" }

func ValidMode(mode string) bool {
	switch mode {
	case ModeBalanced, ModeFavorable, ModeMinimalChange:
		return true
	default:
		return false
	}
}
