package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PortfolioEntry admits one submission to its author's portfolio.
// submission_id is unique: a submission has at most one entry.
type PortfolioEntry struct {
	ID           uuid.UUID `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"submission_id"`
	AddedAt      time.Time `gorm:"autoCreateTime;index" json:"added_at"`
	Verified     bool      `gorm:"not null;default:false" json:"verified"`

	Submission *Submission `gorm:"foreignKey:SubmissionID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PortfolioEntry) TableName() string {
	return "portfolio_entries"
}

func (e *PortfolioEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
