package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusAccepted SubmissionStatus = "accepted"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusAccepted, SubmissionStatusRejected:
		return true
	}
	return false
}

type Submission struct {
	ID         uuid.UUID        `gorm:"column:submission_id;type:uuid;primaryKey" json:"submission_id"`
	TaskID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"task_id"`
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Status     SubmissionStatus `gorm:"type:varchar(20);not null;default:'pending';check:chk_submissions_status,status IN ('pending','accepted','rejected')" json:"status"`
	Grade      *float64         `gorm:"type:double precision" json:"grade"`
	Feedback   *string          `gorm:"type:text" json:"feedback"`
	SubmitTime time.Time        `gorm:"autoCreateTime;index" json:"submit_time"`

	Student *User `gorm:"foreignKey:UserID;references:ID" json:"users,omitempty"`
	Task    *Task `gorm:"foreignKey:TaskID;references:ID" json:"tasks,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// File is an uploaded attachment of a submission. Files are never mutated.
type File struct {
	ID           uuid.UUID      `gorm:"column:file_id;type:uuid;primaryKey" json:"file_id"`
	SubmissionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"submission_id"`
	ObjectPath   string         `gorm:"not null" json:"object_path"`
	FilePath     string         `gorm:"not null" json:"file_path"`
	FileType     string         `gorm:"not null" json:"file_type"`
	SizeBytes    int64          `gorm:"not null" json:"size_bytes"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`

	Submission *Submission `gorm:"foreignKey:SubmissionID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (File) TableName() string {
	return "files"
}

func (f *File) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
