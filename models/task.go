package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Task struct {
	ID          uuid.UUID       `gorm:"column:task_id;type:uuid;primaryKey" json:"task_id"`
	PostedBy    uuid.UUID       `gorm:"type:uuid;not null;index" json:"posted_by"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	EffortHours *int            `json:"effort_hours"`
	ExpiryDate  *datatypes.Date `json:"expiry_date"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`

	// Domains is filled from task_domains; it is not a column.
	Domains []string `gorm:"-" json:"domains"`
	Company *User    `gorm:"foreignKey:PostedBy;references:ID" json:"users,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// TaskDomain tags a task; (task_id, domain) is unique.
type TaskDomain struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	TaskID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_task_domains_task_domain" json:"task_id"`
	Domain string    `gorm:"not null;uniqueIndex:idx_task_domains_task_domain" json:"domain"`

	Task *Task `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TaskDomain) TableName() string {
	return "task_domains"
}

func (d *TaskDomain) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
