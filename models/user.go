package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleCompany Role = "company"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleCompany
}

type User struct {
	ID        uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Role      Role      `gorm:"type:varchar(20);not null;check:chk_users_role,role IN ('student','company')" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// UserSkill is one element of a user's skill set; (user_id, skill) is unique.
type UserSkill struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_skills_user_skill" json:"user_id"`
	Skill  string    `gorm:"not null;uniqueIndex:idx_user_skills_user_skill" json:"skill"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}

func (s *UserSkill) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
