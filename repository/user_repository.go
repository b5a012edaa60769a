package repository

import (
	"context"

	"github.com/RigelNana/edubridge/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	ListSkills(ctx context.Context, userID uuid.UUID) ([]string, error)
	// ReplaceSkills swaps the whole skill set in one transaction.
	ReplaceSkills(ctx context.Context, userID uuid.UUID, skills []string) error
	// AddSkills inserts skills, ignoring ones the user already has.
	AddSkills(ctx context.Context, userID uuid.UUID, skills []string) error
	RemoveSkills(ctx context.Context, userID uuid.UUID, skills []string) error
}

type UserRepositoryImpl struct {
	*BaseRepositoryImpl[models.User]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.User](db, "user_id"),
	}
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) ListAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) ListSkills(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return listSkills(r.db.WithContext(ctx), userID)
}

func (r *UserRepositoryImpl) ReplaceSkills(ctx context.Context, userID uuid.UUID, skills []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserSkill{}).Error; err != nil {
			return err
		}
		return insertSkills(tx, userID, skills)
	})
}

func (r *UserRepositoryImpl) AddSkills(ctx context.Context, userID uuid.UUID, skills []string) error {
	return insertSkills(r.db.WithContext(ctx), userID, skills)
}

func (r *UserRepositoryImpl) RemoveSkills(ctx context.Context, userID uuid.UUID, skills []string) error {
	if len(skills) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND skill IN ?", userID, skills).
		Delete(&models.UserSkill{}).Error
}

func listSkills(db *gorm.DB, userID uuid.UUID) ([]string, error) {
	var skills []string
	err := db.Model(&models.UserSkill{}).
		Where("user_id = ?", userID).
		Order("skill").
		Pluck("skill", &skills).Error
	return skills, err
}

func insertSkills(db *gorm.DB, userID uuid.UUID, skills []string) error {
	if len(skills) == 0 {
		return nil
	}
	rows := make([]models.UserSkill, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, models.UserSkill{UserID: userID, Skill: s})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
