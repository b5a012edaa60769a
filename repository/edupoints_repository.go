package repository

import (
	"context"

	"github.com/RigelNana/edubridge/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EduPointsRepository interface {
	Create(ctx context.Context, tx *models.EduPointsTransaction) error
	// ListByUserID returns the user's ledger, newest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.EduPointsTransaction, error)
	// WithinUserLock runs fn inside one database transaction that holds a
	// row lock on the user, so ledger reads and writes made through repo are
	// serialized against every other locked call for the same user.
	WithinUserLock(ctx context.Context, userID uuid.UUID, fn func(repo EduPointsRepository) error) error
}

type EduPointsRepositoryImpl struct {
	db *gorm.DB
}

func NewEduPointsRepository(db *gorm.DB) EduPointsRepository {
	return &EduPointsRepositoryImpl{db: db}
}

func (r *EduPointsRepositoryImpl) Create(ctx context.Context, tx *models.EduPointsTransaction) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
}

func (r *EduPointsRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.EduPointsTransaction, error) {
	var txs []*models.EduPointsTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("tx_time DESC").
		Find(&txs).Error
	return txs, err
}

func (r *EduPointsRepositoryImpl) WithinUserLock(ctx context.Context, userID uuid.UUID, fn func(repo EduPointsRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("user_id").
			First(&user, "user_id = ?", userID).Error
		if err != nil {
			return err
		}
		return fn(&EduPointsRepositoryImpl{db: tx})
	})
}
