package repository

import (
	"context"

	"github.com/RigelNana/edubridge/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository interface {
	BaseRepository[models.Submission]
	// CreateWithFile inserts a submission together with its first file.
	CreateWithFile(ctx context.Context, sub *models.Submission, file *models.File) error
	GetDetailed(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Submission, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Submission, error)
	ListAcceptedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Submission, error)
	// UpdateFields applies updates and returns the stored row afterwards.
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Submission, error)
	ListFiles(ctx context.Context, submissionID uuid.UUID) ([]*models.File, error)
}

type SubmissionRepositoryImpl struct {
	*BaseRepositoryImpl[models.Submission]
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &SubmissionRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.Submission](db, "submission_id"),
	}
}

func (r *SubmissionRepositoryImpl) CreateWithFile(ctx context.Context, sub *models.Submission, file *models.File) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(sub).Error; err != nil {
			return err
		}
		file.SubmissionID = sub.ID
		return tx.Omit(clause.Associations).Create(file).Error
	})
}

func (r *SubmissionRepositoryImpl) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Task").
		First(&sub, "submission_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepositoryImpl) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Submission, error) {
	var subs []*models.Submission
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("task_id = ?", taskID).
		Order("submit_time DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Submission, error) {
	var subs []*models.Submission
	err := r.db.WithContext(ctx).
		Preload("Task").
		Where("user_id = ?", userID).
		Order("submit_time DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepositoryImpl) ListAcceptedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Submission, error) {
	var subs []*models.Submission
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.SubmissionStatusAccepted).
		Order("submit_time DESC").
		Find(&subs).Error
	return subs, err
}

func (r *SubmissionRepositoryImpl) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Submission{}).Where("submission_id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&sub, "submission_id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepositoryImpl) ListFiles(ctx context.Context, submissionID uuid.UUID) ([]*models.File, error) {
	var files []*models.File
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at").
		Find(&files).Error
	return files, err
}
