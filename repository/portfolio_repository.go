package repository

import (
	"context"
	"errors"

	"github.com/RigelNana/edubridge/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PortfolioRepository interface {
	GetBySubmissionID(ctx context.Context, submissionID uuid.UUID) (*models.PortfolioEntry, error)
	// CreateIfAbsent returns the submission's entry, inserting it when missing.
	// created reports whether this call inserted the row.
	CreateIfAbsent(ctx context.Context, submissionID uuid.UUID, verified bool) (entry *models.PortfolioEntry, created bool, err error)
	ListBySubmissionIDs(ctx context.Context, submissionIDs []uuid.UUID) ([]*models.PortfolioEntry, error)
}

type PortfolioRepositoryImpl struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &PortfolioRepositoryImpl{db: db}
}

func (r *PortfolioRepositoryImpl) GetBySubmissionID(ctx context.Context, submissionID uuid.UUID) (*models.PortfolioEntry, error) {
	var entry models.PortfolioEntry
	err := r.db.WithContext(ctx).First(&entry, "submission_id = ?", submissionID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *PortfolioRepositoryImpl) CreateIfAbsent(ctx context.Context, submissionID uuid.UUID, verified bool) (*models.PortfolioEntry, bool, error) {
	existing, err := r.GetBySubmissionID(ctx, submissionID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	entry := &models.PortfolioEntry{SubmissionID: submissionID, Verified: verified}
	err = r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// a concurrent grader won the insert; hand back its row
		existing, err = r.GetBySubmissionID(ctx, submissionID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

func (r *PortfolioRepositoryImpl) ListBySubmissionIDs(ctx context.Context, submissionIDs []uuid.UUID) ([]*models.PortfolioEntry, error) {
	var entries []*models.PortfolioEntry
	if len(submissionIDs) == 0 {
		return entries, nil
	}
	err := r.db.WithContext(ctx).
		Where("submission_id IN ?", submissionIDs).
		Order("added_at DESC").
		Find(&entries).Error
	return entries, err
}
