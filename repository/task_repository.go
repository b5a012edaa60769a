package repository

import (
	"context"

	"github.com/RigelNana/edubridge/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskRepository interface {
	BaseRepository[models.Task]
	// CreateWithDomains inserts the task and its domain tags atomically.
	CreateWithDomains(ctx context.Context, task *models.Task, domains []string) error
	ListAll(ctx context.Context) ([]*models.Task, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Task, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Task, error)
	// DomainsByTaskIDs returns task_id -> domains for every given task.
	DomainsByTaskIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error)
}

type TaskRepositoryImpl struct {
	*BaseRepositoryImpl[models.Task]
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &TaskRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.Task](db, "task_id"),
	}
}

func (r *TaskRepositoryImpl) CreateWithDomains(ctx context.Context, task *models.Task, domains []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		if len(domains) == 0 {
			return nil
		}
		rows := make([]models.TaskDomain, 0, len(domains))
		for _, d := range domains {
			rows = append(rows, models.TaskDomain{TaskID: task.ID, Domain: d})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
}

func (r *TaskRepositoryImpl) ListAll(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Preload("Company").
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Where("posted_by = ?", companyID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Task, error) {
	var tasks []*models.Task
	if len(ids) == 0 {
		return tasks, nil
	}
	err := r.db.WithContext(ctx).Where("task_id IN ?", ids).Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) DomainsByTaskIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []models.TaskDomain
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", ids).
		Order("domain").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TaskID] = append(result[row.TaskID], row.Domain)
	}
	return result, nil
}
