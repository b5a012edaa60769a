package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type CreateTaskInput struct {
	PostedBy    uuid.UUID
	Title       string
	Description string
	Domains     []string
	EffortHours *int
	ExpiryDate  *time.Time
}

type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Task, error)
	ListSubmissions(ctx context.Context, taskID uuid.UUID) ([]*models.Submission, error)
}

type TaskServiceImpl struct {
	users       repository.UserRepository
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	log         logrus.FieldLogger
}

func NewTaskService(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	submissions repository.SubmissionRepository,
	log logrus.FieldLogger,
) TaskService {
	return &TaskServiceImpl{users: users, tasks: tasks, submissions: submissions, log: log}
}

func (s *TaskServiceImpl) Create(ctx context.Context, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if in.PostedBy == uuid.Nil || title == "" {
		return nil, validationError("posted_by and title are required")
	}
	if in.EffortHours != nil && *in.EffortHours < 0 {
		return nil, validationError("effort_hours must not be negative")
	}

	company, err := s.users.GetByID(ctx, in.PostedBy)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	if company.Role != models.RoleCompany {
		return nil, newError(ErrForbidden, "Only company users can create tasks")
	}

	task := &models.Task{
		PostedBy:    company.ID,
		Title:       title,
		Description: in.Description,
		EffortHours: in.EffortHours,
	}
	if in.ExpiryDate != nil {
		d := datatypes.Date(*in.ExpiryDate)
		task.ExpiryDate = &d
	}
	domains := normalizeSet(in.Domains)
	if err := s.tasks.CreateWithDomains(ctx, task, domains); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	task.Domains = domains

	s.log.WithFields(logrus.Fields{"task_id": task.ID, "posted_by": task.PostedBy}).Info("task created")
	return task, nil
}

func (s *TaskServiceImpl) List(ctx context.Context) ([]*models.Task, error) {
	tasks, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return s.withDomains(ctx, tasks)
}

func (s *TaskServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "task")
	}
	if _, err := s.withDomains(ctx, []*models.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Task, error) {
	tasks, err := s.tasks.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company tasks: %w", err)
	}
	return s.withDomains(ctx, tasks)
}

func (s *TaskServiceImpl) ListSubmissions(ctx context.Context, taskID uuid.UUID) ([]*models.Submission, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, lookupError(err, "task")
	}
	return s.submissions.ListByTask(ctx, taskID)
}

func (s *TaskServiceImpl) withDomains(ctx context.Context, tasks []*models.Task) ([]*models.Task, error) {
	if len(tasks) == 0 {
		return tasks, nil
	}
	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	domains, err := s.tasks.DomainsByTaskIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load task domains: %w", err)
	}
	for _, t := range tasks {
		t.Domains = nonNil(domains[t.ID])
	}
	return tasks, nil
}
