package service

import (
	"context"
	"fmt"

	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/pkg/metrics"
	"github.com/RigelNana/edubridge/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type PortfolioService interface {
	GetPortfolio(ctx context.Context, userID uuid.UUID) ([]PortfolioRecord, error)
	// AddEntry admits an eligible submission owned by userID. Adding the
	// same submission twice returns the existing entry.
	AddEntry(ctx context.Context, userID, submissionID uuid.UUID) (*models.PortfolioEntry, error)
}

type PortfolioServiceImpl struct {
	users       repository.UserRepository
	tasks       repository.TaskRepository
	submissions repository.SubmissionRepository
	portfolio   repository.PortfolioRepository
	log         logrus.FieldLogger
}

func NewPortfolioService(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	submissions repository.SubmissionRepository,
	portfolio repository.PortfolioRepository,
	log logrus.FieldLogger,
) PortfolioService {
	return &PortfolioServiceImpl{
		users:       users,
		tasks:       tasks,
		submissions: submissions,
		portfolio:   portfolio,
		log:         log,
	}
}

func (s *PortfolioServiceImpl) GetPortfolio(ctx context.Context, userID uuid.UUID) ([]PortfolioRecord, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	if user.Role != models.RoleStudent {
		return nil, newError(ErrForbidden, "Only students have portfolios")
	}

	subs, err := s.submissions.ListAcceptedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted submissions: %w", err)
	}
	if len(subs) == 0 {
		return []PortfolioRecord{}, nil
	}

	subIDs := make([]uuid.UUID, 0, len(subs))
	taskIDs := make([]uuid.UUID, 0, len(subs))
	seenTask := make(map[uuid.UUID]struct{}, len(subs))
	for _, sub := range subs {
		subIDs = append(subIDs, sub.ID)
		if _, ok := seenTask[sub.TaskID]; !ok {
			seenTask[sub.TaskID] = struct{}{}
			taskIDs = append(taskIDs, sub.TaskID)
		}
	}

	entries, err := s.portfolio.ListBySubmissionIDs(ctx, subIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio entries: %w", err)
	}
	if len(entries) == 0 {
		return []PortfolioRecord{}, nil
	}

	var (
		tasks   []*models.Task
		domains map[uuid.UUID][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.tasks.GetByIDs(gctx, taskIDs)
		return err
	})
	g.Go(func() error {
		var err error
		domains, err = s.tasks.DomainsByTaskIDs(gctx, taskIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load portfolio tasks: %w", err)
	}

	return AssemblePortfolio(userID, subs, entries, tasks, domains), nil
}

func (s *PortfolioServiceImpl) AddEntry(ctx context.Context, userID, submissionID uuid.UUID) (*models.PortfolioEntry, error) {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, lookupError(err, "submission")
	}
	if sub.UserID != userID {
		return nil, newError(ErrForbidden, "Submission does not belong to user")
	}
	if !IsPortfolioEligible(sub.Status, sub.Grade) {
		return nil, validationError("Only accepted submissions graded %.0f or higher can be added to a portfolio", PortfolioThreshold)
	}

	entry, created, err := s.portfolio.CreateIfAbsent(ctx, sub.ID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to add portfolio entry: %w", err)
	}
	if created {
		metrics.PortfolioEntriesCreated.Inc()
		s.log.WithFields(logrus.Fields{"user_id": userID, "submission_id": sub.ID}).Info("portfolio entry added")
	}
	return entry, nil
}
