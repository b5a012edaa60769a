package handler

import (
	"context"

	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/service"
	"github.com/google/uuid"
)

type stubUserService struct {
	service.UserService
	create  func(name, email string, role models.Role) (*models.User, error)
	getByID func(id uuid.UUID) (*service.UserProfile, error)
	me      func(caller *service.Identity) (*service.UserProfile, error)
	replace func(id uuid.UUID, skills []string) (*service.SkillSet, error)
}

func (s *stubUserService) Create(_ context.Context, name, email string, role models.Role) (*models.User, error) {
	return s.create(name, email, role)
}

func (s *stubUserService) GetByID(_ context.Context, id uuid.UUID) (*service.UserProfile, error) {
	return s.getByID(id)
}

func (s *stubUserService) Me(_ context.Context, caller *service.Identity) (*service.UserProfile, error) {
	return s.me(caller)
}

func (s *stubUserService) ReplaceSkills(_ context.Context, id uuid.UUID, skills []string) (*service.SkillSet, error) {
	return s.replace(id, skills)
}

type stubTaskService struct {
	service.TaskService
	create func(in service.CreateTaskInput) (*models.Task, error)
}

func (s *stubTaskService) Create(_ context.Context, in service.CreateTaskInput) (*models.Task, error) {
	return s.create(in)
}

type stubSubmissionService struct {
	service.SubmissionService
	create    func(caller *service.Identity, in service.CreateSubmissionInput) (*service.CreatedSubmission, error)
	grade     func(id uuid.UUID, grade float64, feedback *string) (*service.GradeResult, error)
	setStatus func(id uuid.UUID, update service.StatusUpdate) (*service.GradeResult, error)
}

func (s *stubSubmissionService) Create(_ context.Context, caller *service.Identity, in service.CreateSubmissionInput) (*service.CreatedSubmission, error) {
	return s.create(caller, in)
}

func (s *stubSubmissionService) GradeSubmission(_ context.Context, id uuid.UUID, grade float64, feedback *string) (*service.GradeResult, error) {
	return s.grade(id, grade, feedback)
}

func (s *stubSubmissionService) SetSubmissionStatus(_ context.Context, id uuid.UUID, update service.StatusUpdate) (*service.GradeResult, error) {
	return s.setStatus(id, update)
}

type stubPortfolioService struct {
	get func(userID uuid.UUID) ([]service.PortfolioRecord, error)
	add func(userID, submissionID uuid.UUID) (*models.PortfolioEntry, error)
}

func (s *stubPortfolioService) GetPortfolio(_ context.Context, userID uuid.UUID) ([]service.PortfolioRecord, error) {
	return s.get(userID)
}

func (s *stubPortfolioService) AddEntry(_ context.Context, userID, submissionID uuid.UUID) (*models.PortfolioEntry, error) {
	return s.add(userID, submissionID)
}

type stubEduPointsService struct {
	service.EduPointsService
	award  func(userID uuid.UUID, amount int64) (*models.EduPointsTransaction, error)
	redeem func(userID uuid.UUID, amount int64) (*models.EduPointsTransaction, error)
	ledger func(userID uuid.UUID) (*service.LedgerView, error)
}

func (s *stubEduPointsService) Award(_ context.Context, userID uuid.UUID, amount int64) (*models.EduPointsTransaction, error) {
	return s.award(userID, amount)
}

func (s *stubEduPointsService) Redeem(_ context.Context, userID uuid.UUID, amount int64) (*models.EduPointsTransaction, error) {
	return s.redeem(userID, amount)
}

func (s *stubEduPointsService) GetUserTransactions(_ context.Context, userID uuid.UUID) (*service.LedgerView, error) {
	return s.ledger(userID)
}
