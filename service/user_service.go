package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RigelNana/edubridge/models"
	"github.com/RigelNana/edubridge/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UserProfile is a user together with their skill set.
type UserProfile struct {
	*models.User
	Skills []string `json:"skills"`
}

type SkillSet struct {
	UserID uuid.UUID `json:"user_id"`
	Skills []string  `json:"skills"`
}

type UserService interface {
	Create(ctx context.Context, name, email string, role models.Role) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	// Me resolves the caller by id, falling back to the token email.
	Me(ctx context.Context, caller *Identity) (*UserProfile, error)
	ReplaceSkills(ctx context.Context, id uuid.UUID, skills []string) (*SkillSet, error)
	AddSkills(ctx context.Context, id uuid.UUID, skills []string) (*SkillSet, error)
	RemoveSkills(ctx context.Context, id uuid.UUID, skills []string) (*SkillSet, error)
}

type UserServiceImpl struct {
	repo repository.UserRepository
	log  logrus.FieldLogger
}

func NewUserService(repo repository.UserRepository, log logrus.FieldLogger) UserService {
	return &UserServiceImpl{repo: repo, log: log}
}

func (s *UserServiceImpl) Create(ctx context.Context, name, email string, role models.Role) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || role == "" {
		return nil, validationError("name, email, role are required")
	}
	if !role.Valid() {
		return nil, validationError("role must be either 'student' or 'company'")
	}

	user := &models.User{Name: name, Email: email, Role: role}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validationError("email %s is already registered", email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")
	return user, nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListAll(ctx)
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return s.profile(ctx, user)
}

func (s *UserServiceImpl) Me(ctx context.Context, caller *Identity) (*UserProfile, error) {
	if caller == nil {
		return nil, newError(ErrUnauthorized, "Authentication required")
	}
	user, err := s.repo.GetByID(ctx, caller.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) && caller.Email != "" {
		user, err = s.repo.GetByEmail(ctx, caller.Email)
	}
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return s.profile(ctx, user)
}

func (s *UserServiceImpl) ReplaceSkills(ctx context.Context, id uuid.UUID, skills []string) (*SkillSet, error) {
	return s.changeSkills(ctx, id, skills, s.repo.ReplaceSkills)
}

func (s *UserServiceImpl) AddSkills(ctx context.Context, id uuid.UUID, skills []string) (*SkillSet, error) {
	return s.changeSkills(ctx, id, skills, s.repo.AddSkills)
}

func (s *UserServiceImpl) RemoveSkills(ctx context.Context, id uuid.UUID, skills []string) (*SkillSet, error) {
	return s.changeSkills(ctx, id, skills, s.repo.RemoveSkills)
}

func (s *UserServiceImpl) changeSkills(
	ctx context.Context,
	id uuid.UUID,
	skills []string,
	apply func(context.Context, uuid.UUID, []string) error,
) (*SkillSet, error) {
	if skills == nil {
		return nil, validationError("skills must be an array")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, lookupError(err, "user")
	}
	if err := apply(ctx, id, normalizeSet(skills)); err != nil {
		return nil, fmt.Errorf("failed to update skills: %w", err)
	}
	current, err := s.repo.ListSkills(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return &SkillSet{UserID: id, Skills: nonNil(current)}, nil
}

func (s *UserServiceImpl) profile(ctx context.Context, user *models.User) (*UserProfile, error) {
	skills, err := s.repo.ListSkills(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	return &UserProfile{User: user, Skills: nonNil(skills)}, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
