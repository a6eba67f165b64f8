package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clegacy/internal/auth"
	apperrors "clegacy/internal/errors"
	"clegacy/internal/model"
	"clegacy/internal/repository"
)

// UserService exposes user management and volunteer sign-up.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	ListVolunteers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUser(ctx context.Context, id int, patch map[string]any) (*model.User, error)
	DeleteUser(ctx context.Context, id int) (*model.User, error)
	// Register signs up a volunteer, refusing an email already on file.
	Register(ctx context.Context, user *model.User) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// SeedDemoUsers writes the demonstration accounts when no users exist.
	SeedDemoUsers(ctx context.Context) (bool, error)
}

type userService struct {
	repo   repository.UserRepository
	logger AccessLogger
	hasher *auth.PasswordHasher
}

// NewUserService builds a UserService. Every read goes to the store.
func NewUserService(repo repository.UserRepository, logger AccessLogger, hasher *auth.PasswordHasher) UserService {
	return &userService{repo: repo, logger: logger, hasher: hasher}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id int) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) ListVolunteers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	volunteers := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.IsVolunteer() {
			volunteers = append(volunteers, u)
		}
	}
	return volunteers, nil
}

func (s *userService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := s.hashPassword(user); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	audit(ctx, s.logger, model.ActionCreatedUser)
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int, patch map[string]any) (*model.User, error) {
	if raw, ok := patch["password"]; ok {
		password, _ := raw.(string)
		if password == "" {
			delete(patch, "password")
		} else if !auth.IsHashed(password) {
			hashed, err := s.hasher.Hash(password)
			if err != nil {
				return nil, err
			}
			patch["password"] = hashed
		}
	}

	user, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	audit(ctx, s.logger, model.ActionUpdatedUser)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int) (*model.User, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	audit(ctx, s.logger, model.ActionDeletedUser)
	return user, nil
}

func (s *userService) Register(ctx context.Context, user *model.User) (*model.User, error) {
	user.Email = strings.TrimSpace(user.Email)
	exists, err := s.EmailExists(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyRegistered
	}

	user.Role = model.RoleVolunteer
	user.VolunteerHours = 0
	user.ProjectsParticipated = 0
	return s.CreateUser(ctx, user)
}

func (s *userService) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperrors.ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *userService) SeedDemoUsers(ctx context.Context) (bool, error) {
	users := DemoUsers()
	for i := range users {
		if err := s.hashPassword(&users[i]); err != nil {
			return false, err
		}
	}
	return s.repo.SeedIfAbsent(ctx, users)
}

func (s *userService) hashPassword(user *model.User) error {
	if user.Password == "" || auth.IsHashed(user.Password) {
		return nil
	}
	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed
	return nil
}
