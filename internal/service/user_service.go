package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"todoList/internal/apperr"
	"todoList/internal/logger"
	"todoList/internal/models/user"
	"todoList/internal/repository"

	"go.uber.org/zap"
)

type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) CreateUser(ctx context.Context, firstName string) (user.User, error) {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return user.User{}, apperr.NewValidationError("firstName", "must not be blank")
	}

	u := user.New(firstName)
	s.repo.AddUser(ctx, u)
	logger.Info("Service: user created", zap.String("user_id", u.ID.String()))
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id user.ID) (user.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			logger.Info("Service: user not found", zap.String("target_id", id.String()))
		}
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetUserByFirstName(ctx context.Context, firstName string) (user.User, error) {
	u, err := s.repo.GetUserByFirstName(ctx, firstName)
	if err != nil {
		return user.User{}, fmt.Errorf("get user by first name: %w", err)
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) []user.User {
	return s.repo.ListUsers(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, id user.ID, firstName string) error {
	if err := s.repo.UpdateUser(ctx, id, firstName); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	logger.Info("Service: user updated", zap.String("user_id", id.String()))
	return nil
}

// DeleteUser also removes every task the user created.
func (s *UserService) DeleteUser(ctx context.Context, id user.ID) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	logger.Info("Service: user deleted", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) Count(ctx context.Context) int {
	return s.repo.UserCount(ctx)
}
