package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "musafir/internal/errors"
	"musafir/internal/models"
	"musafir/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// UpdateProfile patches name and phone only; nil fields keep current values.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, req *models.UpdateProfileRequest) (*models.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidation("name", "must not be empty")
		}
	}

	phone := current.Phone
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}

	user, err := s.userRepo.UpdateProfile(ctx, id, name, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, page, pageSize int) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// AdminAction applies activate/deactivate/promote to an account.
func (s *UserService) AdminAction(ctx context.Context, id int64, action string) error {
	switch action {
	case "activate":
		return s.userRepo.SetActive(ctx, id, true)
	case "deactivate":
		return s.userRepo.SetActive(ctx, id, false)
	case "promote":
		return s.userRepo.SetRole(ctx, id, models.RoleAdmin)
	default:
		return apperrors.NewValidation("action", "must be activate, deactivate or promote")
	}
}
