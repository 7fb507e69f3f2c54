package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudtask/task-service/internal/models"
	"github.com/cloudtask/task-service/internal/repository"
	"gorm.io/gorm"
)

// UserService syncs profiles from the identity provider. The provider owns
// identity; this service only mirrors uid and profile attributes.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// SyncInput carries the provider's view of a user.
type SyncInput struct {
	FirebaseUID string
	Name        string
	Email       string
	PhotoURL    string
}

// Sync creates or refreshes the local profile row for a provider identity.
func (s *UserService) Sync(input SyncInput) (*models.User, error) {
	if strings.TrimSpace(input.FirebaseUID) == "" {
		return nil, fmt.Errorf("%w: firebase uid is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidRequest)
	}

	user := &models.User{
		FirebaseUID: input.FirebaseUID,
		Name:        input.Name,
		Email:       input.Email,
		PhotoURL:    input.PhotoURL,
	}
	if err := s.userRepo.Upsert(user); err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}

	return s.GetByUID(input.FirebaseUID)
}

// GetByUID returns the local profile for a provider UID.
func (s *UserService) GetByUID(uid string) (*models.User, error) {
	user, err := s.userRepo.FindByUID(uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
