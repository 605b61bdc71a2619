package user

import (
	"context"
	"errors"
	"strings"

	"github.com/fkhayef/grouppic/pkg/apperror"
)

// ErrDuplicate is returned by the store when a username or email is taken.
var ErrDuplicate = errors.New("username or email already in use")

// Store defines the persistence operations the user service needs.
type Store interface {
	Create(ctx context.Context, req *CreateUserRequest) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	Update(ctx context.Context, userID string, req *UpdateUserRequest) (*User, error)
}

// Service handles user business logic
type Service struct {
	store Store
}

// NewService creates a new user service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new user profile
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, apperror.Invalid("username must not be empty")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, apperror.Invalid("email must not be empty")
	}

	user, err := s.store.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperror.Conflict(err.Error())
		}
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

// Update modifies the caller's own profile
func (s *Service) Update(ctx context.Context, userID string, req *UpdateUserRequest) (*User, error) {
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		return nil, apperror.Invalid("username must not be empty")
	}

	user, err := s.store.Update(ctx, userID, req)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperror.Conflict(err.Error())
		}
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}
