package service

import (
	"context"
	"errors"

	"github.com/taskmanager/taskmanager-go/internal/model"
	"github.com/taskmanager/taskmanager-go/internal/repository"
)

// UserStore extends CredentialStore with listing.
type UserStore interface {
	CredentialStore
	List(ctx context.Context) ([]model.User, error)
}

// UserService is the CRUD façade over users.
type UserService struct {
	users  UserStore
	hasher PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, hasher PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// List returns every user without password hashes.
func (s *UserService) List(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.UserResponse, len(users))
	for i, u := range users {
		result[i] = u.ToResponse()
	}
	return result, nil
}

// GetByUsername returns a single user.
func (s *UserService) GetByUsername(ctx context.Context, username string) (model.UserResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return user.ToResponse(), nil
}

// Create adds a user through the same path as registration, without
// issuing tokens.
func (s *UserService) Create(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	user, err := createUser(ctx, s.users, s.hasher, req)
	if err != nil {
		return model.UserResponse{}, err
	}
	return user.ToResponse(), nil
}
