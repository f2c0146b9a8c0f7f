package services

import (
	"context"

	"github.com/subtrack-dev/subtrack/internal/auth"
	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/domain/user"
	"github.com/subtrack-dev/subtrack/internal/pkg/errors"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
)

// UserService implements user.Service
type UserService struct {
	repo       user.Repository
	labels     label.Service
	bcryptCost int
	logger     *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, labels label.Service, bcryptCost int, log *logger.Logger) user.Service {
	return &UserService{
		repo:       repo,
		labels:     labels,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Register creates an account and seeds its default system labels.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("Email is already registered")
	}

	existing, err = s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("Username is already taken")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	id, err := s.repo.Create(ctx, u)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create user")
		return nil, err
	}
	u.ID = id

	if err := s.labels.SeedDefaults(ctx, id); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  id,
		"username": username,
	}).Info("User registered")

	return u, nil
}

// Authenticate verifies credentials. A missing account and a wrong password
// return the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, errors.Unauthorized("Invalid email or password")
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}
