package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/budgetsync/internal/auth"
	"github.com/mmynk/budgetsync/internal/models"
	"github.com/mmynk/budgetsync/internal/storage"
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// Register creates a new user account and returns a session token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", ErrInvalidRequest)
	}

	user, err := s.authenticator.Register(ctx, name, email, password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}

// GetProfile returns the user's account record.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotVisible
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ProfileUpdate carries optional profile changes; nil fields are left
// untouched.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// UpdateProfile applies profile changes and returns the updated record.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch ProfileUpdate) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotVisible
	}
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != "" {
		user.Name = *patch.Name
	}
	if patch.Email != nil && *patch.Email != "" {
		user.Email = *patch.Email
	}
	if patch.Password != nil && *patch.Password != "" {
		if err := s.authenticator.ValidateCredential(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, auth.ErrEmailExists
		}
		return nil, err
	}

	s.logger.Info("Profile updated", "user_id", user.ID)
	return user, nil
}
