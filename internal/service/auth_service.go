package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"guessme/internal/database"
	"guessme/internal/models"
	"guessme/internal/repository"
	"guessme/internal/security"
	"guessme/internal/validation"

	"go.uber.org/zap"
)

// AuthService handles account signup, login and administration
type AuthService struct {
	users   *repository.UserRepository
	tokens  *security.TokenManager
	isAdmin func(email string) bool
	logger  *zap.SugaredLogger
}

// NewAuthService creates a new auth service. isAdmin decides which accounts
// receive the admin role at login.
func NewAuthService(db *database.DB, tokens *security.TokenManager, isAdmin func(email string) bool, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{
		users:   repository.NewUserRepository(db),
		tokens:  tokens,
		isAdmin: isAdmin,
		logger:  logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validation.ValidateUsername(username); err != nil {
		return nil, validationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, validationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, validationError(err.Error())
	}

	existing, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	existing, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, email, passwordHash)
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent signup
		return nil, s.duplicateError(ctx, username)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Infow("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// duplicateError names the field that collided once the other signup committed
func (s *AuthService) duplicateError(ctx context.Context, username string) error {
	existing, err := s.users.GetUserByUsername(ctx, username)
	if err == nil && existing != nil {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

// Login checks credentials, identifier being a username or an email, and
// issues a signed token
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.GetUserByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.users.GetUserByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	admin := s.isAdmin != nil && s.isAdmin(user.Email)
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, admin)
	if err != nil {
		return nil, err
	}

	return &models.Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		IsAdmin:   admin,
		ExpiresAt: expiresAt,
	}, nil
}

// ListUsers returns every account
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.GetAllUsers(ctx)
}

// DeleteUser removes an account with all its games, guesses, lives and stats
func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	deleted, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	s.logger.Infow("user deleted", "user_id", id)
	return nil
}
