package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
	appctx "github.com/rzkdmln/sicakap/internal/core/context"
	"github.com/rzkdmln/sicakap/pkg/logger"
)

// UserRepository defines user storage operations.
type UserRepository interface {
	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, userID int64) (*User, error)

	// Create creates a new user.
	Create(ctx context.Context, user *User) (int64, error)

	// UpdateLoginState persists login bookkeeping fields.
	UpdateLoginState(ctx context.Context, user *User) error
}

// SessionReleaser frees every registration number a session still holds.
// Implemented by the numbering service.
type SessionReleaser interface {
	ReleaseSession(ctx context.Context, sessionID string) []int
}

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// Service provides login, logout and session introspection.
type Service struct {
	userRepo   UserRepository
	jwtService *JWTService
	releaser   SessionReleaser
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(userRepo UserRepository, jwtService *JWTService, releaser SessionReleaser, config ServiceConfig) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
		releaser:   releaser,
		config:     config,
	}
}

// Login authenticates the operator and mints a fresh session id.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, apperror.NewValidation("username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, creds.Username)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		_ = s.userRepo.UpdateLoginState(ctx, user)
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	sessionID := uuid.NewString()
	token, expiresAt, err := s.jwtService.GenerateAccessToken(sessionID, user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	user.RecordSuccessfulLogin()
	_ = s.userRepo.UpdateLoginState(ctx, user)

	logger.Info(ctx, "user logged in",
		"user_id", user.ID,
		"username", user.Username,
		"session_id", sessionID)

	return &Session{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		SessionID: sessionID,
		User:      user,
	}, nil
}

// Logout releases every reservation the current session holds. The JWT
// stays valid until expiry, releasing the numbers is what matters.
func (s *Service) Logout(ctx context.Context) error {
	sess := appctx.GetSession(ctx)
	if sess == nil {
		return apperror.NewUnauthorized("no active session")
	}

	released := s.releaser.ReleaseSession(ctx, sess.SessionID)
	logger.Info(ctx, "user logged out",
		"username", sess.Username,
		"released_numbers", len(released))
	return nil
}

// Me returns the account behind the current session.
func (s *Service) Me(ctx context.Context) (*User, error) {
	sess := appctx.GetSession(ctx)
	if sess == nil {
		return nil, apperror.NewUnauthorized("no active session")
	}

	userID, err := strconv.ParseInt(sess.UserID, 10, 64)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid session")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", sess.UserID)
	}
	return user, nil
}

// Register creates a new operator account. Admin-only, enforced at the
// router level.
func (s *Service) Register(ctx context.Context, username, password, fullName, role string) (*User, error) {
	if username == "" {
		return nil, apperror.NewValidation("username is required").WithDetail("field", "username")
	}
	if len(password) < 8 {
		return nil, apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}
	if role == "" {
		role = RoleOperator
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	logger.Info(ctx, "user registered", "user_id", id, "username", username)
	return user, nil
}
