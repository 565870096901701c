package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/listflow/backend/internal/domain/identity"
	"github.com/listflow/backend/internal/infrastructure/auth"
	"github.com/listflow/backend/internal/infrastructure/logger"
)

// AuthResult carries the outcome of a successful registration or login.
type AuthResult struct {
	UserID      uuid.UUID
	Email       string
	AccessToken string
}

// AuthService handles user registration and authentication.
type AuthService struct {
	users identity.UserRepository
	jwt   *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users identity.UserRepository, jwt *auth.JWTService) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Register creates a new user account and returns an access token for it.
func (s *AuthService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := identity.NewUser(email, password)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", identity.ErrRepository, err)
	}
	if existing != nil {
		return nil, identity.ErrEmailTaken
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: signing access token: %w", identity.ErrRepository, err)
	}

	logger.L(ctx).Info("user registered",
		zap.String("user_id", user.ID.String()))

	return &AuthResult{UserID: user.ID, Email: user.Email, AccessToken: token}, nil
}

// Login verifies the credentials and returns an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", identity.ErrRepository, err)
	}
	if user == nil {
		return nil, identity.ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		logger.L(ctx).Warn("failed login attempt",
			zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: signing access token: %w", identity.ErrRepository, err)
	}

	logger.L(ctx).Info("user logged in",
		zap.String("user_id", user.ID.String()))

	return &AuthResult{UserID: user.ID, Email: user.Email, AccessToken: token}, nil
}

// Validate checks an access token and confirms the user still exists.
// It returns the authenticated user's id.
func (s *AuthService) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", identity.ErrInvalidCredentials, err)
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", identity.ErrInvalidCredentials, err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", identity.ErrRepository, err)
	}
	if user == nil || user.Deleted {
		return uuid.Nil, identity.ErrUserNotFound
	}

	return user.ID, nil
}
