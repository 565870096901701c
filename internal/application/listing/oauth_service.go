package listing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/listflow/backend/internal/domain/listing"
	"github.com/listflow/backend/internal/infrastructure/auth"
	"github.com/listflow/backend/internal/infrastructure/logger"
)

// MarketplaceOAuthService stores the tokens a marketplace hands back after
// the user grants consent, and revokes them on logout.
type MarketplaceOAuthService struct {
	platforms     listing.PlatformRegistry
	accessTokens  listing.AccessTokenStore
	refreshTokens listing.RefreshTokenStore
	tokens        *TokenManager
	jwt           *auth.JWTService
}

// NewMarketplaceOAuthService creates a marketplace OAuth service.
func NewMarketplaceOAuthService(
	platforms listing.PlatformRegistry,
	accessTokens listing.AccessTokenStore,
	refreshTokens listing.RefreshTokenStore,
	tokens *TokenManager,
	jwt *auth.JWTService,
) *MarketplaceOAuthService {
	return &MarketplaceOAuthService{
		platforms:     platforms,
		accessTokens:  accessTokens,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		jwt:           jwt,
	}
}

// AuthState issues the signed state token that rides along the OAuth
// redirect and identifies the user on the way back.
func (s *MarketplaceOAuthService) AuthState(userID uuid.UUID) (string, error) {
	state, err := s.jwt.GenerateStateToken(userID)
	if err != nil {
		return "", fmt.Errorf("%w: signing state token: %w", ErrOAuthService, err)
	}
	return state, nil
}

// SaveTokens verifies the OAuth state token, parses the marketplace's raw
// token response, and persists both the access and the refresh token for the
// identified user. It returns the user id the tokens were stored under.
func (s *MarketplaceOAuthService) SaveTokens(ctx context.Context, state string, marketplace listing.Marketplace, raw map[string]any) (uuid.UUID, error) {
	claims, err := s.jwt.ValidateStateToken(state)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	platform, err := s.platforms.Platform(marketplace)
	if err != nil {
		return uuid.Nil, err
	}

	accessToken, refreshToken, err := platform.ParseOAuthTokens(raw)
	if err != nil {
		return uuid.Nil, err
	}

	account := listing.MarketplaceAccount{UserID: userID, Marketplace: marketplace}
	if err := s.refreshTokens.Store(ctx, account, refreshToken); err != nil {
		return uuid.Nil, fmt.Errorf("%w: storing refresh token: %w", ErrOAuthService, err)
	}
	if err := s.accessTokens.Store(ctx, account, accessToken); err != nil {
		return uuid.Nil, fmt.Errorf("%w: storing access token: %w", ErrOAuthService, err)
	}

	logger.L(ctx).Info("marketplace authorized",
		zap.String("user_id", userID.String()),
		zap.String("marketplace", marketplace.String()))

	return userID, nil
}

// Logout deletes the stored tokens for the account. It reports whether any
// token was actually on record.
func (s *MarketplaceOAuthService) Logout(ctx context.Context, account listing.MarketplaceAccount) (bool, error) {
	if err := account.Validate(); err != nil {
		return false, err
	}

	accessDeleted, err := s.accessTokens.Delete(ctx, account)
	if err != nil {
		return false, fmt.Errorf("%w: deleting access token: %w", ErrOAuthService, err)
	}
	refreshDeleted, err := s.refreshTokens.Delete(ctx, account)
	if err != nil {
		return false, fmt.Errorf("%w: deleting refresh token: %w", ErrOAuthService, err)
	}
	s.tokens.Forget(account)

	loggedOut := accessDeleted || refreshDeleted
	if loggedOut {
		logger.L(ctx).Info("marketplace logged out",
			zap.String("user_id", account.UserID.String()),
			zap.String("marketplace", account.Marketplace.String()))
	}
	return loggedOut, nil
}
