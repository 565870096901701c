package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/listflow/backend/internal/domain/listing"
	"github.com/listflow/backend/internal/infrastructure/logger"
)

// TokenManager hands out marketplace access tokens, refreshing them from the
// stored refresh token when the cached token is missing or close to expiry.
type TokenManager struct {
	accessTokens     listing.AccessTokenStore
	refreshTokens    listing.RefreshTokenStore
	platforms        listing.PlatformRegistry
	refreshThreshold time.Duration

	mu    sync.Mutex
	locks map[listing.MarketplaceAccount]*sync.Mutex
}

// NewTokenManager creates a token manager. refreshThreshold is the minimum
// remaining lifetime a cached access token must have to be handed out as is.
func NewTokenManager(
	accessTokens listing.AccessTokenStore,
	refreshTokens listing.RefreshTokenStore,
	platforms listing.PlatformRegistry,
	refreshThreshold time.Duration,
) *TokenManager {
	return &TokenManager{
		accessTokens:     accessTokens,
		refreshTokens:    refreshTokens,
		platforms:        platforms,
		refreshThreshold: refreshThreshold,
		locks:            make(map[listing.MarketplaceAccount]*sync.Mutex),
	}
}

// AccessToken returns a valid access token for the account.
//
// A cached token with at least refreshThreshold of lifetime left is returned
// without touching the marketplace. Otherwise the stored refresh token is
// exchanged for a fresh access token, which is cached before being returned.
// Accounts that never authorized (no refresh token on record) get
// listing.ErrUnauthorized; failures along the refresh path get
// listing.ErrAuthorizationFailed.
func (m *TokenManager) AccessToken(ctx context.Context, account listing.MarketplaceAccount) (string, error) {
	if err := account.Validate(); err != nil {
		return "", err
	}

	// Serialize per account so concurrent callers trigger one refresh.
	lock := m.accountLock(account)
	lock.Lock()
	defer lock.Unlock()

	cached, err := m.accessTokens.Get(ctx, account)
	if err != nil {
		// A broken or expired cache entry is recoverable, fall through
		// to the refresh path.
		logger.L(ctx).Debug("access token cache miss",
			zap.String("marketplace", account.Marketplace.String()),
			zap.Error(err))
	}
	if cached != nil && cached.TTL >= m.refreshThreshold {
		return cached.Token, nil
	}

	refresh, err := m.refreshTokens.Get(ctx, account)
	if errors.Is(err, listing.ErrTokenExpired) {
		return "", fmt.Errorf("%w: refresh token for %s expired", listing.ErrUnauthorized, account.Marketplace)
	}
	if err != nil {
		return "", fmt.Errorf("%w: reading refresh token: %w", listing.ErrAuthorizationFailed, err)
	}
	if refresh == nil {
		return "", fmt.Errorf("%w: no refresh token for %s", listing.ErrUnauthorized, account.Marketplace)
	}

	platform, err := m.platforms.Platform(account.Marketplace)
	if err != nil {
		return "", fmt.Errorf("%w: %w", listing.ErrAuthorizationFailed, err)
	}

	token, err := platform.RefreshToken(ctx, refresh.Token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", listing.ErrAuthorizationFailed, err)
	}

	if err := m.accessTokens.Store(ctx, account, *token); err != nil {
		return "", fmt.Errorf("%w: caching access token: %w", listing.ErrAuthorizationFailed, err)
	}

	logger.L(ctx).Info("access token refreshed",
		zap.String("user_id", account.UserID.String()),
		zap.String("marketplace", account.Marketplace.String()),
		zap.Duration("ttl", token.TTL))

	return token.Token, nil
}

// Forget drops the account's serialization lock so the lock map does not
// accumulate entries for accounts that logged out. A caller still holding the
// old lock finishes its refresh undisturbed.
func (m *TokenManager) Forget(account listing.MarketplaceAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, account)
}

func (m *TokenManager) accountLock(account listing.MarketplaceAccount) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[account]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[account] = lock
	}
	return lock
}
