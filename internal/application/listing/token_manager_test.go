package listing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/listflow/backend/internal/domain/listing"
	"github.com/listflow/backend/internal/infrastructure/marketplace"
)

const testRefreshThreshold = 100 * time.Minute

func testAccount() listing.MarketplaceAccount {
	return listing.MarketplaceAccount{
		UserID:      uuid.New(),
		Marketplace: listing.MarketplaceEbay,
	}
}

func newTestTokenManager(platform *mockPlatform) (*TokenManager, *mockTokenStore, *mockTokenStore) {
	access := &mockTokenStore{}
	refresh := &mockTokenStore{}
	registry := marketplace.NewRegistry(platform)
	return NewTokenManager(access, refresh, registry, testRefreshThreshold), access, refresh
}

func TestAccessTokenCachedValid(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, access, refresh := newTestTokenManager(platform)
	account := testAccount()

	access.On("Get", mock.Anything, account).
		Return(&listing.AuthToken{Token: "cached", TTL: 2 * time.Hour}, nil)

	token, err := manager.AccessToken(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "cached", token)

	// The marketplace must not be contacted for a token that is still fresh
	platform.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything)
	refresh.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAccessTokenRefreshesStaleToken(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, access, refresh := newTestTokenManager(platform)
	account := testAccount()

	access.On("Get", mock.Anything, account).
		Return(&listing.AuthToken{Token: "stale", TTL: time.Minute}, nil)
	refresh.On("Get", mock.Anything, account).
		Return(&listing.AuthToken{Token: "refresh-token", TTL: 24 * time.Hour}, nil)
	platform.On("RefreshToken", mock.Anything, "refresh-token").
		Return(&listing.AuthToken{Token: "fresh", TTL: 2 * time.Hour}, nil).Once()
	access.On("Store", mock.Anything, account, listing.AuthToken{Token: "fresh", TTL: 2 * time.Hour}).
		Return(nil).Once()

	token, err := manager.AccessToken(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)

	platform.AssertExpectations(t)
	access.AssertExpectations(t)
}

func TestAccessTokenRefreshesOnCacheMiss(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, access, refresh := newTestTokenManager(platform)
	account := testAccount()

	access.On("Get", mock.Anything, account).Return(nil, nil)
	refresh.On("Get", mock.Anything, account).
		Return(&listing.AuthToken{Token: "refresh-token", TTL: 24 * time.Hour}, nil)
	platform.On("RefreshToken", mock.Anything, "refresh-token").
		Return(&listing.AuthToken{Token: "fresh", TTL: 2 * time.Hour}, nil).Once()
	access.On("Store", mock.Anything, account, mock.Anything).Return(nil)

	token, err := manager.AccessToken(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestAccessTokenToleratesBrokenCache(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, access, refresh := newTestTokenManager(platform)
	account := testAccount()

	access.On("Get", mock.Anything, account).
		Return(nil, errors.New("redis gone"))
	refresh.On("Get", mock.Anything, account).
		Return(&listing.AuthToken{Token: "refresh-token", TTL: 24 * time.Hour}, nil)
	platform.On("RefreshToken", mock.Anything, "refresh-token").
		Return(&listing.AuthToken{Token: "fresh", TTL: 2 * time.Hour}, nil)
	access.On("Store", mock.Anything, account, mock.Anything).Return(nil)

	token, err := manager.AccessToken(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}

func TestAccessTokenUnauthorizedWithoutRefreshToken(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, access, refresh := newTestTokenManager(platform)
	account := testAccount()

	access.On("Get", mock.Anything, account).Return(nil, nil)
	refresh.On("Get", mock.Anything, account).Return(nil, nil)

	_, err := manager.AccessToken(context.Background(), account)
	assert.ErrorIs(t, err, listing.ErrUnauthorized)

	platform.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything)
}

func TestAccessTokenUnauthorizedOnExpiredRefreshToken(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, access, refresh := newTestTokenManager(platform)
	account := testAccount()

	access.On("Get", mock.Anything, account).Return(nil, nil)
	refresh.On("Get", mock.Anything, account).Return(nil, listing.ErrTokenExpired)

	_, err := manager.AccessToken(context.Background(), account)
	assert.ErrorIs(t, err, listing.ErrUnauthorized)
}

func TestAccessTokenAuthorizationFailedOnRefreshError(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, access, refresh := newTestTokenManager(platform)
	account := testAccount()

	access.On("Get", mock.Anything, account).Return(nil, nil)
	refresh.On("Get", mock.Anything, account).
		Return(&listing.AuthToken{Token: "refresh-token", TTL: 24 * time.Hour}, nil)
	platform.On("RefreshToken", mock.Anything, "refresh-token").
		Return(nil, listing.ErrOAuthClient)

	_, err := manager.AccessToken(context.Background(), account)
	assert.ErrorIs(t, err, listing.ErrAuthorizationFailed)
}

func TestAccessTokenAuthorizationFailedOnStoreError(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, access, refresh := newTestTokenManager(platform)
	account := testAccount()

	access.On("Get", mock.Anything, account).Return(nil, nil)
	refresh.On("Get", mock.Anything, account).
		Return(&listing.AuthToken{Token: "refresh-token", TTL: 24 * time.Hour}, nil)
	platform.On("RefreshToken", mock.Anything, "refresh-token").
		Return(&listing.AuthToken{Token: "fresh", TTL: 2 * time.Hour}, nil)
	access.On("Store", mock.Anything, account, mock.Anything).
		Return(errors.New("redis gone"))

	_, err := manager.AccessToken(context.Background(), account)
	assert.ErrorIs(t, err, listing.ErrAuthorizationFailed)
}

func TestAccessTokenAuthorizationFailedOnRefreshStoreError(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, access, refresh := newTestTokenManager(platform)
	account := testAccount()

	access.On("Get", mock.Anything, account).Return(nil, nil)
	refresh.On("Get", mock.Anything, account).
		Return(nil, errors.New("database gone"))

	_, err := manager.AccessToken(context.Background(), account)
	assert.ErrorIs(t, err, listing.ErrAuthorizationFailed)
}

// memoryAccessStore is a stateful AccessTokenStore so concurrent callers
// observe each other's stored tokens
type memoryAccessStore struct {
	mu     sync.Mutex
	tokens map[listing.MarketplaceAccount]listing.AuthToken
}

func newMemoryAccessStore() *memoryAccessStore {
	return &memoryAccessStore{tokens: make(map[listing.MarketplaceAccount]listing.AuthToken)}
}

func (s *memoryAccessStore) Get(_ context.Context, account listing.MarketplaceAccount) (*listing.AuthToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[account]
	if !ok {
		return nil, nil
	}
	return &token, nil
}

func (s *memoryAccessStore) Store(_ context.Context, account listing.MarketplaceAccount, token listing.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[account] = token
	return nil
}

func (s *memoryAccessStore) Delete(_ context.Context, account listing.MarketplaceAccount) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[account]
	delete(s.tokens, account)
	return ok, nil
}

func TestAccessTokenConcurrentCallersRefreshOnce(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	access := newMemoryAccessStore()
	refresh := &mockTokenStore{}
	manager := NewTokenManager(access, refresh, marketplace.NewRegistry(platform), testRefreshThreshold)
	account := testAccount()

	refresh.On("Get", mock.Anything, account).
		Return(&listing.AuthToken{Token: "refresh-token", TTL: 24 * time.Hour}, nil)
	platform.On("RefreshToken", mock.Anything, "refresh-token").
		Return(&listing.AuthToken{Token: "fresh", TTL: 2 * time.Hour}, nil)

	const callers = 16
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = manager.AccessToken(context.Background(), account)
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "fresh", tokens[i])
	}

	// The first caller refreshes; everyone behind it reads the cached token
	platform.AssertNumberOfCalls(t, "RefreshToken", 1)
}

func TestAccessTokenRejectsInvalidAccount(t *testing.T) {
	platform := &mockPlatform{code: listing.MarketplaceEbay}
	manager, _, _ := newTestTokenManager(platform)

	_, err := manager.AccessToken(context.Background(), listing.MarketplaceAccount{})
	assert.ErrorIs(t, err, listing.ErrInvalidAccount)
}
