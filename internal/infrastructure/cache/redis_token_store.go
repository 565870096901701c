package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/listflow/backend/internal/domain/listing"
)

// RedisAccessTokenStore implements the access token store using Redis.
// Tokens expire through Redis key TTLs, so remaining lifetime is read
// straight from the key.
type RedisAccessTokenStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisAccessTokenStore creates a Redis-backed access token store
func NewRedisAccessTokenStore(cfg RedisConfig) (*RedisAccessTokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAccessTokenStore{
		client:    client,
		keyPrefix: "marketplace:access_token:",
	}, nil
}

// NewRedisAccessTokenStoreWithClient creates a store with an existing Redis
// client. This is useful for testing or when sharing a client across
// components
func NewRedisAccessTokenStoreWithClient(client *redis.Client, keyPrefix string) *RedisAccessTokenStore {
	if keyPrefix == "" {
		keyPrefix = "marketplace:access_token:"
	}
	return &RedisAccessTokenStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *RedisAccessTokenStore) key(account listing.MarketplaceAccount) string {
	return fmt.Sprintf("%s%s:%s", s.keyPrefix, account.UserID, account.Marketplace)
}

// Get returns the stored access token with its remaining TTL. Returns
// (nil, nil) when no token is stored and listing.ErrTokenExpired when the
// key exists without remaining lifetime.
func (s *RedisAccessTokenStore) Get(ctx context.Context, account listing.MarketplaceAccount) (*listing.AuthToken, error) {
	key := s.key(account)

	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read access token: %w", listing.ErrTokenStore, err)
	}

	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read access token ttl: %w", listing.ErrTokenStore, err)
	}
	if ttl <= 0 {
		return nil, listing.ErrTokenExpired
	}

	return &listing.AuthToken{Token: value, TTL: ttl}, nil
}

// Store saves the access token under the account key with the token's TTL
func (s *RedisAccessTokenStore) Store(ctx context.Context, account listing.MarketplaceAccount, token listing.AuthToken) error {
	if token.TTL <= 0 {
		return fmt.Errorf("%w: access token ttl must be positive", listing.ErrTokenStore)
	}
	if err := s.client.Set(ctx, s.key(account), token.Token, token.TTL).Err(); err != nil {
		return fmt.Errorf("%w: failed to store access token: %w", listing.ErrTokenStore, err)
	}
	return nil
}

// Delete removes the stored access token and reports whether one existed
func (s *RedisAccessTokenStore) Delete(ctx context.Context, account listing.MarketplaceAccount) (bool, error) {
	removed, err := s.client.Del(ctx, s.key(account)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: failed to delete access token: %w", listing.ErrTokenStore, err)
	}
	return removed > 0, nil
}

// Close closes the Redis client
func (s *RedisAccessTokenStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisAccessTokenStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisAccessTokenStore implements AccessTokenStore
var _ listing.AccessTokenStore = (*RedisAccessTokenStore)(nil)
