package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/listflow/backend/internal/domain/listing"
	"github.com/listflow/backend/internal/infrastructure/persistence/models"
)

// GormRefreshTokenRepository implements the refresh token store using GORM.
// Rows are append-only; reads always take the newest row for an account.
type GormRefreshTokenRepository struct {
	db *gorm.DB
}

// NewGormRefreshTokenRepository creates a new GormRefreshTokenRepository
func NewGormRefreshTokenRepository(db *gorm.DB) *GormRefreshTokenRepository {
	return &GormRefreshTokenRepository{db: db}
}

// Get returns the newest refresh token stored for the account. Returns
// (nil, nil) when none is stored and listing.ErrTokenExpired when the newest
// one has already expired. TTL is computed from the stored expiry at read
// time.
func (r *GormRefreshTokenRepository) Get(ctx context.Context, account listing.MarketplaceAccount) (*listing.AuthToken, error) {
	var model models.RefreshTokenModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND marketplace = ?", account.UserID, account.Marketplace.String()).
		Order("created_at DESC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read refresh token: %w", listing.ErrTokenStore, err)
	}

	ttl := time.Until(model.ExpiresAt)
	if ttl <= 0 {
		return nil, listing.ErrTokenExpired
	}
	return &listing.AuthToken{Token: model.RefreshToken, TTL: ttl}, nil
}

// Store appends a refresh token row for the account
func (r *GormRefreshTokenRepository) Store(ctx context.Context, account listing.MarketplaceAccount, token listing.AuthToken) error {
	if token.TTL <= 0 {
		return fmt.Errorf("%w: refresh token ttl must be positive", listing.ErrTokenStore)
	}
	model := &models.RefreshTokenModel{
		UserID:       account.UserID,
		Marketplace:  account.Marketplace.String(),
		RefreshToken: token.Token,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(token.TTL),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("%w: failed to store refresh token: %w", listing.ErrTokenStore, err)
	}
	return nil
}

// Delete removes all refresh tokens for the account and reports whether any
// existed
func (r *GormRefreshTokenRepository) Delete(ctx context.Context, account listing.MarketplaceAccount) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.RefreshTokenModel{}, "user_id = ? AND marketplace = ?", account.UserID, account.Marketplace.String())
	if result.Error != nil {
		return false, fmt.Errorf("%w: failed to delete refresh tokens: %w", listing.ErrTokenStore, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormRefreshTokenRepository implements RefreshTokenStore
var _ listing.RefreshTokenStore = (*GormRefreshTokenRepository)(nil)
