package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel is the persistence model for stored marketplace refresh
// tokens. Tokens are append-only; the newest row per account wins.
type RefreshTokenModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_refresh_tokens_account"`
	Marketplace  string    `gorm:"type:varchar(50);not null;index:idx_refresh_tokens_account"`
	RefreshToken string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"not null"`
	ExpiresAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
