package listing

import (
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Marketplace Accounts & Tokens
// ---------------------------------------------------------------------------

// Marketplace represents a supported marketplace
type Marketplace string

const (
	// MarketplaceEbay represents the eBay marketplace
	MarketplaceEbay Marketplace = "EBAY"
)

// IsValid returns true if the marketplace is valid
func (m Marketplace) IsValid() bool {
	switch m {
	case MarketplaceEbay:
		return true
	default:
		return false
	}
}

// String returns the string representation of Marketplace
func (m Marketplace) String() string {
	return string(m)
}

// MarketplaceAccount identifies one user's relationship to one marketplace.
// It is a pure lookup key and is never mutated.
type MarketplaceAccount struct {
	// UserID is the local user identifier
	UserID uuid.UUID
	// Marketplace is the marketplace the account belongs to
	Marketplace Marketplace
}

// Validate checks the account key is usable
func (a MarketplaceAccount) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrInvalidAccount
	}
	if !a.Marketplace.IsValid() {
		return ErrInvalidAccount
	}
	return nil
}

// AuthToken is a credential with its remaining lifetime at read time. Access
// and refresh tokens share the shape but live in different stores with very
// different lifetimes.
type AuthToken struct {
	// Token is the opaque credential value
	Token string
	// TTL is the remaining lifetime at the moment the token was read
	TTL time.Duration
}

// Expired returns true if no lifetime remains
func (t AuthToken) Expired() bool {
	return t.TTL <= 0
}
