package listing

import (
	"context"
	"errors"
)

// ---------------------------------------------------------------------------
// Listing Errors
// ---------------------------------------------------------------------------

var (
	// Aspect and product validation errors
	ErrInvalidAspectField = errors.New("listing: invalid aspect field")
	ErrAspectValidation   = errors.New("listing: aspect validation failed")
	ErrInvalidAspects     = errors.New("listing: invalid product aspects")
	ErrInvalidMetadata    = errors.New("listing: invalid product metadata")

	// Taxonomy errors
	ErrCategoryNotFound = errors.New("listing: category not found")
	ErrTaxonomyService  = errors.New("listing: taxonomy service failed")

	// Marketplace API errors
	ErrMarketplaceAPI     = errors.New("listing: marketplace request failed")
	ErrPlatformNotFound   = errors.New("listing: marketplace not supported")
	ErrInvalidMarketplace = errors.New("listing: invalid marketplace aspects")

	// Authorization errors
	ErrUnauthorized        = errors.New("listing: marketplace account not authorized")
	ErrAuthorizationFailed = errors.New("listing: marketplace authorization failed")
	ErrOAuthClient         = errors.New("listing: oauth exchange failed")

	// Token store errors
	ErrTokenExpired = errors.New("listing: token expired")
	ErrTokenStore   = errors.New("listing: token store failed")

	// Account errors
	ErrInvalidAccount = errors.New("listing: invalid marketplace account")

	// Completion errors
	ErrCompletion = errors.New("listing: completion request failed")
)

// ---------------------------------------------------------------------------
// MarketplacePlatform Port Interface
// ---------------------------------------------------------------------------

// PolicyRef identifies one seller business policy by id and display name
type PolicyRef struct {
	ID   string
	Name string
}

// LocationRef identifies one merchant inventory location
type LocationRef struct {
	Key  string
	Name string
}

// AccountSettings are the seller-account objects a listing references:
// business policies and inventory locations
type AccountSettings struct {
	FulfillmentPolicies []PolicyRef
	PaymentPolicies     []PolicyRef
	ReturnPolicies      []PolicyRef
	Locations           []LocationRef
}

// MarketplacePlatform is the port interface one marketplace integration
// implements. It is defined in the domain layer; concrete adapters (eBay
// today) live in the infrastructure layer and are selected through the
// PlatformRegistry.
type MarketplacePlatform interface {
	// Code returns the marketplace this adapter handles
	Code() Marketplace

	// ResolveCategory maps a free-text category name to a leaf category of
	// the marketplace's default tree. Fails with ErrCategoryNotFound when no
	// leaf matches, ErrTaxonomyService on transport failure.
	ResolveCategory(ctx context.Context, name string) (*CategoryRef, error)

	// CategoryAspects returns the aspect fields the resolved category accepts
	CategoryAspects(ctx context.Context, name string) ([]AspectField, error)

	// SuggestCategories returns category names the marketplace suggests for a
	// product name, most relevant first
	SuggestCategories(ctx context.Context, query string) ([]string, error)

	// Publish creates the listing on the marketplace under the given access
	// token and returns the marketplace listing identifier. imageURLs have
	// already been uploaded and are referenced as-is.
	Publish(ctx context.Context, item *Item, accessToken string, imageURLs []string) (string, error)

	// UploadImage pushes raw image bytes to the marketplace's media store and
	// returns the hosted URL
	UploadImage(ctx context.Context, accessToken string, image []byte) (string, error)

	// AccountSettings returns the seller's business policies and inventory
	// locations under the given access token
	AccountSettings(ctx context.Context, accessToken string) (*AccountSettings, error)

	// RefreshToken exchanges a refresh token for a fresh access token.
	// Fails with ErrOAuthClient.
	RefreshToken(ctx context.Context, refreshToken string) (*AuthToken, error)

	// ParseOAuthTokens extracts the access and refresh tokens from the raw
	// payload of the marketplace's authorization-code exchange
	ParseOAuthTokens(raw map[string]any) (access AuthToken, refresh AuthToken, err error)

	// DecodeMarketplaceAspects validates a raw marketplace-aspects map
	// against the marketplace's fixed shape
	DecodeMarketplaceAspects(raw map[string]any) (MarketplaceAspects, error)

	// MetadataCodec returns the codec for the marketplace's metadata shape
	MetadataCodec() MetadataCodec
}

// PlatformRegistry resolves a marketplace code to its adapter
type PlatformRegistry interface {
	// Platform returns the adapter for the given marketplace.
	// Fails with ErrPlatformNotFound.
	Platform(code Marketplace) (MarketplacePlatform, error)

	// List returns all registered adapters
	List() []MarketplacePlatform
}

// ---------------------------------------------------------------------------
// Token Store Ports
// ---------------------------------------------------------------------------

// TokenStore persists auth tokens per marketplace account. Get distinguishes
// absence (nil, nil) from expiry (nil, ErrTokenExpired). Delete reports
// whether anything was actually removed so callers can tell "logged out" from
// "was not logged in".
type TokenStore interface {
	Get(ctx context.Context, account MarketplaceAccount) (*AuthToken, error)
	Store(ctx context.Context, account MarketplaceAccount, token AuthToken) error
	Delete(ctx context.Context, account MarketplaceAccount) (bool, error)
}

// AccessTokenStore holds short-lived access tokens
type AccessTokenStore interface {
	TokenStore
}

// RefreshTokenStore holds long-lived refresh tokens
type RefreshTokenStore interface {
	TokenStore
}

// ---------------------------------------------------------------------------
// Completion Port
// ---------------------------------------------------------------------------

// Role tags one side of a completion conversation
type Role string

const (
	// RoleSystem carries instructions to the model
	RoleSystem Role = "system"
	// RoleUser carries the caller's request
	RoleUser Role = "user"
)

// Message is one role-tagged message in a completion request
type Message struct {
	Role    Role
	Content string
}

// CompletionClient sends a role-tagged conversation to a language model and
// returns exactly one textual answer. schema, when non-nil, constrains the
// answer to the given JSON shape. Zero or more than one answer is a failure.
type CompletionClient interface {
	Complete(ctx context.Context, messages []Message, schema map[string]any) (string, error)
}
