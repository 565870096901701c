package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/listflow/backend/internal/domain/listing"
	"github.com/listflow/backend/internal/infrastructure/logger"
)

// Service-level errors
var (
	ErrSellingService = errors.New("listing: selling service failed")
	ErrSearchService  = errors.New("listing: search failed")
	ErrOAuthService   = errors.New("listing: oauth service failed")
	ErrInvalidState   = errors.New("listing: invalid oauth state")
)

// PublishRequest describes an item to be listed on a marketplace.
type PublishRequest struct {
	Title              string
	Description        string
	Price              decimal.Decimal
	Currency           string
	Country            string
	Quantity           int
	Category           string
	ProductAspects     map[string]any
	MarketplaceAspects map[string]any
	Images             [][]byte
}

// SellingService publishes items to marketplaces on behalf of users.
type SellingService struct {
	platforms listing.PlatformRegistry
	tokens    *TokenManager
}

// NewSellingService creates a selling service.
func NewSellingService(platforms listing.PlatformRegistry, tokens *TokenManager) *SellingService {
	return &SellingService{platforms: platforms, tokens: tokens}
}

// Publish validates the item against its category's aspect constraints,
// uploads the images, and lists the item on the account's marketplace.
// It returns the marketplace listing id.
func (s *SellingService) Publish(ctx context.Context, account listing.MarketplaceAccount, req *PublishRequest) (string, error) {
	if err := account.Validate(); err != nil {
		return "", err
	}

	platform, err := s.platforms.Platform(account.Marketplace)
	if err != nil {
		return "", err
	}

	marketplaceAspects, err := platform.DecodeMarketplaceAspects(req.MarketplaceAspects)
	if err != nil {
		return "", err
	}

	fields, err := platform.CategoryAspects(ctx, req.Category)
	if err != nil {
		if errors.Is(err, listing.ErrCategoryNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: loading category aspects: %w", ErrSellingService, err)
	}

	structure, err := listing.NewProductStructure(fields)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSellingService, err)
	}

	aspects, err := structure.Validate(req.ProductAspects)
	if err != nil {
		return "", fmt.Errorf("%w: %w", listing.ErrInvalidAspects, err)
	}

	item := &listing.Item{
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		Currency:           req.Currency,
		Country:            req.Country,
		Quantity:           req.Quantity,
		Category:           req.Category,
		ProductAspects:     aspects,
		MarketplaceAspects: marketplaceAspects,
	}
	if err := item.Validate(); err != nil {
		return "", err
	}

	token, err := s.tokens.AccessToken(ctx, account)
	if err != nil {
		return "", err
	}

	imageURLs := make([]string, 0, len(req.Images))
	for i, img := range req.Images {
		url, err := platform.UploadImage(ctx, token, img)
		if err != nil {
			return "", fmt.Errorf("%w: uploading image %d: %w", ErrSellingService, i, err)
		}
		imageURLs = append(imageURLs, url)
	}

	listingID, err := platform.Publish(ctx, item, token, imageURLs)
	if err != nil {
		if errors.Is(err, listing.ErrCategoryNotFound) || errors.Is(err, listing.ErrInvalidMarketplace) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrSellingService, err)
	}

	logger.L(ctx).Info("item published",
		zap.String("user_id", account.UserID.String()),
		zap.String("marketplace", account.Marketplace.String()),
		zap.String("listing_id", listingID),
		zap.String("category", req.Category))

	return listingID, nil
}

// AccountSettings returns the seller's business policies and inventory
// locations on the account's marketplace, so callers can pick the policy ids
// and location key their marketplace aspects reference.
func (s *SellingService) AccountSettings(ctx context.Context, account listing.MarketplaceAccount) (*listing.AccountSettings, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}

	platform, err := s.platforms.Platform(account.Marketplace)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.AccessToken(ctx, account)
	if err != nil {
		return nil, err
	}

	settings, err := platform.AccountSettings(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: loading account settings: %w", ErrSellingService, err)
	}
	return settings, nil
}
