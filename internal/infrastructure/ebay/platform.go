package ebay

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/listflow/backend/internal/domain/listing"
	"github.com/listflow/backend/internal/infrastructure/logger"
)

// Platform implements the marketplace platform port for eBay. It composes
// the Taxonomy, Sell Inventory, Media and OAuth clients behind the single
// domain-facing interface.
type Platform struct {
	config        *Config
	taxonomy      *TaxonomyClient
	selling       *SellingClient
	media         *MediaClient
	oauth         *OAuthClient
	account       *AccountClient
	metadataCodec *MetadataCodec
	validate      *validator.Validate

	// newSKU generates the inventory SKU for each publish. Overridable in
	// tests.
	newSKU func() string
}

// NewPlatform creates the eBay platform adapter with all API clients
func NewPlatform(config *Config) (*Platform, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	taxonomy, err := NewTaxonomyClient(config)
	if err != nil {
		return nil, err
	}
	selling, err := NewSellingClient(config)
	if err != nil {
		return nil, err
	}
	media, err := NewMediaClient(config)
	if err != nil {
		return nil, err
	}
	oauth, err := NewOAuthClient(config)
	if err != nil {
		return nil, err
	}
	account, err := NewAccountClient(config)
	if err != nil {
		return nil, err
	}
	return &Platform{
		config:        config,
		taxonomy:      taxonomy,
		selling:       selling,
		media:         media,
		oauth:         oauth,
		account:       account,
		metadataCodec: NewMetadataCodec(),
		validate:      validator.New(),
		newSKU:        uuid.NewString,
	}, nil
}

// Code returns the marketplace this adapter handles
func (p *Platform) Code() listing.Marketplace {
	return listing.MarketplaceEbay
}

// ResolveCategory maps a free-text category name to a leaf of eBay's default
// category tree
func (p *Platform) ResolveCategory(ctx context.Context, name string) (*listing.CategoryRef, error) {
	treeID, err := p.taxonomy.GetDefaultTreeID(ctx, p.config.MarketplaceID)
	if err != nil {
		return nil, err
	}
	tree, err := p.taxonomy.FetchCategoryTree(ctx, treeID)
	if err != nil {
		return nil, err
	}
	node := tree.FindLeaf(name)
	if node == nil {
		return nil, fmt.Errorf("%w: %q", listing.ErrCategoryNotFound, name)
	}
	return &listing.CategoryRef{TreeID: treeID, ID: node.ID, Name: node.Name}, nil
}

// CategoryAspects returns the aspect fields the resolved category accepts
func (p *Platform) CategoryAspects(ctx context.Context, name string) ([]listing.AspectField, error) {
	ref, err := p.ResolveCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	return p.taxonomy.GetItemAspects(ctx, ref.TreeID, ref.ID)
}

// SuggestCategories returns category names eBay suggests for a product name
func (p *Platform) SuggestCategories(ctx context.Context, query string) ([]string, error) {
	treeID, err := p.taxonomy.GetDefaultTreeID(ctx, p.config.MarketplaceID)
	if err != nil {
		return nil, err
	}
	return p.taxonomy.GetCategorySuggestions(ctx, treeID, query)
}

// Publish creates the listing on eBay: inventory item, then offer, then
// publish, strictly in that order. On failure the already-created artifacts
// are cleaned up best-effort before the error is surfaced.
func (p *Platform) Publish(ctx context.Context, item *listing.Item, accessToken string, imageURLs []string) (string, error) {
	aspects, ok := item.MarketplaceAspects.(*Aspects)
	if !ok {
		return "", fmt.Errorf("%w: expected eBay aspects, got %T", listing.ErrInvalidMarketplace, item.MarketplaceAspects)
	}

	ref, err := p.ResolveCategory(ctx, item.Category)
	if err != nil {
		return "", err
	}

	sku := p.newSKU()
	if len(sku) > 50 {
		sku = sku[:50]
	}

	inventoryItem := toInventoryItem(item, aspects, imageURLs)
	if err := p.selling.CreateOrReplaceInventoryItem(ctx, sku, inventoryItem, accessToken); err != nil {
		p.publishCleanup(ctx, accessToken, sku, "")
		return "", err
	}

	offer := offerRequest{
		SKU:               sku,
		Format:            "FIXED_PRICE",
		MarketplaceID:     aspects.Marketplace,
		CategoryID:        ref.ID,
		AvailableQuantity: item.Quantity,
		ListingPolicies: listingPolicies{
			FulfillmentPolicyID: aspects.PolicyIDs.FulfillmentPolicyID,
			PaymentPolicyID:     aspects.PolicyIDs.PaymentPolicyID,
			ReturnPolicyID:      aspects.PolicyIDs.ReturnPolicyID,
		},
		PricingSummary: pricingSummary{
			Price: offerPrice{Currency: item.Currency, Value: item.Price.String()},
		},
		MerchantLocationKey: aspects.LocationKey,
	}
	offerID, err := p.selling.CreateOffer(ctx, offer, accessToken)
	if err != nil {
		p.publishCleanup(ctx, accessToken, sku, "")
		return "", err
	}

	listingID, err := p.selling.PublishOffer(ctx, offerID, accessToken)
	if err != nil {
		p.publishCleanup(ctx, accessToken, sku, offerID)
		return "", err
	}
	return listingID, nil
}

// publishCleanup removes artifacts left behind by a failed publish. Cleanup
// failures are logged and swallowed so they never mask the original error.
func (p *Platform) publishCleanup(ctx context.Context, token, sku, offerID string) {
	if offerID != "" {
		if err := p.selling.DeleteOffer(ctx, offerID, token); err != nil {
			logger.L(ctx).Warn("failed to clean up offer after failed publish",
				zap.String("offer_id", offerID), zap.Error(err))
		}
	}
	if err := p.selling.DeleteInventoryItem(ctx, sku, token); err != nil {
		logger.L(ctx).Warn("failed to clean up inventory item after failed publish",
			zap.String("sku", sku), zap.Error(err))
	}
}

// UploadImage pushes raw image bytes to eBay's media store
func (p *Platform) UploadImage(ctx context.Context, accessToken string, image []byte) (string, error) {
	return p.media.UploadImage(ctx, accessToken, image)
}

// AccountSettings returns the seller's business policies and inventory
// locations, the objects a listing's marketplace aspects reference by id and
// key
func (p *Platform) AccountSettings(ctx context.Context, accessToken string) (*listing.AccountSettings, error) {
	fulfillment, err := p.account.GetFulfillmentPolicies(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	payment, err := p.account.GetPaymentPolicies(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	returns, err := p.account.GetReturnPolicies(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	locations, err := p.selling.GetLocations(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &listing.AccountSettings{
		FulfillmentPolicies: fulfillment,
		PaymentPolicies:     payment,
		ReturnPolicies:      returns,
		Locations:           locations,
	}, nil
}

// RefreshToken exchanges a refresh token for a fresh access token
func (p *Platform) RefreshToken(ctx context.Context, refreshToken string) (*listing.AuthToken, error) {
	return p.oauth.Refresh(ctx, refreshToken)
}

// ParseOAuthTokens extracts tokens from the authorization-code exchange
// payload
func (p *Platform) ParseOAuthTokens(raw map[string]any) (listing.AuthToken, listing.AuthToken, error) {
	return p.oauth.Parse(raw)
}

// DecodeMarketplaceAspects validates a raw marketplace-aspects map against
// eBay's shape
func (p *Platform) DecodeMarketplaceAspects(raw map[string]any) (listing.MarketplaceAspects, error) {
	return decodeAspects(p.validate, raw)
}

// MetadataCodec returns the codec for eBay's metadata shape
func (p *Platform) MetadataCodec() listing.MetadataCodec {
	return p.metadataCodec
}

var _ listing.MarketplacePlatform = (*Platform)(nil)

// toInventoryItem maps a domain item onto eBay's inventory item shape.
// Aspect values become string lists as the Inventory API requires; empty
// values are dropped.
func toInventoryItem(item *listing.Item, aspects *Aspects, imageURLs []string) inventoryItemRequest {
	itemAspects := make(map[string][]string, len(item.ProductAspects))
	for _, aspect := range item.ProductAspects {
		if values := aspectStrings(aspect.Value); len(values) > 0 {
			itemAspects[aspect.Name] = values
		}
	}

	pkg := packageWeightAndSize{
		Weight: packageWeight{Unit: aspects.Package.Weight.Unit, Value: aspects.Package.Weight.Value},
	}
	if d := aspects.Package.Dimensions; d != nil {
		pkg.Dimensions = &packageDimensions{Height: d.Height, Length: d.Length, Width: d.Width, Unit: d.Unit}
	}

	return inventoryItemRequest{
		Product: inventoryProduct{
			Title:       item.Title,
			Description: item.Description,
			ImageURLs:   imageURLs,
			Aspects:     itemAspects,
		},
		Condition:            aspects.Condition,
		ConditionDescription: aspects.ConditionDescription,
		Availability: availability{
			ShipToLocationAvailability: &shipToLocationAvailability{Quantity: item.Quantity},
		},
		PackageWeightAndSize: &pkg,
	}
}

func aspectStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		s := fmt.Sprint(v)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []string{s}
	}
}
