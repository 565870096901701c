package ebay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/listflow/backend/internal/domain/listing"
)

const inventoryBasePath = "/sell/inventory/v1"

// SellingClient talks to the eBay Sell Inventory API on behalf of one user.
// Every call takes the user's access token explicitly.
type SellingClient struct {
	config     *Config
	httpClient *http.Client
}

// NewSellingClient creates a selling client for the given configuration
func NewSellingClient(config *Config) (*SellingClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SellingClient{
		config:     config,
		httpClient: &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second},
	}, nil
}

// CreateOrReplaceInventoryItem creates or fully replaces the inventory item
// stored under sku. Idempotent by sku.
func (c *SellingClient) CreateOrReplaceInventoryItem(ctx context.Context, sku string, item inventoryItemRequest, token string) error {
	headers := map[string]string{
		"Content-Type":     "application/json",
		"Accept-Language":  "en-US",
		"Content-Language": "en-US",
	}
	_, err := c.do(ctx, http.MethodPut, "/inventory_item/"+url.PathEscape(sku), item, token, headers)
	return err
}

// DeleteInventoryItem removes the inventory item stored under sku
func (c *SellingClient) DeleteInventoryItem(ctx context.Context, sku string, token string) error {
	_, err := c.do(ctx, http.MethodDelete, "/inventory_item/"+url.PathEscape(sku), nil, token, nil)
	return err
}

// CreateOffer creates an unpublished offer and returns its id
func (c *SellingClient) CreateOffer(ctx context.Context, offer offerRequest, token string) (string, error) {
	headers := map[string]string{
		"Content-Type":     "application/json",
		"Content-Language": "en-US",
	}
	body, err := c.do(ctx, http.MethodPost, "/offer", offer, token, headers)
	if err != nil {
		return "", err
	}

	var resp createOfferResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to parse offer response: %w", listing.ErrMarketplaceAPI, err)
	}
	if resp.OfferID == "" {
		return "", fmt.Errorf("%w: offer response has no offer id", listing.ErrMarketplaceAPI)
	}
	return resp.OfferID, nil
}

// PublishOffer publishes a previously created offer and returns the live
// listing id
func (c *SellingClient) PublishOffer(ctx context.Context, offerID string, token string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/offer/%s/publish", url.PathEscape(offerID)), nil, token, nil)
	if err != nil {
		return "", err
	}

	var resp publishOfferResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to parse publish response: %w", listing.ErrMarketplaceAPI, err)
	}
	return resp.ListingID, nil
}

// locationsPageSize is the largest page the Inventory API serves per request
const locationsPageSize = 100

// GetLocations returns all of the seller's inventory locations, paging
// through the API until the reported total is reached
func (c *SellingClient) GetLocations(ctx context.Context, token string) ([]listing.LocationRef, error) {
	var locations []listing.LocationRef
	for offset := 0; ; offset += locationsPageSize {
		path := fmt.Sprintf("/location?limit=%d&offset=%d", locationsPageSize, offset)
		body, err := c.do(ctx, http.MethodGet, path, nil, token, nil)
		if err != nil {
			return nil, err
		}

		var resp locationsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("%w: failed to parse locations response: %w", listing.ErrMarketplaceAPI, err)
		}
		for _, l := range resp.Locations {
			locations = append(locations, listing.LocationRef{Key: l.MerchantLocationKey, Name: l.Name})
		}
		if len(locations) >= resp.Total || len(resp.Locations) == 0 {
			return locations, nil
		}
	}
}

// DeleteOffer removes an unpublished offer
func (c *SellingClient) DeleteOffer(ctx context.Context, offerID string, token string) error {
	_, err := c.do(ctx, http.MethodDelete, "/offer/"+url.PathEscape(offerID), nil, token, nil)
	return err
}

func (c *SellingClient) do(ctx context.Context, method, path string, payload any, token string, headers map[string]string) ([]byte, error) {
	var reqBody *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request: %w", listing.ErrMarketplaceAPI, err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+inventoryBasePath+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", listing.ErrMarketplaceAPI, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", listing.ErrMarketplaceAPI, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", listing.ErrMarketplaceAPI, err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, apiError(listing.ErrMarketplaceAPI, method+" "+path, resp.StatusCode, body)
	}
	return body, nil
}
