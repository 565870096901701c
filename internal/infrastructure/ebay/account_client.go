package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/listflow/backend/internal/domain/listing"
)

const accountBasePath = "/sell/account/v1"

// AccountClient reads the seller's business policies from the eBay Account
// API on behalf of one user
type AccountClient struct {
	config     *Config
	httpClient *http.Client
}

// NewAccountClient creates an account client for the given configuration
func NewAccountClient(config *Config) (*AccountClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &AccountClient{
		config:     config,
		httpClient: &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second},
	}, nil
}

// GetFulfillmentPolicies returns the seller's fulfillment policies for the
// configured marketplace
func (c *AccountClient) GetFulfillmentPolicies(ctx context.Context, token string) ([]listing.PolicyRef, error) {
	var resp fulfillmentPoliciesResponse
	if err := c.get(ctx, "/fulfillment_policy", token, &resp); err != nil {
		return nil, err
	}
	refs := make([]listing.PolicyRef, 0, len(resp.FulfillmentPolicies))
	for _, p := range resp.FulfillmentPolicies {
		refs = append(refs, listing.PolicyRef{ID: p.FulfillmentPolicyID, Name: p.Name})
	}
	return refs, nil
}

// GetPaymentPolicies returns the seller's payment policies for the configured
// marketplace
func (c *AccountClient) GetPaymentPolicies(ctx context.Context, token string) ([]listing.PolicyRef, error) {
	var resp paymentPoliciesResponse
	if err := c.get(ctx, "/payment_policy", token, &resp); err != nil {
		return nil, err
	}
	refs := make([]listing.PolicyRef, 0, len(resp.PaymentPolicies))
	for _, p := range resp.PaymentPolicies {
		refs = append(refs, listing.PolicyRef{ID: p.PaymentPolicyID, Name: p.Name})
	}
	return refs, nil
}

// GetReturnPolicies returns the seller's return policies for the configured
// marketplace
func (c *AccountClient) GetReturnPolicies(ctx context.Context, token string) ([]listing.PolicyRef, error) {
	var resp returnPoliciesResponse
	if err := c.get(ctx, "/return_policy", token, &resp); err != nil {
		return nil, err
	}
	refs := make([]listing.PolicyRef, 0, len(resp.ReturnPolicies))
	for _, p := range resp.ReturnPolicies {
		refs = append(refs, listing.PolicyRef{ID: p.ReturnPolicyID, Name: p.Name})
	}
	return refs, nil
}

func (c *AccountClient) get(ctx context.Context, path, token string, target any) error {
	params := url.Values{"marketplace_id": {c.config.MarketplaceID}}
	endpoint := c.config.BaseURL + accountBasePath + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", listing.ErrMarketplaceAPI, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", listing.ErrMarketplaceAPI, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", listing.ErrMarketplaceAPI, err)
	}
	if !isSuccess(resp.StatusCode) {
		return apiError(listing.ErrMarketplaceAPI, "GET "+path, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: failed to parse response: %w", listing.ErrMarketplaceAPI, err)
	}
	return nil
}
