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

const taxonomyBasePath = "/commerce/taxonomy/v1"

// TaxonomyClient talks to the eBay Taxonomy API. It authenticates with the
// application (client-credentials) token, not a user token.
type TaxonomyClient struct {
	config     *Config
	httpClient *http.Client
	tokens     *appTokenSource
}

// NewTaxonomyClient creates a taxonomy client for the given configuration
func NewTaxonomyClient(config *Config) (*TaxonomyClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	httpClient := &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second}
	return &TaxonomyClient{
		config:     config,
		httpClient: httpClient,
		tokens:     newAppTokenSource(config, httpClient),
	}, nil
}

// GetDefaultTreeID returns the default category tree id for a marketplace.
// EBAY_MOTORS has no tree of its own; the API expects EBAY_MOTORS_US.
func (c *TaxonomyClient) GetDefaultTreeID(ctx context.Context, marketplaceID string) (string, error) {
	if marketplaceID == "EBAY_MOTORS" {
		marketplaceID = "EBAY_MOTORS_US"
	}

	body, err := c.get(ctx, "/get_default_category_tree_id", url.Values{"marketplace_id": {marketplaceID}}, nil)
	if err != nil {
		return "", err
	}

	var resp defaultTreeIDResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to parse default tree response: %w", listing.ErrTaxonomyService, err)
	}
	if resp.CategoryTreeID == "" {
		return "", fmt.Errorf("%w: default tree response has no tree id", listing.ErrTaxonomyService)
	}
	return resp.CategoryTreeID, nil
}

// FetchCategoryTree retrieves the complete category tree for a marketplace
func (c *TaxonomyClient) FetchCategoryTree(ctx context.Context, treeID string) (*listing.CategoryNode, error) {
	body, err := c.get(ctx, "/category_tree/"+treeID, nil, map[string]string{"Accept-Encoding": "gzip"})
	if err != nil {
		return nil, err
	}

	var resp categoryTreeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse category tree: %w", listing.ErrTaxonomyService, err)
	}
	return toCategoryNode(resp.RootCategoryNode), nil
}

// GetItemAspects returns the aspect fields a category accepts
func (c *TaxonomyClient) GetItemAspects(ctx context.Context, treeID, categoryID string) ([]listing.AspectField, error) {
	body, err := c.get(ctx,
		fmt.Sprintf("/category_tree/%s/get_item_aspects_for_category", treeID),
		url.Values{"category_id": {categoryID}}, nil)
	if err != nil {
		return nil, err
	}

	var resp aspectMetadataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse aspect metadata: %w", listing.ErrTaxonomyService, err)
	}
	return toAspectFields(resp), nil
}

// GetCategorySuggestions returns category names the marketplace suggests for
// a query, most relevant first
func (c *TaxonomyClient) GetCategorySuggestions(ctx context.Context, treeID, query string) ([]string, error) {
	body, err := c.get(ctx,
		fmt.Sprintf("/category_tree/%s/get_category_suggestions", treeID),
		url.Values{"q": {query}}, nil)
	if err != nil {
		return nil, err
	}

	var resp categorySuggestionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse category suggestions: %w", listing.ErrTaxonomyService, err)
	}
	if len(resp.CategorySuggestions) == 0 {
		return nil, fmt.Errorf("%w: no suggestions for %q", listing.ErrCategoryNotFound, query)
	}

	names := make([]string, 0, len(resp.CategorySuggestions))
	for _, s := range resp.CategorySuggestions {
		names = append(names, s.Category.CategoryName)
	}
	return names, nil
}

func (c *TaxonomyClient) get(ctx context.Context, path string, params url.Values, headers map[string]string) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listing.ErrTaxonomyService, err)
	}

	endpoint := c.config.BaseURL + taxonomyBasePath + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", listing.ErrTaxonomyService, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", listing.ErrTaxonomyService, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", listing.ErrTaxonomyService, err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, apiError(listing.ErrTaxonomyService, "GET "+path, resp.StatusCode, body)
	}
	return body, nil
}

func toCategoryNode(node categoryTreeNodeResponse) *listing.CategoryNode {
	out := &listing.CategoryNode{
		ID:   node.Category.CategoryID,
		Name: node.Category.CategoryName,
		Leaf: node.LeafCategoryTreeNode,
	}
	for _, child := range node.ChildCategoryTreeNodes {
		out.Children = append(out.Children, toCategoryNode(child))
	}
	return out
}

// toAspectFields maps taxonomy aspect metadata to domain aspect fields.
// Multi-value cardinality wins over the declared scalar type. An aspect is
// required when eBay marks it required or marks its usage as recommended.
// Selection-only aspects carry their legal values as an enumeration.
func toAspectFields(metadata aspectMetadataResponse) []listing.AspectField {
	fields := make([]listing.AspectField, 0, len(metadata.Aspects))
	for _, aspect := range metadata.Aspects {
		constraint := aspect.AspectConstraint

		fieldType := listing.AspectTypeString
		if constraint.ItemToAspectCardinality == cardinalityMulti {
			fieldType = listing.AspectTypeList
		} else if constraint.AspectDataType == aspectDataTypeNumber {
			fieldType = listing.AspectTypeFloat
		}

		var allowed []string
		if constraint.AspectMode == aspectModeSelectionOnly {
			allowed = make([]string, 0, len(aspect.AspectValues))
			for _, v := range aspect.AspectValues {
				allowed = append(allowed, v.LocalizedValue)
			}
		}

		fields = append(fields, listing.AspectField{
			Name:          aspect.LocalizedAspectName,
			Type:          fieldType,
			Required:      constraint.AspectRequired || constraint.AspectUsage == aspectUsageRecommended,
			AllowedValues: allowed,
		})
	}
	return fields
}
