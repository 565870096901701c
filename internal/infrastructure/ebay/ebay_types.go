package ebay

// Wire types for the eBay REST APIs. Field names follow eBay's camelCase
// JSON conventions.

// ---------------------------------------------------------------------------
// Taxonomy API
// ---------------------------------------------------------------------------

// Aspect constraint enumerations as the Taxonomy API spells them
const (
	aspectDataTypeString      = "STRING"
	aspectDataTypeStringArray = "STRING_ARRAY"
	aspectDataTypeNumber      = "NUMBER"
	aspectDataTypeDate        = "DATE"

	aspectModeFreeText      = "FREE_TEXT"
	aspectModeSelectionOnly = "SELECTION_ONLY"

	aspectUsageRecommended = "RECOMMENDED"
	aspectUsageOptional    = "OPTIONAL"

	cardinalityMulti  = "MULTI"
	cardinalitySingle = "SINGLE"
)

type defaultTreeIDResponse struct {
	CategoryTreeID      string `json:"categoryTreeId"`
	CategoryTreeVersion string `json:"categoryTreeVersion"`
}

type categoryResponse struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

type categoryTreeNodeResponse struct {
	Category               categoryResponse           `json:"category"`
	CategoryTreeNodeLevel  int                        `json:"categoryTreeNodeLevel"`
	LeafCategoryTreeNode   bool                       `json:"leafCategoryTreeNode"`
	ChildCategoryTreeNodes []categoryTreeNodeResponse `json:"childCategoryTreeNodes"`
}

type categoryTreeResponse struct {
	CategoryTreeID      string                   `json:"categoryTreeId"`
	CategoryTreeVersion string                   `json:"categoryTreeVersion"`
	RootCategoryNode    categoryTreeNodeResponse `json:"rootCategoryNode"`
}

type aspectValueResponse struct {
	LocalizedValue string `json:"localizedValue"`
}

type aspectConstraintResponse struct {
	AspectDataType          string `json:"aspectDataType"`
	AspectMode              string `json:"aspectMode"`
	AspectRequired          bool   `json:"aspectRequired"`
	AspectUsage             string `json:"aspectUsage"`
	ItemToAspectCardinality string `json:"itemToAspectCardinality"`
}

type aspectResponse struct {
	LocalizedAspectName string                   `json:"localizedAspectName"`
	AspectConstraint    aspectConstraintResponse `json:"aspectConstraint"`
	AspectValues        []aspectValueResponse    `json:"aspectValues"`
}

type aspectMetadataResponse struct {
	Aspects []aspectResponse `json:"aspects"`
}

type categorySuggestionResponse struct {
	Category categoryResponse `json:"category"`
}

type categorySuggestionsResponse struct {
	CategorySuggestions []categorySuggestionResponse `json:"categorySuggestions"`
	CategoryTreeID      string                       `json:"categoryTreeId"`
}

// ---------------------------------------------------------------------------
// Sell Inventory API
// ---------------------------------------------------------------------------

type shipToLocationAvailability struct {
	Quantity int `json:"quantity"`
}

type availability struct {
	ShipToLocationAvailability *shipToLocationAvailability `json:"shipToLocationAvailability,omitempty"`
}

type packageWeight struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

type packageDimensions struct {
	Height float64 `json:"height"`
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Unit   string  `json:"unit"`
}

type packageWeightAndSize struct {
	Weight     packageWeight      `json:"weight"`
	Dimensions *packageDimensions `json:"dimensions,omitempty"`
}

type inventoryProduct struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ImageURLs   []string            `json:"imageUrls,omitempty"`
	Aspects     map[string][]string `json:"aspects,omitempty"`
}

type inventoryItemRequest struct {
	Product              inventoryProduct      `json:"product"`
	Condition            string                `json:"condition"`
	ConditionDescription string                `json:"conditionDescription,omitempty"`
	Availability         availability          `json:"availability"`
	PackageWeightAndSize *packageWeightAndSize `json:"packageWeightAndSize,omitempty"`
}

type offerPrice struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type pricingSummary struct {
	Price offerPrice `json:"price"`
}

type listingPolicies struct {
	FulfillmentPolicyID string `json:"fulfillmentPolicyId"`
	PaymentPolicyID     string `json:"paymentPolicyId"`
	ReturnPolicyID      string `json:"returnPolicyId"`
}

type offerRequest struct {
	SKU                 string          `json:"sku"`
	Format              string          `json:"format"`
	MarketplaceID       string          `json:"marketplaceId"`
	CategoryID          string          `json:"categoryId"`
	AvailableQuantity   int             `json:"availableQuantity"`
	ListingPolicies     listingPolicies `json:"listingPolicies"`
	PricingSummary      pricingSummary  `json:"pricingSummary"`
	MerchantLocationKey string          `json:"merchantLocationKey"`
}

type createOfferResponse struct {
	OfferID string `json:"offerId"`
}

type publishOfferResponse struct {
	ListingID string `json:"listingId"`
}

type locationResponse struct {
	Name                string `json:"name"`
	MerchantLocationKey string `json:"merchantLocationKey"`
}

type locationsResponse struct {
	Locations []locationResponse `json:"locations"`
	Total     int                `json:"total"`
}

// ---------------------------------------------------------------------------
// Account API
// ---------------------------------------------------------------------------

type fulfillmentPolicyResponse struct {
	FulfillmentPolicyID string `json:"fulfillmentPolicyId"`
	Name                string `json:"name"`
}

type fulfillmentPoliciesResponse struct {
	FulfillmentPolicies []fulfillmentPolicyResponse `json:"fulfillmentPolicies"`
}

type paymentPolicyResponse struct {
	PaymentPolicyID string `json:"paymentPolicyId"`
	Name            string `json:"name"`
}

type paymentPoliciesResponse struct {
	PaymentPolicies []paymentPolicyResponse `json:"paymentPolicies"`
}

type returnPolicyResponse struct {
	ReturnPolicyID string `json:"returnPolicyId"`
	Name           string `json:"name"`
}

type returnPoliciesResponse struct {
	ReturnPolicies []returnPolicyResponse `json:"returnPolicies"`
}

// ---------------------------------------------------------------------------
// Media API
// ---------------------------------------------------------------------------

type uploadImageResponse struct {
	ImageURL string `json:"imageUrl"`
}

// ---------------------------------------------------------------------------
// OAuth API
// ---------------------------------------------------------------------------

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
