package handler

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	applisting "github.com/listflow/backend/internal/application/listing"
	"github.com/listflow/backend/internal/domain/listing"
)

// SellingHandler handles item publishing endpoints
type SellingHandler struct {
	BaseHandler
	sellingService *applisting.SellingService
}

// NewSellingHandler creates a new SellingHandler
func NewSellingHandler(sellingService *applisting.SellingService) *SellingHandler {
	return &SellingHandler{sellingService: sellingService}
}

// PublishItemRequest is the payload for listing an item
type PublishItemRequest struct {
	Title              string         `json:"title" binding:"required"`
	Description        string         `json:"description"`
	Price              string         `json:"price" binding:"required"`
	Currency           string         `json:"currency" binding:"required,len=3"`
	Country            string         `json:"country" binding:"required,len=2"`
	Quantity           int            `json:"quantity" binding:"required,min=1"`
	Category           string         `json:"category" binding:"required"`
	ProductAspects     map[string]any `json:"product_aspects" binding:"required"`
	MarketplaceAspects map[string]any `json:"marketplace_aspects" binding:"required"`
	// Images are base64-encoded image files, uploaded in order
	Images []string `json:"images"`
}

// PublishItemResponse carries the created marketplace listing id
type PublishItemResponse struct {
	ListingID string `json:"listing_id"`
}

// Publish lists an item on the given marketplace
func (h *SellingHandler) Publish(c *gin.Context) {
	marketplace, ok := marketplaceParam(c)
	if !ok {
		h.BadRequest(c, "Unknown marketplace")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PublishItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.BadRequest(c, "Invalid price: "+req.Price)
		return
	}

	images := make([][]byte, 0, len(req.Images))
	for i, encoded := range req.Images {
		img, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			h.BadRequest(c, fmt.Sprintf("Image %d is not valid base64", i))
			return
		}
		images = append(images, img)
	}

	account := listing.MarketplaceAccount{UserID: userID, Marketplace: marketplace}
	listingID, err := h.sellingService.Publish(c.Request.Context(), account, &applisting.PublishRequest{
		Title:              req.Title,
		Description:        req.Description,
		Price:              price,
		Currency:           strings.ToUpper(req.Currency),
		Country:            strings.ToUpper(req.Country),
		Quantity:           req.Quantity,
		Category:           req.Category,
		ProductAspects:     req.ProductAspects,
		MarketplaceAspects: req.MarketplaceAspects,
		Images:             images,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, PublishItemResponse{ListingID: listingID})
}

// PolicyResponse is one seller business policy
type PolicyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LocationResponse is one merchant inventory location
type LocationResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// AccountSettingsResponse lists the seller-account objects a listing's
// marketplace aspects reference
type AccountSettingsResponse struct {
	FulfillmentPolicies []PolicyResponse   `json:"fulfillment_policies"`
	PaymentPolicies     []PolicyResponse   `json:"payment_policies"`
	ReturnPolicies      []PolicyResponse   `json:"return_policies"`
	Locations           []LocationResponse `json:"locations"`
}

// AccountSettings returns the seller's business policies and inventory
// locations on the given marketplace
func (h *SellingHandler) AccountSettings(c *gin.Context) {
	marketplace, ok := marketplaceParam(c)
	if !ok {
		h.BadRequest(c, "Unknown marketplace")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	account := listing.MarketplaceAccount{UserID: userID, Marketplace: marketplace}
	settings, err := h.sellingService.AccountSettings(c.Request.Context(), account)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAccountSettingsResponse(settings))
}

func toAccountSettingsResponse(settings *listing.AccountSettings) AccountSettingsResponse {
	policies := func(refs []listing.PolicyRef) []PolicyResponse {
		out := make([]PolicyResponse, 0, len(refs))
		for _, r := range refs {
			out = append(out, PolicyResponse{ID: r.ID, Name: r.Name})
		}
		return out
	}
	locations := make([]LocationResponse, 0, len(settings.Locations))
	for _, l := range settings.Locations {
		locations = append(locations, LocationResponse{Key: l.Key, Name: l.Name})
	}
	return AccountSettingsResponse{
		FulfillmentPolicies: policies(settings.FulfillmentPolicies),
		PaymentPolicies:     policies(settings.PaymentPolicies),
		ReturnPolicies:      policies(settings.ReturnPolicies),
		Locations:           locations,
	}
}

// RegisterRoutes registers all selling routes
func (h *SellingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	selling := rg.Group("/selling")
	{
		selling.POST("/:marketplace/publish", h.Publish)
		selling.GET("/:marketplace/account", h.AccountSettings)
	}
}

/// marketplaceParam parses the :marketplace path parameter
func marketplaceParam(c *gin.Context) (listing.Marketplace, bool) {
	m := listing.Marketplace(strings.ToUpper(c.Param("marketplace")))
	if !m.IsValid() {
		return "", false
	}
	return m, true
}
