package handler

import (
	"github.com/gin-gonic/gin"

	applisting "github.com/listflow/backend/internal/application/listing"
	"github.com/listflow/backend/internal/domain/listing"
)

// OAuthHandler handles marketplace account connection endpoints
type OAuthHandler struct {
	BaseHandler
	oauthService *applisting.MarketplaceOAuthService
}

// NewOAuthHandler creates a new OAuthHandler
func NewOAuthHandler(oauthService *applisting.MarketplaceOAuthService) *OAuthHandler {
	return &OAuthHandler{oauthService: oauthService}
}

// AuthState issues the state token for a marketplace OAuth redirect
func (h *OAuthHandler) AuthState(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	state, err := h.oauthService.AuthState(userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"state": state})
}

// CallbackRequest carries the marketplace's raw token payload back to us
type CallbackRequest struct {
	State  string         `json:"state" binding:"required"`
	Tokens map[string]any `json:"tokens" binding:"required"`
}

// Callback stores the tokens the marketplace returned after user consent.
// The endpoint is unauthenticated; the signed state token identifies the user.
func (h *OAuthHandler) Callback(c *gin.Context) {
	marketplace, ok := marketplaceParam(c)
	if !ok {
		h.BadRequest(c, "Unknown marketplace")
		return
	}

	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID, err := h.oauthService.SaveTokens(c.Request.Context(), req.State, marketplace, req.Tokens)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"user_id": userID.String()})
}

// Logout disconnects the marketplace account by deleting its stored tokens
func (h *OAuthHandler) Logout(c *gin.Context) {
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
	loggedOut, err := h.oauthService.Logout(c.Request.Context(), account)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"logged_out": loggedOut})
}

// RegisterRoutes registers all marketplace OAuth routes
func (h *OAuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	oauth := rg.Group("/oauth")
	{
		oauth.GET("/:marketplace/state", h.AuthState)
		oauth.POST("/callback/:marketplace", h.Callback)
		oauth.DELETE("/:marketplace", h.Logout)
	}
}
