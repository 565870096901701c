package handler

import (
	"github.com/gin-gonic/gin"

	applisting "github.com/listflow/backend/internal/application/listing"
)

// SearchHandler handles product research and taxonomy endpoints
type SearchHandler struct {
	BaseHandler
	searchService *applisting.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService *applisting.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// DescribeRequest asks for an LLM-generated product description
type DescribeRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Comment     string `json:"comment"`
}

// DescribeResponse carries the validated product the model produced
type DescribeResponse struct {
	Aspects  map[string]any `json:"aspects"`
	Metadata map[string]any `json:"metadata"`
}

// Describe researches a product within the constraints of a category
func (h *SearchHandler) Describe(c *gin.Context) {
	marketplace, ok := marketplaceParam(c)
	if !ok {
		h.BadRequest(c, "Unknown marketplace")
		return
	}

	var req DescribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.searchService.Describe(c.Request.Context(), marketplace, req.ProductName, req.Category, req.Comment)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DescribeResponse{
		Aspects:  product.AspectMap(),
		Metadata: product.Metadata.AsMap(),
	})
}

// SuggestCategories returns marketplace category suggestions for a query
func (h *SearchHandler) SuggestCategories(c *gin.Context) {
	marketplace, ok := marketplaceParam(c)
	if !ok {
		h.BadRequest(c, "Unknown marketplace")
		return
	}

	query := c.Query("q")
	if query == "" {
		h.BadRequest(c, "Query parameter 'q' is required")
		return
	}

	names, err := h.searchService.SuggestCategories(c.Request.Context(), marketplace, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"categories": names})
}

// ResolveCategory maps a category name to its marketplace identifier
func (h *SearchHandler) ResolveCategory(c *gin.Context) {
	marketplace, ok := marketplaceParam(c)
	if !ok {
		h.BadRequest(c, "Unknown marketplace")
		return
	}

	name := c.Query("name")
	if name == "" {
		h.BadRequest(c, "Query parameter 'name' is required")
		return
	}

	ref, err := h.searchService.ResolveCategory(c.Request.Context(), marketplace, name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"tree_id":     ref.TreeID,
		"category_id": ref.ID,
		"name":        ref.Name,
	})
}

// CategoryAspects returns the aspect fields a category accepts
func (h *SearchHandler) CategoryAspects(c *gin.Context) {
	marketplace, ok := marketplaceParam(c)
	if !ok {
		h.BadRequest(c, "Unknown marketplace")
		return
	}

	category := c.Query("category")
	if category == "" {
		h.BadRequest(c, "Query parameter 'category' is required")
		return
	}

	fields, err := h.searchService.ProductAspects(c.Request.Context(), marketplace, category)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	aspects := make([]gin.H, 0, len(fields))
	for _, f := range fields {
		aspects = append(aspects, gin.H{
			"name":           f.Name,
			"type":           f.Type,
			"required":       f.Required,
			"allowed_values": f.AllowedValues,
		})
	}
	h.Success(c, gin.H{"aspects": aspects})
}

// RegisterRoutes registers all search routes
func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	search := rg.Group("/search/:marketplace")
	{
		search.POST("/describe", h.Describe)
		search.GET("/categories/suggest", h.SuggestCategories)
		search.GET("/categories/resolve", h.ResolveCategory)
		search.GET("/categories/aspects", h.CategoryAspects)
	}
}
