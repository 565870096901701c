package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applisting "github.com/listflow/backend/internal/application/listing"
	"github.com/listflow/backend/internal/domain/identity"
	"github.com/listflow/backend/internal/domain/listing"
	"github.com/listflow/backend/internal/interfaces/http/dto"
	"github.com/listflow/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// getUserID extracts the authenticated user id from JWT claims
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(userIDStr)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// errorCodeFor maps service errors to API error codes
func errorCodeFor(err error) string {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return dto.ErrCodeInvalidCredentials
	case errors.Is(err, identity.ErrEmailTaken):
		return dto.ErrCodeAlreadyExists
	case errors.Is(err, identity.ErrUserNotFound):
		return dto.ErrCodeNotFound
	case errors.Is(err, identity.ErrInvalidEmail), errors.Is(err, identity.ErrWeakPassword):
		return dto.ErrCodeValidation

	case errors.Is(err, applisting.ErrInvalidState):
		return dto.ErrCodeInvalidState
	case errors.Is(err, listing.ErrCategoryNotFound):
		return dto.ErrCodeCategoryNotFound
	case errors.Is(err, listing.ErrInvalidAspects), errors.Is(err, listing.ErrInvalidMetadata):
		return dto.ErrCodeInvalidAspects
	case errors.Is(err, listing.ErrInvalidMarketplace):
		return dto.ErrCodeInvalidMarketplaceAspects
	case errors.Is(err, listing.ErrUnauthorized):
		return dto.ErrCodeMarketplaceUnauthorized
	case errors.Is(err, listing.ErrAuthorizationFailed):
		return dto.ErrCodeMarketplaceAuthFailed
	case errors.Is(err, listing.ErrOAuthClient):
		return dto.ErrCodeMarketplaceAuthFailed
	case errors.Is(err, listing.ErrPlatformNotFound):
		return dto.ErrCodeNotFound
	case errors.Is(err, listing.ErrInvalidAccount):
		return dto.ErrCodeBadRequest
	case errors.Is(err, listing.ErrCompletion):
		return dto.ErrCodeCompletionUnavailable
	case errors.Is(err, applisting.ErrSearchService),
		errors.Is(err, applisting.ErrSellingService),
		errors.Is(err, listing.ErrMarketplaceAPI),
		errors.Is(err, listing.ErrTaxonomyService):
		return dto.ErrCodeMarketplaceUnavailable

	default:
		return dto.ErrCodeInternal
	}
}

// HandleError converts service errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := errorCodeFor(err)
	message := err.Error()
	if code == dto.ErrCodeInternal {
		// Internals stay out of the response body
		message = "An unexpected error occurred"
	}
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}
