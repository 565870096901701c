package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeInvalidCredentials is used when login credentials are wrong
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeInvalidState is used when an OAuth state token fails verification
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeCategoryNotFound is used when a marketplace category cannot be resolved
	ErrCodeCategoryNotFound = "ERR_CATEGORY_NOT_FOUND"
)

// Listing error codes
const (
	// ErrCodeInvalidAspects is used when product aspects violate category constraints
	ErrCodeInvalidAspects = "ERR_INVALID_ASPECTS"
	// ErrCodeInvalidMarketplaceAspects is used when marketplace selling parameters are malformed
	ErrCodeInvalidMarketplaceAspects = "ERR_INVALID_MARKETPLACE_ASPECTS"
	// ErrCodeMarketplaceUnauthorized is used when the user never connected the marketplace account
	ErrCodeMarketplaceUnauthorized = "ERR_MARKETPLACE_UNAUTHORIZED"
	// ErrCodeMarketplaceAuthFailed is used when the marketplace token refresh fails
	ErrCodeMarketplaceAuthFailed = "ERR_MARKETPLACE_AUTH_FAILED"
	// ErrCodeMarketplaceUnavailable is used when the upstream marketplace call fails
	ErrCodeMarketplaceUnavailable = "ERR_MARKETPLACE_UNAVAILABLE"
	// ErrCodeCompletionUnavailable is used when the completion provider call fails
	ErrCodeCompletionUnavailable = "ERR_COMPLETION_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeInvalidState:       http.StatusUnauthorized,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeCategoryNotFound: http.StatusNotFound,

	ErrCodeInvalidAspects:            http.StatusUnprocessableEntity,
	ErrCodeInvalidMarketplaceAspects: http.StatusUnprocessableEntity,
	ErrCodeMarketplaceUnauthorized:   http.StatusForbidden,
	ErrCodeMarketplaceAuthFailed:     http.StatusBadGateway,
	ErrCodeMarketplaceUnavailable:    http.StatusBadGateway,
	ErrCodeCompletionUnavailable:     http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
