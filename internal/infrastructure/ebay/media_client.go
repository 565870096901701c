package ebay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/listflow/backend/internal/domain/listing"
)

const mediaBasePath = "/commerce/media/v1_beta"

// MediaClient uploads listing images through the eBay Media API
type MediaClient struct {
	config     *Config
	httpClient *http.Client
}

// NewMediaClient creates a media client for the given configuration
func NewMediaClient(config *Config) (*MediaClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &MediaClient{
		config:     config,
		httpClient: &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second},
	}, nil
}

// UploadImage pushes raw image bytes to eBay's media store and returns the
// hosted image URL
func (c *MediaClient) UploadImage(ctx context.Context, token string, image []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "image")
	if err != nil {
		return "", fmt.Errorf("%w: failed to build upload form: %w", listing.ErrMarketplaceAPI, err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("%w: failed to build upload form: %w", listing.ErrMarketplaceAPI, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to build upload form: %w", listing.ErrMarketplaceAPI, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.MediaBaseURL+mediaBasePath+"/image/create_image_from_file", &buf)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", listing.ErrMarketplaceAPI, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: image upload failed: %w", listing.ErrMarketplaceAPI, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read upload response: %w", listing.ErrMarketplaceAPI, err)
	}
	if !isSuccess(resp.StatusCode) {
		return "", apiError(listing.ErrMarketplaceAPI, "upload image", resp.StatusCode, body)
	}

	var parsed uploadImageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: failed to parse upload response: %w", listing.ErrMarketplaceAPI, err)
	}
	if parsed.ImageURL == "" {
		return "", fmt.Errorf("%w: upload response has no image url", listing.ErrMarketplaceAPI)
	}
	return parsed.ImageURL, nil
}
