package ebay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/listflow/backend/internal/domain/listing"
)

var errAppToken = errors.New("ebay: application token request failed")

// defaultRefreshTokenTTL is assumed when the authorization exchange does not
// report the refresh token lifetime. eBay refresh tokens live about 18
// months.
const defaultRefreshTokenTTL = 18 * 30 * 24 * time.Hour

// OAuthClient exchanges and parses eBay user OAuth tokens
type OAuthClient struct {
	config     *Config
	httpClient *http.Client
}

// NewOAuthClient creates an OAuth client for the given configuration
func NewOAuthClient(config *Config) (*OAuthClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &OAuthClient{
		config:     config,
		httpClient: &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second},
	}, nil
}

// Refresh exchanges a refresh token for a fresh access token
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*listing.AuthToken, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("scope", c.config.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+oauthTokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", listing.ErrOAuthClient, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh request failed: %w", listing.ErrOAuthClient, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read refresh response: %w", listing.ErrOAuthClient, err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, apiError(listing.ErrOAuthClient, "refresh token", resp.StatusCode, body)
	}

	token, err := parseTokenResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", listing.ErrOAuthClient, err)
	}
	return &listing.AuthToken{
		Token: token.AccessToken,
		TTL:   time.Duration(token.ExpiresIn) * time.Second,
	}, nil
}

// Parse extracts the access and refresh tokens from the raw payload of the
// authorization-code exchange. A missing refresh token lifetime falls back
// to defaultRefreshTokenTTL.
func (c *OAuthClient) Parse(raw map[string]any) (access listing.AuthToken, refresh listing.AuthToken, err error) {
	accessToken, ok := raw["access_token"].(string)
	if !ok || accessToken == "" {
		return access, refresh, fmt.Errorf("%w: payload has no access_token", listing.ErrOAuthClient)
	}
	expiresIn, ok := asSeconds(raw["expires_in"])
	if !ok {
		return access, refresh, fmt.Errorf("%w: payload has no expires_in", listing.ErrOAuthClient)
	}
	refreshToken, ok := raw["refresh_token"].(string)
	if !ok || refreshToken == "" {
		return access, refresh, fmt.Errorf("%w: payload has no refresh_token", listing.ErrOAuthClient)
	}

	refreshTTL := defaultRefreshTokenTTL
	if v, ok := asSeconds(raw["refresh_token_expires_in"]); ok {
		refreshTTL = v
	}

	access = listing.AuthToken{Token: accessToken, TTL: expiresIn}
	refresh = listing.AuthToken{Token: refreshToken, TTL: refreshTTL}
	return access, refresh, nil
}

func parseTokenResponse(body []byte) (*tokenResponse, error) {
	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("token response has no access token")
	}
	return &token, nil
}

func asSeconds(v any) (time.Duration, bool) {
	switch n := v.(type) {
	case float64:
		return time.Duration(n) * time.Second, true
	case int:
		return time.Duration(n) * time.Second, true
	case string:
		var parsed int
		if _, err := fmt.Sscanf(n, "%d", &parsed); err != nil {
			return 0, false
		}
		return time.Duration(parsed) * time.Second, true
	default:
		return 0, false
	}
}
