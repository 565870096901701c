package ebay

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const oauthTokenPath = "/identity/v1/oauth2/token"

// appTokenRefreshSlack renews the application token slightly before expiry
const appTokenRefreshSlack = time.Minute

// readBody drains a response, decompressing it when the server answered an
// explicit Accept-Encoding request with gzip. The transport only decompresses
// transparently when it negotiated the encoding itself.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("ebay: invalid gzip response: %w", err)
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(io.LimitReader(reader, maxResponseSize))
}

// apiError wraps an unexpected API response into base, keeping the raw body
// for diagnostics.
func apiError(base error, op string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%w: %s: status %d", base, op, status)
	}
	return fmt.Errorf("%w: %s: status %d: %s", base, op, status, msg)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// appTokenSource mints and caches the client-credentials application token
// used by the Taxonomy API. Safe for concurrent use.
type appTokenSource struct {
	config     *Config
	httpClient *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newAppTokenSource(config *Config, httpClient *http.Client) *appTokenSource {
	return &appTokenSource{config: config, httpClient: httpClient}
}

// Token returns a valid application token, refreshing it when the cached one
// is missing or about to expire.
func (s *appTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Add(appTokenRefreshSlack).Before(s.expiresAt) {
		return s.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", s.config.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.BaseURL+oauthTokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("ebay: failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.config.ClientID, s.config.ClientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ebay: application token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return "", fmt.Errorf("ebay: failed to read token response: %w", err)
	}
	if !isSuccess(resp.StatusCode) {
		return "", apiError(errAppToken, "mint application token", resp.StatusCode, body)
	}

	token, err := parseTokenResponse(body)
	if err != nil {
		return "", err
	}
	s.token = token.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return s.token, nil
}
