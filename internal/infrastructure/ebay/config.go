// Package ebay implements the marketplace platform port against the eBay
// Sell, Taxonomy, Media and OAuth APIs.
package ebay

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DomainProduction is the production eBay API host
	DomainProduction = "api.ebay.com"
	// DomainSandbox is the sandbox eBay API host
	DomainSandbox = "api.sandbox.ebay.com"

	defaultTimeoutSeconds = 30

	// maxResponseSize limits response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB max response
)

// Config holds eBay API credentials and endpoints for one deployment
type Config struct {
	// Domain selects production or sandbox
	Domain string `mapstructure:"domain"`
	// ClientID is the OAuth application client id (eBay "App ID")
	ClientID string `mapstructure:"client_id"`
	// ClientSecret is the OAuth application secret (eBay "Cert ID")
	ClientSecret string `mapstructure:"client_secret"`
	// RedirectURI is the registered OAuth redirect (eBay "RuName")
	RedirectURI string `mapstructure:"redirect_uri"`
	// MarketplaceID is the target marketplace, e.g. EBAY_US
	MarketplaceID string `mapstructure:"marketplace_id"`
	// Scope is the space-separated OAuth scope list
	Scope string `mapstructure:"scope"`
	// TimeoutSeconds bounds every outbound HTTP call
	TimeoutSeconds int `mapstructure:"timeout_seconds"`

	// BaseURL overrides the API base derived from Domain. Used by tests.
	BaseURL string `mapstructure:"base_url"`
	// MediaBaseURL overrides the media API base derived from Domain
	MediaBaseURL string `mapstructure:"media_base_url"`
}

// Validate checks required settings and fills derived defaults
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return errors.New("ebay: client_id is required")
	}
	if c.ClientSecret == "" {
		return errors.New("ebay: client_secret is required")
	}
	if c.Domain == "" {
		c.Domain = DomainProduction
	}
	if c.Domain != DomainProduction && c.Domain != DomainSandbox {
		return fmt.Errorf("ebay: unknown domain %q", c.Domain)
	}
	if c.MarketplaceID == "" {
		c.MarketplaceID = "EBAY_US"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://" + c.Domain
	}
	if c.MediaBaseURL == "" {
		// The media API lives on a separate host
		subdomain := ""
		if strings.Contains(c.Domain, "sandbox") {
			subdomain = ".sandbox"
		}
		c.MediaBaseURL = fmt.Sprintf("https://apim%s.ebay.com", subdomain)
	}
	return nil
}
