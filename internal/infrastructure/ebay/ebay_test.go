package ebay

import (
	"net/http"
	"testing"
)

func testConfig(serverURL string) *Config {
	return &Config{
		Domain:         DomainSandbox,
		ClientID:       "test-client-id",
		ClientSecret:   "test-client-secret",
		RedirectURI:    "test-runame",
		MarketplaceID:  "EBAY_US",
		Scope:          "https://api.ebay.com/oauth/api_scope",
		TimeoutSeconds: 5,
		BaseURL:        serverURL,
		MediaBaseURL:   serverURL,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		t.Errorf("failed to write response: %v", err)
	}
}

const appTokenBody = `{"access_token":"app-token","token_type":"Application Access Token","expires_in":7200}`

const categoryTreeBody = `{
	"categoryTreeId": "0",
	"rootCategoryNode": {
		"category": {"categoryId": "root", "categoryName": "Root"},
		"childCategoryTreeNodes": [
			{
				"category": {"categoryId": "293", "categoryName": "Consumer Electronics"},
				"childCategoryTreeNodes": [
					{
						"category": {"categoryId": "9355", "categoryName": "Cell Phones & Smartphones"},
						"leafCategoryTreeNode": true
					}
				]
			},
			{
				"category": {"categoryId": "11450", "categoryName": "Clothing"},
				"leafCategoryTreeNode": true
			}
		]
	}
}`
