package ebay

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listflow/backend/internal/domain/listing"
)

func newTaxonomyTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*TaxonomyClient, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(oauthTokenPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, appTokenBody)
	})
	mux.HandleFunc(taxonomyBasePath+"/", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewTaxonomyClient(testConfig(server.URL))
	require.NoError(t, err)
	return client, server
}

func TestGetDefaultTreeID(t *testing.T) {
	t.Run("returns tree id", func(t *testing.T) {
		var gotMarketplace string
		client, _ := newTaxonomyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotMarketplace = r.URL.Query().Get("marketplace_id")
			assert.Equal(t, "Bearer app-token", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, `{"categoryTreeId":"0","categoryTreeVersion":"129"}`)
		})

		treeID, err := client.GetDefaultTreeID(context.Background(), "EBAY_US")
		require.NoError(t, err)
		assert.Equal(t, "0", treeID)
		assert.Equal(t, "EBAY_US", gotMarketplace)
	})

	t.Run("maps EBAY_MOTORS to EBAY_MOTORS_US", func(t *testing.T) {
		var gotMarketplace string
		client, _ := newTaxonomyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			gotMarketplace = r.URL.Query().Get("marketplace_id")
			writeJSON(t, w, http.StatusOK, `{"categoryTreeId":"100"}`)
		})

		treeID, err := client.GetDefaultTreeID(context.Background(), "EBAY_MOTORS")
		require.NoError(t, err)
		assert.Equal(t, "100", treeID)
		assert.Equal(t, "EBAY_MOTORS_US", gotMarketplace)
	})

	t.Run("missing tree id", func(t *testing.T) {
		client, _ := newTaxonomyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `{}`)
		})

		_, err := client.GetDefaultTreeID(context.Background(), "EBAY_US")
		assert.ErrorIs(t, err, listing.ErrTaxonomyService)
	})

	t.Run("server error", func(t *testing.T) {
		client, _ := newTaxonomyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusInternalServerError, `{"errors":[{"message":"boom"}]}`)
		})

		_, err := client.GetDefaultTreeID(context.Background(), "EBAY_US")
		assert.ErrorIs(t, err, listing.ErrTaxonomyService)
		assert.Contains(t, err.Error(), "status 500")
	})
}

func assertPhonesTree(t *testing.T, tree *listing.CategoryNode) {
	t.Helper()
	require.NotNil(t, tree)
	assert.Equal(t, "root", tree.ID)
	assert.False(t, tree.Leaf)
	require.Len(t, tree.Children, 2)

	leaf := tree.FindLeaf("cell phones & smartphones")
	require.NotNil(t, leaf)
	assert.Equal(t, "9355", leaf.ID)
	assert.Nil(t, tree.FindLeaf("Consumer Electronics"))
}

func TestFetchCategoryTree(t *testing.T) {
	t.Run("decodes gzip-encoded tree", func(t *testing.T) {
		client, _ := newTaxonomyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, taxonomyBasePath+"/category_tree/0", r.URL.Path)
			require.Contains(t, r.Header.Get("Accept-Encoding"), "gzip")

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Content-Encoding", "gzip")
			gz := gzip.NewWriter(w)
			_, err := gz.Write([]byte(categoryTreeBody))
			require.NoError(t, err)
			require.NoError(t, gz.Close())
		})

		tree, err := client.FetchCategoryTree(context.Background(), "0")
		require.NoError(t, err)
		assertPhonesTree(t, tree)
	})

	t.Run("decodes plain tree", func(t *testing.T) {
		client, _ := newTaxonomyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, categoryTreeBody)
		})

		tree, err := client.FetchCategoryTree(context.Background(), "0")
		require.NoError(t, err)
		assertPhonesTree(t, tree)
	})
}

func TestGetItemAspects(t *testing.T) {
	client, _ := newTaxonomyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "9355", r.URL.Query().Get("category_id"))
		writeJSON(t, w, http.StatusOK, `{
			"aspects": [
				{
					"localizedAspectName": "Brand",
					"aspectConstraint": {
						"aspectDataType": "STRING",
						"aspectMode": "SELECTION_ONLY",
						"aspectRequired": true,
						"aspectUsage": "REQUIRED",
						"itemToAspectCardinality": "SINGLE"
					},
					"aspectValues": [
						{"localizedValue": "Apple"},
						{"localizedValue": "Samsung"}
					]
				},
				{
					"localizedAspectName": "Features",
					"aspectConstraint": {
						"aspectDataType": "STRING",
						"aspectMode": "FREE_TEXT",
						"aspectUsage": "OPTIONAL",
						"itemToAspectCardinality": "MULTI"
					}
				},
				{
					"localizedAspectName": "Screen Size",
					"aspectConstraint": {
						"aspectDataType": "NUMBER",
						"aspectMode": "FREE_TEXT",
						"aspectUsage": "RECOMMENDED",
						"itemToAspectCardinality": "SINGLE"
					}
				}
			]
		}`)
	})

	fields, err := client.GetItemAspects(context.Background(), "0", "9355")
	require.NoError(t, err)
	require.Len(t, fields, 3)

	brand := fields[0]
	assert.Equal(t, "Brand", brand.Name)
	assert.Equal(t, listing.AspectTypeString, brand.Type)
	assert.True(t, brand.Required)
	assert.Equal(t, []string{"Apple", "Samsung"}, brand.AllowedValues)

	features := fields[1]
	assert.Equal(t, listing.AspectTypeList, features.Type)
	assert.False(t, features.Required)
	assert.Nil(t, features.AllowedValues)

	screenSize := fields[2]
	assert.Equal(t, listing.AspectTypeFloat, screenSize.Type)
	assert.True(t, screenSize.Required, "recommended aspects are treated as required")
}

func TestGetCategorySuggestions(t *testing.T) {
	t.Run("returns names in relevance order", func(t *testing.T) {
		client, _ := newTaxonomyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "iphone", r.URL.Query().Get("q"))
			writeJSON(t, w, http.StatusOK, `{
				"categorySuggestions": [
					{"category": {"categoryId": "9355", "categoryName": "Cell Phones & Smartphones"}},
					{"category": {"categoryId": "20349", "categoryName": "Cell Phone Accessories"}}
				]
			}`)
		})

		names, err := client.GetCategorySuggestions(context.Background(), "0", "iphone")
		require.NoError(t, err)
		assert.Equal(t, []string{"Cell Phones & Smartphones", "Cell Phone Accessories"}, names)
	})

	t.Run("no suggestions", func(t *testing.T) {
		client, _ := newTaxonomyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `{"categorySuggestions":[]}`)
		})

		_, err := client.GetCategorySuggestions(context.Background(), "0", "gibberish")
		assert.ErrorIs(t, err, listing.ErrCategoryNotFound)
	})
}

func TestAppTokenCaching(t *testing.T) {
	var tokenRequests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(oauthTokenPath, func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "test-client-id", user)
		assert.Equal(t, "test-client-secret", pass)

		writeJSON(t, w, http.StatusOK, appTokenBody)
	})
	mux.HandleFunc(taxonomyBasePath+"/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, `{"categoryTreeId":"0"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewTaxonomyClient(testConfig(server.URL))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := client.GetDefaultTreeID(context.Background(), "EBAY_US")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), tokenRequests.Load(), "application token should be cached across calls")
}

func TestAppTokenError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(oauthTokenPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, `{"error":"invalid_client"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewTaxonomyClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.GetDefaultTreeID(context.Background(), "EBAY_US")
	assert.ErrorIs(t, err, listing.ErrTaxonomyService)
	assert.True(t, errors.Is(err, errAppToken))
}
