package ebay

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listflow/backend/internal/domain/listing"
)

func newAccountTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestGetPolicies(t *testing.T) {
	t.Run("returns policies per kind", func(t *testing.T) {
		server := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer user-access-token", r.Header.Get("Authorization"))
			assert.Equal(t, "EBAY_US", r.URL.Query().Get("marketplace_id"))

			switch r.URL.Path {
			case accountBasePath + "/fulfillment_policy":
				writeJSON(t, w, http.StatusOK, `{"fulfillmentPolicies":[
					{"fulfillmentPolicyId":"fulfillment-1","name":"Standard Shipping"},
					{"fulfillmentPolicyId":"fulfillment-2","name":"Express Shipping"}
				]}`)
			case accountBasePath + "/payment_policy":
				writeJSON(t, w, http.StatusOK, `{"paymentPolicies":[
					{"paymentPolicyId":"payment-1","name":"Default Payment"}
				]}`)
			case accountBasePath + "/return_policy":
				writeJSON(t, w, http.StatusOK, `{"returnPolicies":[
					{"returnPolicyId":"return-1","name":"30 Day Returns"}
				]}`)
			default:
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		})

		client, err := NewAccountClient(testConfig(server.URL))
		require.NoError(t, err)

		fulfillment, err := client.GetFulfillmentPolicies(context.Background(), "user-access-token")
		require.NoError(t, err)
		assert.Equal(t, []listing.PolicyRef{
			{ID: "fulfillment-1", Name: "Standard Shipping"},
			{ID: "fulfillment-2", Name: "Express Shipping"},
		}, fulfillment)

		payment, err := client.GetPaymentPolicies(context.Background(), "user-access-token")
		require.NoError(t, err)
		assert.Equal(t, []listing.PolicyRef{{ID: "payment-1", Name: "Default Payment"}}, payment)

		returns, err := client.GetReturnPolicies(context.Background(), "user-access-token")
		require.NoError(t, err)
		assert.Equal(t, []listing.PolicyRef{{ID: "return-1", Name: "30 Day Returns"}}, returns)
	})

	t.Run("maps API failure", func(t *testing.T) {
		server := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, `{"errors":[{"message":"Invalid access token"}]}`)
		})

		client, err := NewAccountClient(testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.GetFulfillmentPolicies(context.Background(), "expired-token")
		require.Error(t, err)
		assert.ErrorIs(t, err, listing.ErrMarketplaceAPI)
		assert.Contains(t, err.Error(), "status 401")
	})
}

func TestGetLocations(t *testing.T) {
	t.Run("pages through all locations", func(t *testing.T) {
		const total = 150

		var offsets []int
		server := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, inventoryBasePath+"/location", r.URL.Path)
			assert.Equal(t, "Bearer user-access-token", r.Header.Get("Authorization"))
			assert.Equal(t, strconv.Itoa(locationsPageSize), r.URL.Query().Get("limit"))

			offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
			require.NoError(t, err)
			offsets = append(offsets, offset)

			var entries []string
			for i := offset; i < total && i < offset+locationsPageSize; i++ {
				entries = append(entries, fmt.Sprintf(
					`{"name":"Warehouse %d","merchantLocationKey":"warehouse-%d"}`, i, i))
			}
			writeJSON(t, w, http.StatusOK, fmt.Sprintf(
				`{"locations":[%s],"total":%d}`, strings.Join(entries, ","), total))
		})

		client, err := NewSellingClient(testConfig(server.URL))
		require.NoError(t, err)

		locations, err := client.GetLocations(context.Background(), "user-access-token")
		require.NoError(t, err)

		require.Len(t, locations, total)
		assert.Equal(t, []int{0, locationsPageSize}, offsets)
		assert.Equal(t, listing.LocationRef{Key: "warehouse-0", Name: "Warehouse 0"}, locations[0])
		assert.Equal(t, listing.LocationRef{Key: "warehouse-149", Name: "Warehouse 149"}, locations[total-1])
	})

	t.Run("returns empty list when seller has no locations", func(t *testing.T) {
		server := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `{"locations":[],"total":0}`)
		})

		client, err := NewSellingClient(testConfig(server.URL))
		require.NoError(t, err)

		locations, err := client.GetLocations(context.Background(), "user-access-token")
		require.NoError(t, err)
		assert.Empty(t, locations)
	})
}

func TestPlatformAccountSettings(t *testing.T) {
	server := newAccountTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case accountBasePath + "/fulfillment_policy":
			writeJSON(t, w, http.StatusOK, `{"fulfillmentPolicies":[{"fulfillmentPolicyId":"fulfillment-1","name":"Standard Shipping"}]}`)
		case accountBasePath + "/payment_policy":
			writeJSON(t, w, http.StatusOK, `{"paymentPolicies":[{"paymentPolicyId":"payment-1","name":"Default Payment"}]}`)
		case accountBasePath + "/return_policy":
			writeJSON(t, w, http.StatusOK, `{"returnPolicies":[{"returnPolicyId":"return-1","name":"30 Day Returns"}]}`)
		case inventoryBasePath + "/location":
			writeJSON(t, w, http.StatusOK, `{"locations":[{"name":"Main Warehouse","merchantLocationKey":"warehouse-1"}],"total":1}`)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	platform, err := NewPlatform(testConfig(server.URL))
	require.NoError(t, err)

	settings, err := platform.AccountSettings(context.Background(), "user-access-token")
	require.NoError(t, err)

	assert.Equal(t, []listing.PolicyRef{{ID: "fulfillment-1", Name: "Standard Shipping"}}, settings.FulfillmentPolicies)
	assert.Equal(t, []listing.PolicyRef{{ID: "payment-1", Name: "Default Payment"}}, settings.PaymentPolicies)
	assert.Equal(t, []listing.PolicyRef{{ID: "return-1", Name: "30 Day Returns"}}, settings.ReturnPolicies)
	assert.Equal(t, []listing.LocationRef{{Key: "warehouse-1", Name: "Main Warehouse"}}, settings.Locations)
}
