package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listflow/backend/internal/domain/listing"
)

func TestOAuthClientRefresh(t *testing.T) {
	t.Run("exchanges refresh token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, oauthTokenPath, r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "old-refresh-token", r.PostForm.Get("refresh_token"))

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "test-client-id", user)
			assert.Equal(t, "test-client-secret", pass)

			writeJSON(t, w, http.StatusOK, `{"access_token":"fresh-access-token","token_type":"User Access Token","expires_in":7200}`)
		}))
		t.Cleanup(server.Close)

		client, err := NewOAuthClient(testConfig(server.URL))
		require.NoError(t, err)

		token, err := client.Refresh(context.Background(), "old-refresh-token")
		require.NoError(t, err)
		assert.Equal(t, "fresh-access-token", token.Token)
		assert.Equal(t, 7200*time.Second, token.TTL)
	})

	t.Run("rejected refresh token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, `{"error":"invalid_grant"}`)
		}))
		t.Cleanup(server.Close)

		client, err := NewOAuthClient(testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.Refresh(context.Background(), "revoked-token")
		assert.ErrorIs(t, err, listing.ErrOAuthClient)
		assert.Contains(t, err.Error(), "invalid_grant")
	})

	t.Run("empty access token in response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, `{"expires_in":7200}`)
		}))
		t.Cleanup(server.Close)

		client, err := NewOAuthClient(testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.Refresh(context.Background(), "some-token")
		assert.ErrorIs(t, err, listing.ErrOAuthClient)
	})
}

func TestOAuthClientParse(t *testing.T) {
	client, err := NewOAuthClient(testConfig("https://example.invalid"))
	require.NoError(t, err)

	t.Run("complete payload", func(t *testing.T) {
		access, refresh, err := client.Parse(map[string]any{
			"access_token":             "access-1",
			"expires_in":               float64(7200),
			"refresh_token":            "refresh-1",
			"refresh_token_expires_in": float64(47304000),
		})
		require.NoError(t, err)
		assert.Equal(t, "access-1", access.Token)
		assert.Equal(t, 7200*time.Second, access.TTL)
		assert.Equal(t, "refresh-1", refresh.Token)
		assert.Equal(t, 47304000*time.Second, refresh.TTL)
	})

	t.Run("missing refresh token lifetime falls back to default", func(t *testing.T) {
		_, refresh, err := client.Parse(map[string]any{
			"access_token":  "access-1",
			"expires_in":    float64(7200),
			"refresh_token": "refresh-1",
		})
		require.NoError(t, err)
		assert.Equal(t, defaultRefreshTokenTTL, refresh.TTL)
	})

	t.Run("expires_in as string", func(t *testing.T) {
		access, _, err := client.Parse(map[string]any{
			"access_token":  "access-1",
			"expires_in":    "7200",
			"refresh_token": "refresh-1",
		})
		require.NoError(t, err)
		assert.Equal(t, 7200*time.Second, access.TTL)
	})

	t.Run("incomplete payloads", func(t *testing.T) {
		tests := []struct {
			name string
			raw  map[string]any
		}{
			{name: "missing access_token", raw: map[string]any{"expires_in": float64(7200), "refresh_token": "r"}},
			{name: "empty access_token", raw: map[string]any{"access_token": "", "expires_in": float64(7200), "refresh_token": "r"}},
			{name: "missing expires_in", raw: map[string]any{"access_token": "a", "refresh_token": "r"}},
			{name: "unparseable expires_in", raw: map[string]any{"access_token": "a", "expires_in": "soon", "refresh_token": "r"}},
			{name: "missing refresh_token", raw: map[string]any{"access_token": "a", "expires_in": float64(7200)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, _, err := client.Parse(tt.raw)
				assert.ErrorIs(t, err, listing.ErrOAuthClient)
			})
		}
	})
}
