package shopware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pimsync/connector/internal/domain/channel"
)

func testChannel(t *testing.T, host string) *channel.Channel {
	t.Helper()
	ch, err := channel.NewChannel("test-shop", host, "client-id", "client-secret", "en")
	require.NoError(t, err)
	return ch
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func tokenHandler(t *testing.T, w http.ResponseWriter, r *http.Request) {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	assert.Equal(t, "client_credentials", body["grant_type"])
	assert.Equal(t, "client-id", body["client_id"])
	writeJSON(t, w, http.StatusOK, map[string]any{
		"access_token": "token-1",
		"expires_in":   600,
	})
}

func TestConnector_Authentication(t *testing.T) {
	t.Run("obtains and caches the token", func(t *testing.T) {
		tokenRequests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/oauth/token":
				tokenRequests++
				tokenHandler(t, w, r)
			case "/api/search/category":
				assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
				writeJSON(t, w, http.StatusOK, map[string]any{"total": 0, "data": []any{}})
			default:
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		connector := NewConnector(5*time.Second, nil)
		ch := testChannel(t, server.URL)

		_, err := connector.search(context.Background(), ch, "category", NewCriteria(), nil)
		require.NoError(t, err)
		_, err = connector.search(context.Background(), ch, "category", NewCriteria(), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, tokenRequests)
	})

	t.Run("re-authenticates after a 401", func(t *testing.T) {
		tokenRequests := 0
		searchRequests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/oauth/token":
				tokenRequests++
				writeJSON(t, w, http.StatusOK, map[string]any{
					"access_token": "token-1",
					"expires_in":   600,
				})
			case "/api/search/category":
				searchRequests++
				if searchRequests == 1 {
					writeJSON(t, w, http.StatusUnauthorized, map[string]any{})
					return
				}
				writeJSON(t, w, http.StatusOK, map[string]any{"total": 0, "data": []any{}})
			}
		}))
		defer server.Close()

		connector := NewConnector(5*time.Second, nil)
		ch := testChannel(t, server.URL)

		_, err := connector.search(context.Background(), ch, "category", NewCriteria(), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, tokenRequests)
		assert.Equal(t, 2, searchRequests)
	})

	t.Run("rejected credentials surface as API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusBadRequest, map[string]any{
				"errors": []map[string]string{{"code": "6", "detail": "invalid client"}},
			})
		}))
		defer server.Close()

		connector := NewConnector(5*time.Second, nil)
		ch := testChannel(t, server.URL)

		_, err := connector.search(context.Background(), ch, "category", NewCriteria(), nil)
		require.Error(t, err)
		assert.True(t, IsClientError(err))
	})
}

func TestConnector_ErrorClassification(t *testing.T) {
	t.Run("404 is not found", func(t *testing.T) {
		err := newAPIError(http.StatusNotFound, nil)
		assert.True(t, IsNotFound(err))
		assert.True(t, IsClientError(err))
	})

	t.Run("500 is neither", func(t *testing.T) {
		err := newAPIError(http.StatusInternalServerError, nil)
		assert.False(t, IsNotFound(err))
		assert.False(t, IsClientError(err))
	})

	t.Run("duplicated file name is matched by code", func(t *testing.T) {
		body := []byte(`{"errors":[{"code":"CONTENT__MEDIA_DUPLICATED_FILE_NAME","detail":"duplicate"}]}`)
		err := newAPIError(http.StatusInternalServerError, body)
		assert.True(t, IsDuplicatedFileName(err))
		assert.Contains(t, err.Error(), "CONTENT__MEDIA_DUPLICATED_FILE_NAME")
	})
}

func TestCriteria_Body(t *testing.T) {
	criteria := NewCriteria().
		Limit(10).
		Page(2).
		IDs([]string{"id-1"}).
		Filter(EqualsFilter("name", "Shoes")).
		Association("translations")

	body := criteria.Body()
	assert.Equal(t, 10, body["limit"])
	assert.Equal(t, 2, body["page"])
	assert.Equal(t, []string{"id-1"}, body["ids"])
	assert.Len(t, body["filter"], 1)
	assert.Contains(t, body["associations"], "translations")

	assert.Empty(t, NewCriteria().Body())
}
