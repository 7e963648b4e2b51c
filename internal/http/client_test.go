package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stampgo/pkg/core"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(&Config{
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
		UserAgent: "stampgo-test",
		Headers:   map[string]string{"X-Custom-Header": "test-value"},
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(&Config{BaseURL: "", Timeout: time.Second}, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewClient(&Config{BaseURL: "http://localhost", Timeout: 0}, zerolog.Nop())
	assert.Error(t, err)
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/order_book/", r.URL.Path)
		assert.Equal(t, "True", r.URL.Query().Get("group"))
		assert.Equal(t, "stampgo-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "test-value", r.Header.Get("X-Custom-Header"))
		assert.Equal(t, "yes", r.Header.Get("X-Per-Request"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"bids":[],"asks":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.Get(context.Background(), "/api/order_book/",
		WithQueryParams(map[string]string{"group": "True"}),
		WithHeader("X-Per-Request", "yes"))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.JSONEq(t, `{"bids":[],"asks":[]}`, string(resp.Bytes()))
}

func TestClient_PostForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/balance/", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "K1", r.PostForm.Get("key"))
		assert.Equal(t, "1000", r.PostForm.Get("nonce"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"usd_balance":"1.00"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.PostForm(context.Background(), "/api/balance/", map[string]string{
		"key":   "K1",
		"nonce": "1000",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestClient_NonSuccessStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	resp, err := client.Get(context.Background(), "/api/ticker/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
}

func TestClient_Close(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")

	assert.False(t, client.Closed())
	require.NoError(t, client.Close())
	assert.True(t, client.Closed())
	assert.NoError(t, client.Close())

	_, err := client.Get(context.Background(), "/api/ticker/")
	assert.ErrorIs(t, err, core.ErrClientClosed)

	_, err = client.PostForm(context.Background(), "/api/balance/", nil)
	assert.ErrorIs(t, err, core.ErrClientClosed)
}
