package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkghttp "github.com/shivendra911/Flask-CRUD-RAG-LLM/pkg/http"
)

func newTestConnector(baseURL string, opts ...pkghttp.Option) *pkghttp.Connector {
	return pkghttp.NewConnector(&pkghttp.ConnectorConfig{
		Logger:  zap.NewNop(),
		BaseURL: baseURL,
	}, opts...)
}

func TestDoRequestSendsAuthAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "v1", r.URL.Query().Get("param"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, pkghttp.WithAuthToken("secret"))

	var resp struct {
		OK bool `json:"ok"`
	}
	err := c.DoRequest(context.Background(), http.MethodGet, "/ping", nil, &resp,
		pkghttp.WithQueryParam("param", "v1"))
	require.NoError(t, err)
	assert.True(t, resp.OK)
}

func TestDoRequestEmptyTokenSendsNoAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, pkghttp.WithAuthToken(""))
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/ping", nil, nil))
}

func TestDoRequestErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL)
	err := c.DoRequest(context.Background(), http.MethodGet, "/ping", nil, nil)

	var httpErr *pkghttp.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.True(t, httpErr.Retryable())

	// A closed server produces a transport failure, not an HTTP status.
	srv.Close()
	err = c.DoRequest(context.Background(), http.MethodGet, "/ping", nil, nil)
	var netErr *pkghttp.NetworkError
	require.ErrorAs(t, err, &netErr)
}
