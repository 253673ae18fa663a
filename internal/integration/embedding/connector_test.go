package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
	pkgRetry "github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/retry"
)

func testConfig(url string, dimension int) config.EmbeddingConfig {
	cfg := config.EmbeddingConfig{
		Model:     "test-embed",
		Dimension: dimension,
		BatchSize: 8,
		Retry: pkgRetry.RetryConfig{
			Attempts: 3,
			Delay:    time.Millisecond,
			MaxDelay: 5 * time.Millisecond,
		},
	}
	cfg.Url = url
	cfg.RequestTimeout = 2 * time.Second
	cfg.ConnTimeout = 2 * time.Second
	cfg.KeepAlive = time.Second
	cfg.IdleConnTimeout = time.Second
	cfg.ResponseHeaderTimeout = 2 * time.Second
	return cfg
}

func embeddingsHandler(t *testing.T, dimension int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type item struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		data := make([]item, len(req.Input))
		for i := range req.Input {
			vec := make([]float64, dimension)
			vec[i%dimension] = 1
			// Deliberately reversed order; the connector must reorder by index.
			data[len(req.Input)-1-i] = item{Index: i, Embedding: vec}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}
}

func TestEmbedBatch(t *testing.T) {
	srv := httptest.NewServer(embeddingsHandler(t, 4))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL, 4), zap.NewNop())
	vectors, err := c.EmbedBatch(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float64{1, 0, 0, 0}, vectors[0])
	assert.Equal(t, []float64{0, 1, 0, 0}, vectors[1])
	assert.Equal(t, []float64{0, 0, 1, 0}, vectors[2])
}

func TestEmbedBatchRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	handler := embeddingsHandler(t, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		handler(w, r)
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL, 4), zap.NewNop())
	vectors, err := c.EmbedBatch(context.Background(), []string{"one"})
	require.NoError(t, err)
	assert.Len(t, vectors, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbedBatchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL, 4), zap.NewNop())
	_, err := c.EmbedBatch(context.Background(), []string{"one"})
	assert.ErrorIs(t, err, entity.ErrEmbeddingFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEmbedBatchCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer srv.Close()

	c := NewConnector(testConfig(srv.URL, 4), zap.NewNop())
	_, err := c.EmbedBatch(context.Background(), []string{"one", "two"})
	assert.ErrorIs(t, err, entity.ErrEmbeddingFailed)
}

func TestEmbedBatchDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(embeddingsHandler(t, 4))
	defer srv.Close()

	// Connector configured for 8 dimensions, server answers with 4.
	c := NewConnector(testConfig(srv.URL, 8), zap.NewNop())
	_, err := c.EmbedBatch(context.Background(), []string{"one"})
	assert.ErrorIs(t, err, entity.ErrDimensionMismatch)
}

func TestMockConnectorDeterministic(t *testing.T) {
	m := NewMockConnector(32, zap.NewNop())

	a, err := m.Embed(context.Background(), "the capital of france is paris")
	require.NoError(t, err)
	b, err := m.Embed(context.Background(), "the capital of france is paris")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := m.Embed(context.Background(), "completely unrelated zebra text")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
	assert.Len(t, a, 32)
}
