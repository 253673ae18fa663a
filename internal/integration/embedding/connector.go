// Package embedding talks to an OpenAI-compatible /v1/embeddings endpoint
// (served by OpenAI itself or by local servers such as Ollama and
// llama.cpp). The same model and dimensionality must be used for indexing
// and querying; the connector enforces the configured dimension on every
// response.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
	pkghttp "github.com/shivendra911/Flask-CRUD-RAG-LLM/pkg/http"
)

const embeddingsEndpoint = "/v1/embeddings"

type Connector struct {
	config    config.EmbeddingConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.EmbeddingConfig, logger *zap.Logger) *Connector {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return &Connector{
		config: cfg,
		connector: pkghttp.NewConnector(
			connCfg,
			pkghttp.WithRequestTimeout(cfg.RequestTimeout),
			pkghttp.WithConnTimeout(cfg.ConnTimeout),
			pkghttp.WithKeepAlive(cfg.KeepAlive),
			pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
			pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
			pkghttp.WithRequestLogging(),
			pkghttp.WithAuthToken(cfg.Token),
		),
		logger: logger,
	}
}

// Dimension returns the configured embedding dimensionality.
func (c *Connector) Dimension() int { return c.config.Dimension }

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed maps one text to its embedding vector.
func (c *Connector) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch maps texts to vectors, in order. The whole batch fails if any
// item fails; the caller may retry with a smaller batch. Transient HTTP
// failures (429, 5xx, network) are retried with backoff before giving up.
func (c *Connector) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctxzap.Debug(ctx, "embedding batch",
		zap.Int("batch_size", len(texts)),
		zap.String("model", c.config.Model),
	)

	var out embeddingsResponse
	err := retry.Do(
		func() error {
			out = embeddingsResponse{}
			return c.connector.DoRequest(ctx, http.MethodPost, embeddingsEndpoint,
				&embeddingsRequest{Model: c.config.Model, Input: texts}, &out)
		},
		append(c.config.Retry.ToRetryOptions(),
			retry.Context(ctx),
			retry.RetryIf(isTransient),
		)...,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrEmbeddingFailed, err)
	}

	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("%w: requested %d embeddings, got %d", entity.ErrEmbeddingFailed, len(texts), len(out.Data))
	}

	// The API is positional via the index field; keep vector order aligned
	// with the input order.
	sort.Slice(out.Data, func(i, j int) bool { return out.Data[i].Index < out.Data[j].Index })

	vectors := make([][]float64, len(out.Data))
	for i, item := range out.Data {
		if len(item.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", entity.ErrEmbeddingFailed, i)
		}
		if len(item.Embedding) != c.config.Dimension {
			return nil, fmt.Errorf("%w: model returned %d dimensions, configured %d",
				entity.ErrDimensionMismatch, len(item.Embedding), c.config.Dimension)
		}
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

func isTransient(err error) bool {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	var netErr *pkghttp.NetworkError
	return errors.As(err, &netErr)
}
