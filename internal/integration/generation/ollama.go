package generation

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	pkghttp "github.com/shivendra911/Flask-CRUD-RAG-LLM/pkg/http"
)

const ollamaGenerateEndpoint = "/api/generate"

// ollamaBackend speaks the Ollama native completion API, the usual shape
// of a locally hosted model.
type ollamaBackend struct {
	model     string
	connector *pkghttp.Connector
}

func newOllamaBackend(cfg config.GenerationBackendConfig, logger *zap.Logger) *ollamaBackend {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return &ollamaBackend{
		model: cfg.Model,
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
	}
}

func (b *ollamaBackend) Name() string { return "ollama/" + b.model }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (b *ollamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	var resp ollamaResponse
	err := b.connector.DoRequest(ctx, http.MethodPost, ollamaGenerateEndpoint,
		&ollamaRequest{Model: b.model, Prompt: prompt, Stream: false}, &resp)
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	if resp.Response == "" {
		return "", fmt.Errorf("ollama generate: empty response")
	}
	return resp.Response, nil
}
