package generation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	pkghttp "github.com/shivendra911/Flask-CRUD-RAG-LLM/pkg/http"
)

// geminiBackend speaks the Gemini REST generateContent API, used as the
// cloud fallback. The API key travels in the key query parameter, not as
// a bearer token.
type geminiBackend struct {
	model     string
	apiKey    string
	connector *pkghttp.Connector
}

func newGeminiBackend(cfg config.GenerationBackendConfig, logger *zap.Logger) *geminiBackend {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return &geminiBackend{
		model:  cfg.Model,
		apiKey: cfg.Token,
		connector: pkghttp.NewConnector(
			connCfg,
			pkghttp.WithRequestTimeout(cfg.RequestTimeout),
			pkghttp.WithConnTimeout(cfg.ConnTimeout),
			pkghttp.WithKeepAlive(cfg.KeepAlive),
			pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
			pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
			pkghttp.WithRequestLogging(),
		),
	}
}

func (b *geminiBackend) Name() string { return "gemini/" + b.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (b *geminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	endpoint := fmt.Sprintf("/v1beta/models/%s:generateContent", b.model)

	var resp geminiResponse
	err := b.connector.DoRequest(ctx, http.MethodPost, endpoint,
		&geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}, &resp,
		pkghttp.WithQueryParam("key", b.apiKey),
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini generate: no candidates returned")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini generate: empty candidate text")
	}
	return out.String(), nil
}
