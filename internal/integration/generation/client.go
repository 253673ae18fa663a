// Package generation sends prompts to LLM backends. A primary (local)
// backend is tried first; on any failure the secondary (cloud) backend is
// tried exactly once. Both are stateless single-shot completions, and the
// returned text is never assumed to be well-formed JSON.
package generation

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

// Backend is a single text-completion service.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	primary   Backend
	secondary Backend
	logger    *zap.Logger
}

// NewClient builds the client from configuration: an Ollama-style local
// primary and a Gemini cloud secondary.
func NewClient(cfg config.GenerationConfig, logger *zap.Logger) *Client {
	return NewClientWithBackends(
		newOllamaBackend(cfg.Primary, logger),
		newGeminiBackend(cfg.Secondary, logger),
		logger,
	)
}

// NewClientWithBackends wires explicit backends; used by tests.
func NewClientWithBackends(primary, secondary Backend, logger *zap.Logger) *Client {
	return &Client{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

// Generate returns the raw completion text. entity.ErrGenerationFailed is
// surfaced only after both backends have failed.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	text, primaryErr := c.primary.Generate(ctx, prompt)
	if primaryErr == nil {
		return text, nil
	}

	ctxzap.Warn(ctx, "primary generation backend failed, falling back",
		zap.String("primary", c.primary.Name()),
		zap.String("secondary", c.secondary.Name()),
		zap.Error(primaryErr),
	)

	text, secondaryErr := c.secondary.Generate(ctx, prompt)
	if secondaryErr == nil {
		return text, nil
	}

	return "", fmt.Errorf("%w: %s: %v; %s: %v", entity.ErrGenerationFailed,
		c.primary.Name(), primaryErr, c.secondary.Name(), secondaryErr)
}
