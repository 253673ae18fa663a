package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector produces deterministic bag-of-words pseudo-embeddings
// without any model backend. Texts sharing words land on shared
// dimensions, so similarity search behaves plausibly in local development
// and tests.
type MockConnector struct {
	dimension int
	logger    *zap.Logger
}

func NewMockConnector(dimension int, logger *zap.Logger) *MockConnector {
	if dimension <= 0 {
		dimension = 64
	}
	return &MockConnector{
		dimension: dimension,
		logger:    logger,
	}
}

func (m *MockConnector) Dimension() int { return m.dimension }

func (m *MockConnector) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *MockConnector) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	ctxzap.Debug(ctx, "[MOCK] embedding batch", zap.Int("batch_size", len(texts)))

	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = m.pseudoEmbed(text)
	}
	return vectors, nil
}

func (m *MockConnector) pseudoEmbed(text string) []float64 {
	v := make([]float64, m.dimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		v[int(h.Sum32())%m.dimension]++
	}

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range v {
			v[i] /= norm
		}
	}
	return v
}
