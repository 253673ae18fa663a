// Package retriever answers similarity queries against a user's vector
// index, embedding the query text and dropping matches below the
// similarity floor.
package retriever

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/index"
)

// Embedder turns text into vectors. Satisfied by the embedding connector
// and its mock.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Retriever embeds queries and searches per-user indexes. Query vectors
// are cached briefly so repeated generation requests over the same
// material do not re-hit the embedding service.
type Retriever struct {
	store    *index.Store
	embedder Embedder
	floor    float64
	cache    *gocache.Cache
	logger   *zap.Logger
}

func New(store *index.Store, embedder Embedder, cfg config.RetrievalConfig, logger *zap.Logger) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
		floor:    cfg.SimilarityFloor,
		cache:    gocache.New(cfg.QueryCacheTTL, 2*cfg.QueryCacheTTL),
		logger:   logger,
	}
}

// Retrieve returns up to k chunks from userID's index scoring at or above
// the similarity floor, best first. A user with no indexed documents gets
// an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, userID, query string, k int) (entity.RetrievalResult, error) {
	idx, err := r.store.GetOrCreate(userID)
	if err != nil {
		return entity.RetrievalResult{}, fmt.Errorf("open index for user %s: %w", userID, err)
	}
	if idx.Size() == 0 {
		return entity.RetrievalResult{}, nil
	}

	vector, err := r.embedQuery(ctx, query)
	if err != nil {
		return entity.RetrievalResult{}, fmt.Errorf("embed query: %w", err)
	}

	result, err := idx.Search(vector, k)
	if err != nil {
		return entity.RetrievalResult{}, fmt.Errorf("search index for user %s: %w", userID, err)
	}

	kept := result.Chunks[:0]
	for _, sc := range result.Chunks {
		if sc.Score >= r.floor {
			kept = append(kept, sc)
		}
	}
	result.Chunks = kept

	ctxzap.Debug(ctx, "retrieved chunks",
		zap.String("user_id", userID),
		zap.Int("k", k),
		zap.Int("matched", len(result.Chunks)),
	)
	return result, nil
}

func (r *Retriever) embedQuery(ctx context.Context, query string) ([]float64, error) {
	if cached, ok := r.cache.Get(query); ok {
		return cached.([]float64), nil
	}
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	r.cache.Set(query, vector, gocache.DefaultExpiration)
	return vector, nil
}
