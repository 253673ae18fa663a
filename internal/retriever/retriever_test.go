package retriever

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/index"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/integration/embedding"
)

// stubEmbedder serves fixed vectors and counts calls so tests can pin
// down scores and observe the query cache.
type stubEmbedder struct {
	vectors map[string][]float64
	calls   int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	s.calls++
	v, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return v, nil
}

func testConfig() config.RetrievalConfig {
	return config.RetrievalConfig{
		SimilarityFloor: 0.25,
		QueryCacheTTL:   time.Minute,
	}
}

func newTestStore(t *testing.T) *index.Store {
	t.Helper()
	store, err := index.NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return store
}

func seedIndex(t *testing.T, store *index.Store, userID string, vectors [][]float64) {
	t.Helper()
	idx, err := store.GetOrCreate(userID)
	require.NoError(t, err)

	chunks := make([]entity.Chunk, len(vectors))
	for i := range vectors {
		chunks[i] = entity.Chunk{
			DocumentID: "doc-1",
			Filename:   "notes.txt",
			Seq:        i,
			Text:       fmt.Sprintf("chunk %d", i),
		}
	}
	require.NoError(t, idx.Add(chunks, vectors))
}

func TestRetrieveOrdersAndFloors(t *testing.T) {
	store := newTestStore(t)
	seedIndex(t, store, "alice", [][]float64{
		{1, 0, 0}, // score 1 against the query
		{0, 1, 0}, // score 0, below the floor
		{1, 1, 0}, // score ~0.707
	})

	emb := &stubEmbedder{vectors: map[string][]float64{"q": {1, 0, 0}}}
	r := New(store, emb, testConfig(), zap.NewNop())

	result, err := r.Retrieve(context.Background(), "alice", "q", 3)
	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "chunk 0", result.Chunks[0].Chunk.Text)
	assert.Equal(t, "chunk 2", result.Chunks[1].Chunk.Text)
	assert.InDelta(t, 1.0, result.Chunks[0].Score, 1e-9)
}

func TestRetrieveAllBelowFloorIsEmpty(t *testing.T) {
	store := newTestStore(t)
	seedIndex(t, store, "alice", [][]float64{{0, 1, 0}, {0, 0, 1}})

	emb := &stubEmbedder{vectors: map[string][]float64{"q": {1, 0, 0}}}
	r := New(store, emb, testConfig(), zap.NewNop())

	result, err := r.Retrieve(context.Background(), "alice", "q", 5)
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestRetrieveNoDocumentsIsEmptyNotError(t *testing.T) {
	store := newTestStore(t)
	emb := &stubEmbedder{}
	r := New(store, emb, testConfig(), zap.NewNop())

	result, err := r.Retrieve(context.Background(), "nobody", "anything", 4)
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.Zero(t, emb.calls, "empty index must not cost an embedding call")
}

func TestRetrieveCachesQueryVector(t *testing.T) {
	store := newTestStore(t)
	seedIndex(t, store, "alice", [][]float64{{1, 0, 0}})

	emb := &stubEmbedder{vectors: map[string][]float64{"q": {1, 0, 0}}}
	r := New(store, emb, testConfig(), zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := r.Retrieve(context.Background(), "alice", "q", 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, emb.calls)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	store := newTestStore(t)
	seedIndex(t, store, "alice", [][]float64{{1, 0, 0}})

	r := New(store, &stubEmbedder{}, testConfig(), zap.NewNop())

	_, err := r.Retrieve(context.Background(), "alice", "unknown", 1)
	require.Error(t, err)
}

func TestRetrieveRejectsPathyUserID(t *testing.T) {
	store := newTestStore(t)
	r := New(store, &stubEmbedder{}, testConfig(), zap.NewNop())

	_, err := r.Retrieve(context.Background(), "../escape", "q", 1)
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
}

// End to end with the deterministic mock embedder: text sharing words with
// the query must come back first.
func TestRetrieveWithMockEmbedder(t *testing.T) {
	store := newTestStore(t)
	emb := embedding.NewMockConnector(64, zap.NewNop())
	ctx := context.Background()

	texts := []string{
		"The capital of France is Paris.",
		"Photosynthesis converts light into chemical energy.",
	}
	vectors, err := emb.EmbedBatch(ctx, texts)
	require.NoError(t, err)

	idx, err := store.GetOrCreate("bob")
	require.NoError(t, err)
	chunks := []entity.Chunk{
		{DocumentID: "d1", Filename: "geo.txt", Seq: 0, Text: texts[0]},
		{DocumentID: "d1", Filename: "geo.txt", Seq: 1, Text: texts[1]},
	}
	require.NoError(t, idx.Add(chunks, vectors))

	cfg := testConfig()
	cfg.SimilarityFloor = 0.1
	r := New(store, emb, cfg, zap.NewNop())

	result, err := r.Retrieve(ctx, "bob", "What is the capital of France?", 1)
	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, texts[0], result.Chunks[0].Chunk.Text)
}
