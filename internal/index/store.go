// Package index manages one similarity-search index per user: in-memory
// brute-force cosine search over L2-normalized vectors, a side mapping from
// vector position to chunk metadata, and atomic persistence to disk.
package index

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

// Store is the process-wide registry of per-user index handles. The
// registry lock guards handle creation and eviction only; index content is
// guarded by each handle's own lock.
type Store struct {
	rootDir string
	logger  *zap.Logger

	mu      sync.Mutex
	handles map[string]*UserIndex
}

// NewStore creates a store persisting user indexes under rootDir.
func NewStore(rootDir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create index root: %w", err)
	}
	return &Store{
		rootDir: rootDir,
		logger:  logger,
		handles: make(map[string]*UserIndex),
	}, nil
}

// GetOrCreate returns the user's index handle, loading a persisted index
// from disk on first access. A corrupted persisted index is replaced with
// an empty one and logged; it never fails the enclosing request. Exactly
// one handle exists per user per process.
func (s *Store) GetOrCreate(userID string) (*UserIndex, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.handles[userID]; ok {
		return idx, nil
	}

	idx := &UserIndex{
		userID: userID,
		dir:    filepath.Join(s.rootDir, userID),
		logger: s.logger.With(zap.String("user_id", userID)),
		docs:   make(map[string]struct{}),
	}
	if err := idx.load(); err != nil {
		s.logger.Warn("persisted index unreadable, starting empty",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		idx.reset()
	}

	s.handles[userID] = idx
	return idx, nil
}

// DeleteAll drops the in-memory handle and removes the user's persisted
// index files. Invoked on account deletion.
func (s *Store) DeleteAll(userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.handles, userID)
	s.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(s.rootDir, userID)); err != nil {
		return fmt.Errorf("remove index files: %w", err)
	}
	return nil
}

func validateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user id", entity.ErrInvalidParameter)
	}
	if strings.ContainsAny(userID, `/\`) || userID == "." || userID == ".." {
		return fmt.Errorf("%w: user id %q is not a valid index key", entity.ErrInvalidParameter, userID)
	}
	return nil
}

// UserIndex is one user's searchable vector collection. vectors[i] is the
// L2-normalized embedding of chunks[i]; both grow append-only and are only
// ever replaced wholesale by RemoveDocument's rebuild.
type UserIndex struct {
	userID string
	dir    string
	logger *zap.Logger

	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	chunks    []entity.Chunk
	docs      map[string]struct{}
}

// Add appends the chunks and their vectors. The whole batch is rejected if
// the document is already indexed, lengths disagree, or any vector does not
// match the index dimensionality (fixed by the first insertion).
func (u *UserIndex) Add(chunks []entity.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks vs %d vectors", entity.ErrInvalidParameter, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	for _, ch := range chunks {
		if _, ok := u.docs[ch.DocumentID]; ok {
			return fmt.Errorf("%w: %s", entity.ErrDocumentIndexed, ch.DocumentID)
		}
	}

	dim := u.dimension
	if dim == 0 {
		dim = len(vectors[0])
	}
	for _, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: got %d, index uses %d", entity.ErrDimensionMismatch, len(v), dim)
		}
	}

	u.dimension = dim
	for i, v := range vectors {
		u.vectors = append(u.vectors, normalize(v))
		u.chunks = append(u.chunks, chunks[i])
		u.docs[chunks[i].DocumentID] = struct{}{}
	}
	return nil
}

// Search returns the k most similar chunks by cosine similarity, highest
// first, ties broken by insertion order (earlier chunk wins). An empty
// index returns an empty result, not an error.
func (u *UserIndex) Search(query []float64, k int) (entity.RetrievalResult, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if len(u.vectors) == 0 || k <= 0 {
		return entity.RetrievalResult{}, nil
	}
	if len(query) != u.dimension {
		return entity.RetrievalResult{}, fmt.Errorf("%w: query has %d, index uses %d",
			entity.ErrDimensionMismatch, len(query), u.dimension)
	}

	q := normalize(query)
	order := make([]int, len(u.vectors))
	scores := make([]float64, len(u.vectors))
	for i, v := range u.vectors {
		order[i] = i
		scores[i] = dot(v, q)
	}
	sort.SliceStable(order, func(a, b int) bool {
		if scores[order[a]] != scores[order[b]] {
			return scores[order[a]] > scores[order[b]]
		}
		return order[a] < order[b]
	})

	if k > len(order) {
		k = len(order)
	}
	result := entity.RetrievalResult{Chunks: make([]entity.ScoredChunk, 0, k)}
	for _, i := range order[:k] {
		result.Chunks = append(result.Chunks, entity.ScoredChunk{
			Chunk: u.chunks[i],
			Score: scores[i],
		})
	}
	return result, nil
}

// RemoveDocument drops every chunk belonging to the document and rebuilds
// the search structure from the surviving vectors. Vectors are retained in
// memory, so no re-embedding happens. Removing an unknown document is a
// no-op.
func (u *UserIndex) RemoveDocument(documentID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, ok := u.docs[documentID]; !ok {
		return nil
	}

	vectors := make([][]float64, 0, len(u.vectors))
	chunks := make([]entity.Chunk, 0, len(u.chunks))
	for i, ch := range u.chunks {
		if ch.DocumentID == documentID {
			continue
		}
		chunks = append(chunks, ch)
		vectors = append(vectors, u.vectors[i])
	}
	u.vectors = vectors
	u.chunks = chunks
	delete(u.docs, documentID)
	if len(u.chunks) == 0 {
		u.dimension = 0
	}
	return nil
}

// Size returns the number of indexed vectors.
func (u *UserIndex) Size() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.vectors)
}

// HasDocument reports whether the document's chunks are in the index.
func (u *UserIndex) HasDocument(documentID string) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	_, ok := u.docs[documentID]
	return ok
}

func (u *UserIndex) reset() {
	u.dimension = 0
	u.vectors = nil
	u.chunks = nil
	u.docs = make(map[string]struct{})
}

func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
