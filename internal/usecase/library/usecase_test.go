package library

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/chunker"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/extractor"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/index"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/integration/embedding"
)

// memoryRepo is an in-memory DocumentRepository for tests.
type memoryRepo struct {
	mu        sync.Mutex
	documents map[string]entity.Document
	failNext  bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{documents: make(map[string]entity.Document)}
}

func (m *memoryRepo) Create(_ context.Context, document entity.Document) (*entity.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return nil, assert.AnError
	}
	m.documents[document.ID] = document
	stored := document
	return &stored, nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (*entity.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	document, ok := m.documents[id]
	if !ok {
		return nil, entity.ErrDocumentNotFound
	}
	return &document, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID string) ([]*entity.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Document
	for _, document := range m.documents {
		if document.UserID == userID {
			d := document
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return entity.ErrDocumentNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *memoryRepo) DeleteByUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, document := range m.documents {
		if document.UserID == userID {
			delete(m.documents, id)
		}
	}
	return nil
}

type fixture struct {
	uc    *LibraryUsecase
	repo  *memoryRepo
	store *index.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()

	store, err := index.NewStore(t.TempDir(), logger)
	require.NoError(t, err)

	files, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	repo := newMemoryRepo()
	uc := NewUsecase(
		repo,
		extractor.New(logger),
		chunker.New(chunker.DefaultChunkSize, chunker.DefaultOverlap),
		embedding.NewMockConnector(32, logger),
		store,
		files,
		2,
		logger,
	)
	return &fixture{uc: uc, repo: repo, store: store}
}

func ingest(t *testing.T, f *fixture, userID, name, text string) *entity.Document {
	t.Helper()
	document, err := f.uc.IngestDocument(context.Background(), entity.IngestRequest{
		UserID:       userID,
		OriginalName: name,
		Type:         entity.DocumentTypeText,
		Content:      []byte(text),
	})
	require.NoError(t, err)
	return document
}

func TestIngestDocument(t *testing.T) {
	f := newFixture(t)
	document := ingest(t, f, "alice", "notes.txt", "The capital of France is Paris.")

	assert.Equal(t, "alice", document.UserID)
	assert.Equal(t, "notes.txt", document.OriginalName)
	assert.Equal(t, 1, document.ChunkCount)
	assert.FileExists(t, document.StoragePath)

	idx, err := f.store.GetOrCreate("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Size())
	assert.True(t, idx.HasDocument(document.ID))

	stored, err := f.repo.Get(context.Background(), document.ID)
	require.NoError(t, err)
	assert.Equal(t, document.ID, stored.ID)
}

func TestIngestDocumentUnsupportedType(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.IngestDocument(context.Background(), entity.IngestRequest{
		UserID:       "alice",
		OriginalName: "image.png",
		Type:         entity.DocumentType("png"),
		Content:      []byte{0x89, 0x50},
	})
	require.ErrorIs(t, err, entity.ErrUnsupportedFormat)
	assert.Empty(t, f.repo.documents)
}

func TestIngestDocumentEmptyContent(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.IngestDocument(context.Background(), entity.IngestRequest{
		UserID:       "alice",
		OriginalName: "empty.txt",
		Type:         entity.DocumentTypeText,
		Content:      []byte("   \n\n  "),
	})
	require.ErrorIs(t, err, entity.ErrExtractionFailed)
}

func TestIngestDocumentRollsBackOnIndexFailure(t *testing.T) {
	f := newFixture(t)
	first := ingest(t, f, "alice", "a.txt", "Some study notes about biology.")

	f.repo.failNext = true
	_, err := f.uc.IngestDocument(context.Background(), entity.IngestRequest{
		UserID:       "alice",
		OriginalName: "b.txt",
		Type:         entity.DocumentTypeText,
		Content:      []byte("More notes about chemistry."),
	})
	require.Error(t, err)

	// Only the first document survives anywhere.
	idx, err := f.store.GetOrCreate("alice")
	require.NoError(t, err)
	assert.Equal(t, first.ChunkCount, idx.Size())

	documents, err := f.uc.ListDocuments(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, first.ID, documents[0].ID)
}

func TestRemoveDocument(t *testing.T) {
	f := newFixture(t)
	keep := ingest(t, f, "alice", "keep.txt", "Keep these notes around.")
	drop := ingest(t, f, "alice", "drop.txt", "Drop these notes entirely.")

	require.NoError(t, f.uc.RemoveDocument(context.Background(), "alice", drop.ID))

	idx, err := f.store.GetOrCreate("alice")
	require.NoError(t, err)
	assert.False(t, idx.HasDocument(drop.ID))
	assert.True(t, idx.HasDocument(keep.ID))

	_, err = f.repo.Get(context.Background(), drop.ID)
	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
	_, statErr := os.Stat(drop.StoragePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemoveDocumentOwnership(t *testing.T) {
	f := newFixture(t)
	document := ingest(t, f, "alice", "private.txt", "Alice's private notes.")

	err := f.uc.RemoveDocument(context.Background(), "mallory", document.ID)
	require.ErrorIs(t, err, entity.ErrNotDocumentOwner)

	// Untouched.
	_, err = f.repo.Get(context.Background(), document.ID)
	assert.NoError(t, err)
}

func TestRemoveDocumentNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.uc.RemoveDocument(context.Background(), "alice", "5f1e0a52-0c3f-4ef6-9df0-111111111111")
	require.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestDeleteUserData(t *testing.T) {
	f := newFixture(t)
	mine := ingest(t, f, "alice", "mine.txt", "Alice's study notes.")
	theirs := ingest(t, f, "bob", "theirs.txt", "Bob's study notes.")

	require.NoError(t, f.uc.DeleteUserData(context.Background(), "alice"))

	documents, err := f.uc.ListDocuments(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, documents)
	_, statErr := os.Stat(mine.StoragePath)
	assert.True(t, os.IsNotExist(statErr))

	// Bob is untouched.
	bobIdx, err := f.store.GetOrCreate("bob")
	require.NoError(t, err)
	assert.True(t, bobIdx.HasDocument(theirs.ID))
}
