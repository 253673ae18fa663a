package index

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/entity"
)

// On-disk layout per user: <root>/<userID>/vectors.gob holds the search
// structure (normalized vectors), <root>/<userID>/meta.json the side
// mapping back to chunk metadata. Each file is written to a temporary
// name and renamed into place, so a crash mid-write leaves the previous
// snapshot intact; load verifies the two files agree and treats any
// disagreement as corruption.
const (
	vectorsFile = "vectors.gob"
	metaFile    = "meta.json"
)

type metaSnapshot struct {
	Dimension int            `json:"dimension"`
	Chunks    []entity.Chunk `json:"chunks"`
}

// Persist writes the index snapshot to durable storage. Safe to call
// concurrently with Search; readers keep seeing the previous snapshot
// until the rename lands.
func (u *UserIndex) Persist() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	if err := atomicWrite(filepath.Join(u.dir, vectorsFile), func(f *os.File) error {
		return gob.NewEncoder(f).Encode(u.vectors)
	}); err != nil {
		return fmt.Errorf("persist vectors: %w", err)
	}

	meta := metaSnapshot{Dimension: u.dimension, Chunks: u.chunks}
	if err := atomicWrite(filepath.Join(u.dir, metaFile), func(f *os.File) error {
		return json.NewEncoder(f).Encode(meta)
	}); err != nil {
		return fmt.Errorf("persist metadata: %w", err)
	}
	return nil
}

// load restores a persisted snapshot. A missing snapshot leaves the index
// empty; an unreadable or inconsistent one is reported as
// entity.ErrIndexCorrupted for the caller to recover from.
func (u *UserIndex) load() error {
	vf, err := os.Open(filepath.Join(u.dir, vectorsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrIndexCorrupted, err)
	}
	defer vf.Close()

	var vectors [][]float64
	if err := gob.NewDecoder(vf).Decode(&vectors); err != nil {
		return fmt.Errorf("%w: decode vectors: %v", entity.ErrIndexCorrupted, err)
	}

	mf, err := os.Open(filepath.Join(u.dir, metaFile))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrIndexCorrupted, err)
	}
	defer mf.Close()

	var meta metaSnapshot
	if err := json.NewDecoder(mf).Decode(&meta); err != nil {
		return fmt.Errorf("%w: decode metadata: %v", entity.ErrIndexCorrupted, err)
	}

	if len(meta.Chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks vs %d vectors", entity.ErrIndexCorrupted, len(meta.Chunks), len(vectors))
	}
	for _, v := range vectors {
		if len(v) != meta.Dimension {
			return fmt.Errorf("%w: vector dimension %d, metadata says %d", entity.ErrIndexCorrupted, len(v), meta.Dimension)
		}
	}

	u.dimension = meta.Dimension
	u.vectors = vectors
	u.chunks = meta.Chunks
	u.docs = make(map[string]struct{}, len(meta.Chunks))
	for _, ch := range meta.Chunks {
		u.docs[ch.DocumentID] = struct{}{}
	}
	return nil
}

func atomicWrite(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("swap into place: %w", err)
	}
	return nil
}
