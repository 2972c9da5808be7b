package embedded

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/viterin/vek/vek32"
)

// FlatIndex is an exact inner-product nearest-neighbor index. Vectors are
// expected pre-normalized by the caller, so inner product approximates cosine
// similarity. The first Add fixes the dimensionality for the index lifetime.
type FlatIndex struct {
	dim     int
	vectors [][]float32
}

// IndexHit is one ranked search result: the ordinal of the vector in add
// order and its inner-product score against the query.
type IndexHit struct {
	Ordinal int
	Score   float32
}

// NewFlatIndex creates an empty index. Dimensionality is fixed by the first
// added vector, or immediately when dim > 0.
func NewFlatIndex(dim int) *FlatIndex {
	return &FlatIndex{dim: dim}
}

// Len returns the number of stored vectors.
func (x *FlatIndex) Len() int {
	return len(x.vectors)
}

// Dim returns the index dimensionality, 0 while the index is still unfixed.
func (x *FlatIndex) Dim() int {
	return x.dim
}

// Add appends a vector. The stored slice is copied so callers may reuse
// their buffer.
func (x *FlatIndex) Add(vec []float32) error {
	if len(vec) == 0 {
		return errors.New("cannot add empty vector")
	}
	if x.dim == 0 {
		x.dim = len(vec)
	} else if len(vec) != x.dim {
		return errors.Errorf("vector dimension %d does not match index dimension %d", len(vec), x.dim)
	}
	stored := make([]float32, len(vec))
	copy(stored, vec)
	x.vectors = append(x.vectors, stored)
	return nil
}

// Search returns up to k hits ranked by descending inner product. Ties keep
// add order. An empty index or k <= 0 yields no hits.
func (x *FlatIndex) Search(query []float32, k int) ([]IndexHit, error) {
	if len(x.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, errors.Errorf("query dimension %d does not match index dimension %d", len(query), x.dim)
	}

	hits := make([]IndexHit, len(x.vectors))
	for i, vec := range x.vectors {
		hits[i] = IndexHit{Ordinal: i, Score: vek32.Dot(query, vec)}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// indexFile is the gob-serialized on-disk form of a FlatIndex.
type indexFile struct {
	Dim     int
	Vectors [][]float32
}

// Save persists the index to path via a temp file and atomic rename.
func (x *FlatIndex) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp index file")
	}
	tmpName := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpName)
	}()

	enc := gob.NewEncoder(tmp)
	if err := enc.Encode(indexFile{Dim: x.dim, Vectors: x.vectors}); err != nil {
		return errors.Wrap(err, "failed to encode index")
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync index file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close index file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "failed to replace index file")
	}
	return nil
}

// LoadFlatIndex reads an index persisted by Save. A missing file returns
// (nil, nil) so callers can distinguish absent from corrupt.
func LoadFlatIndex(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open index file")
	}
	defer f.Close()

	var stored indexFile
	if err := gob.NewDecoder(f).Decode(&stored); err != nil {
		return nil, errors.Wrap(err, "failed to decode index file")
	}
	return &FlatIndex{dim: stored.Dim, vectors: stored.Vectors}, nil
}
