package embedded

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatIndexAddFixesDimension(t *testing.T) {
	index := NewFlatIndex(0)
	assert.Equal(t, 0, index.Dim())

	require.NoError(t, index.Add([]float32{1, 0, 0}))
	assert.Equal(t, 3, index.Dim())

	err := index.Add([]float32{1, 0})
	require.Error(t, err)
	assert.Equal(t, 1, index.Len())
}

func TestFlatIndexSearchRanking(t *testing.T) {
	index := NewFlatIndex(0)
	require.NoError(t, index.Add([]float32{1, 0}))  // ordinal 0
	require.NoError(t, index.Add([]float32{0, 1}))  // ordinal 1
	require.NoError(t, index.Add([]float32{-1, 0})) // ordinal 2

	hits, err := index.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Descending inner product: identical vector first, opposite last.
	assert.Equal(t, 0, hits[0].Ordinal)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, 1, hits[1].Ordinal)
	assert.Equal(t, 2, hits[2].Ordinal)
	assert.InDelta(t, -1.0, hits[2].Score, 1e-6)
}

func TestFlatIndexSearchKSaturation(t *testing.T) {
	index := NewFlatIndex(0)
	require.NoError(t, index.Add([]float32{1, 0}))

	hits, err := index.Search([]float32{1, 0}, 50)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestFlatIndexSearchEmpty(t *testing.T) {
	index := NewFlatIndex(0)
	hits, err := index.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFlatIndexSearchQueryDimensionMismatch(t *testing.T) {
	index := NewFlatIndex(0)
	require.NoError(t, index.Add([]float32{1, 0, 0}))

	_, err := index.Search([]float32{1, 0}, 1)
	assert.Error(t, err)
}

func TestFlatIndexSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")

	index := NewFlatIndex(0)
	require.NoError(t, index.Add([]float32{0.5, 0.5}))
	require.NoError(t, index.Add([]float32{0.1, -0.9}))
	require.NoError(t, index.Save(path))

	loaded, err := LoadFlatIndex(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 2, loaded.Len())
	assert.Equal(t, 2, loaded.Dim())

	hits, err := loaded.Search([]float32{0.5, 0.5}, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].Ordinal)
}

func TestLoadFlatIndexMissingFile(t *testing.T) {
	loaded, err := LoadFlatIndex(filepath.Join(t.TempDir(), "absent.bin"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
