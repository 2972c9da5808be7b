package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"MINDLENS_VECTOR_STORE", "MINDLENS_DSN", "MINDLENS_AI_ENABLED",
		"MINDLENS_AI_EMBEDDING_PROVIDER", "MINDLENS_AI_EMBEDDING_MODEL",
		"MINDLENS_AI_EMBEDDING_DIMENSION", "MINDLENS_AI_LLM_MODEL",
	} {
		t.Setenv(key, "")
	}

	var p Profile
	p.FromEnv()

	assert.Equal(t, VectorStoreEmbedded, p.VectorStore)
	assert.False(t, p.AIEnabled)
	assert.Equal(t, "openai", p.AIEmbeddingProvider)
	assert.Equal(t, "text-embedding-3-small", p.AIEmbeddingModel)
	assert.Equal(t, 384, p.AIEmbeddingDimension)
	assert.Equal(t, "gpt-4o-mini", p.AILLMModel)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MINDLENS_VECTOR_STORE", VectorStorePGVector)
	t.Setenv("MINDLENS_DSN", "postgres://localhost/mindlens")
	t.Setenv("MINDLENS_AI_ENABLED", "true")
	t.Setenv("MINDLENS_AI_API_KEY", "sk-test")
	t.Setenv("MINDLENS_AI_EMBEDDING_DIMENSION", "768")

	var p Profile
	p.FromEnv()

	assert.Equal(t, VectorStorePGVector, p.VectorStore)
	assert.Equal(t, "postgres://localhost/mindlens", p.DSN)
	assert.True(t, p.AIEnabled)
	assert.True(t, p.IsAIEnabled())
	assert.Equal(t, 768, p.AIEmbeddingDimension)
}

func TestFromEnvBadDimensionFallsBack(t *testing.T) {
	t.Setenv("MINDLENS_AI_EMBEDDING_DIMENSION", "zero")

	var p Profile
	p.FromEnv()
	assert.Equal(t, 384, p.AIEmbeddingDimension)
}

func TestValidateCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	p := &Profile{Mode: "dev", Data: dir, VectorStore: VectorStoreEmbedded}

	require.NoError(t, p.Validate())
	assert.DirExists(t, p.Data)
}

func TestValidateNormalizesMode(t *testing.T) {
	p := &Profile{Mode: "staging", Data: t.TempDir(), VectorStore: VectorStoreEmbedded}
	require.NoError(t, p.Validate())
	assert.Equal(t, "dev", p.Mode)
	assert.True(t, p.IsDev())
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	p := &Profile{Mode: "dev", Data: t.TempDir(), VectorStore: "chroma"}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported vector store")
}

func TestValidatePGVectorRequiresDSN(t *testing.T) {
	p := &Profile{Mode: "dev", Data: t.TempDir(), VectorStore: VectorStorePGVector}
	require.Error(t, p.Validate())

	p.DSN = "postgres://localhost/mindlens"
	require.NoError(t, p.Validate())
}
