package profile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Supported vector store backends.
const (
	// VectorStoreEmbedded is the in-process flat index with a jsonl metadata log.
	VectorStoreEmbedded = "embedded"
	// VectorStorePGVector is the PostgreSQL + pgvector backend.
	VectorStorePGVector = "pgvector"
)

// Profile is the configuration to start mindlens.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Data is the data directory holding the journal and index files
	Data string
	// VectorStore selects the vector search backend ("embedded" or "pgvector")
	VectorStore string
	// DSN is the PostgreSQL connection string for the pgvector backend
	DSN string
	// Version is the current version of mindlens
	Version string

	// AI Configuration
	AIEnabled            bool   // MINDLENS_AI_ENABLED
	AIEmbeddingProvider  string // MINDLENS_AI_EMBEDDING_PROVIDER (default: openai)
	AIAPIKey             string // MINDLENS_AI_API_KEY
	AIBaseURL            string // MINDLENS_AI_BASE_URL
	AIEmbeddingModel     string // MINDLENS_AI_EMBEDDING_MODEL (default: text-embedding-3-small)
	AIEmbeddingDimension int    // MINDLENS_AI_EMBEDDING_DIMENSION (default: 384)
	AILLMModel           string // MINDLENS_AI_LLM_MODEL (default: gpt-4o-mini)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key or base URL is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && (p.AIAPIKey != "" || p.AIBaseURL != "")
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from MINDLENS_* environment variables.
func (p *Profile) FromEnv() {
	p.VectorStore = getEnvOrDefault("MINDLENS_VECTOR_STORE", VectorStoreEmbedded)
	if dsn := os.Getenv("MINDLENS_DSN"); dsn != "" {
		p.DSN = dsn
	}

	p.AIEnabled = os.Getenv("MINDLENS_AI_ENABLED") == "true"
	p.AIEmbeddingProvider = getEnvOrDefault("MINDLENS_AI_EMBEDDING_PROVIDER", "openai")
	p.AIAPIKey = os.Getenv("MINDLENS_AI_API_KEY")
	p.AIBaseURL = os.Getenv("MINDLENS_AI_BASE_URL")
	p.AIEmbeddingModel = getEnvOrDefault("MINDLENS_AI_EMBEDDING_MODEL", "text-embedding-3-small")
	p.AILLMModel = getEnvOrDefault("MINDLENS_AI_LLM_MODEL", "gpt-4o-mini")

	if v := os.Getenv("MINDLENS_AI_EMBEDDING_DIMENSION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.AIEmbeddingDimension = n
		}
	}
	if p.AIEmbeddingDimension == 0 {
		p.AIEmbeddingDimension = 384
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dataDir, 0o770); mkErr != nil {
			return "", errors.Wrapf(mkErr, "unable to create data folder %s", dataDir)
		}
	} else if err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and rejects unusable configurations.
// Backend selection is checked here so a typo fails at startup, not on first use.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Data == "" {
		p.Data = "data"
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	switch p.VectorStore {
	case VectorStoreEmbedded:
	case VectorStorePGVector:
		if p.DSN == "" {
			return errors.New("pgvector backend requires a DSN")
		}
	default:
		return errors.Errorf("unsupported vector store %q: use %q or %q", p.VectorStore, VectorStoreEmbedded, VectorStorePGVector)
	}

	return nil
}
