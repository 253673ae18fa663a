package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgRetry "github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Retrieval pipeline configuration
	RetrievalCfg RetrievalConfig `envPrefix:"RETRIEVAL_"`

	// External model backends
	EmbeddingCfg  EmbeddingConfig  `envPrefix:"EMBEDDING_"`
	GenerationCfg GenerationConfig `envPrefix:"GENERATION_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// File upload configuration
	UploadDir     string           `env:"UPLOAD_DIR" envDefault:"uploads"`
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// RetrievalConfig tunes chunking, indexing and similarity search.
type RetrievalConfig struct {
	IndexDir        string        `env:"INDEX_DIR" envDefault:"vector_store"`
	ChunkSize       int           `env:"CHUNK_SIZE" envDefault:"800"`
	ChunkOverlap    int           `env:"CHUNK_OVERLAP" envDefault:"100"`
	ChatTopK        int           `env:"CHAT_TOP_K" envDefault:"4"`
	GenerationTopK  int           `env:"GENERATION_TOP_K" envDefault:"6"`
	SimilarityFloor float64       `env:"SIMILARITY_FLOOR" envDefault:"0.25"`
	QueryCacheTTL   time.Duration `env:"QUERY_CACHE_TTL" envDefault:"5m"`
}

// EmbeddingConfig configures the embedding backend. The model and
// dimension used for indexing must match the ones used for querying;
// changing either invalidates every persisted index.
type EmbeddingConfig struct {
	HTTPClientConfig
	Model     string               `env:"MODEL" envDefault:"nomic-embed-text"`
	Dimension int                  `env:"DIMENSION" envDefault:"768"`
	BatchSize int                  `env:"BATCH_SIZE" envDefault:"32"`
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// GenerationBackendConfig configures a single text-completion backend.
type GenerationBackendConfig struct {
	HTTPClientConfig
	Model string `env:"MODEL"`
}

// GenerationConfig holds the primary (local) and secondary (cloud)
// generation backends. The secondary is tried exactly once when the
// primary fails.
type GenerationConfig struct {
	Primary   GenerationBackendConfig `envPrefix:"PRIMARY_"`
	Secondary GenerationBackendConfig `envPrefix:"SECONDARY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`   // 10 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB multipart budget
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	r := cfg.RetrievalCfg
	if r.ChunkSize < 100 || r.ChunkSize > 8000 {
		return fmt.Errorf("RETRIEVAL_CHUNK_SIZE must be between 100 and 8000, got %d", r.ChunkSize)
	}
	if r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkSize {
		return fmt.Errorf("RETRIEVAL_CHUNK_OVERLAP must be between 0 and CHUNK_SIZE(%d), got %d", r.ChunkSize, r.ChunkOverlap)
	}
	if r.ChatTopK < 1 || r.GenerationTopK < 1 {
		return fmt.Errorf("RETRIEVAL_CHAT_TOP_K and RETRIEVAL_GENERATION_TOP_K must be at least 1")
	}
	if r.SimilarityFloor < 0 || r.SimilarityFloor > 1 {
		return fmt.Errorf("RETRIEVAL_SIMILARITY_FLOOR must be between 0 and 1, got %g", r.SimilarityFloor)
	}

	if cfg.EmbeddingCfg.Dimension < 1 {
		return fmt.Errorf("EMBEDDING_DIMENSION must be positive, got %d", cfg.EmbeddingCfg.Dimension)
	}
	if cfg.EmbeddingCfg.BatchSize < 1 {
		return fmt.Errorf("EMBEDDING_BATCH_SIZE must be positive, got %d", cfg.EmbeddingCfg.BatchSize)
	}

	// Backend endpoints are only required when the real connectors are
	// built; mock mode must boot on a clean environment.
	if !cfg.EnableMocks {
		if cfg.EmbeddingCfg.Url == "" {
			return fmt.Errorf("EMBEDDING_SERVICE_URL is required unless ENABLE_MOCKS is set")
		}
		for _, backend := range []struct {
			prefix string
			cfg    GenerationBackendConfig
		}{
			{"GENERATION_PRIMARY", cfg.GenerationCfg.Primary},
			{"GENERATION_SECONDARY", cfg.GenerationCfg.Secondary},
		} {
			if backend.cfg.Url == "" {
				return fmt.Errorf("%s_SERVICE_URL is required unless ENABLE_MOCKS is set", backend.prefix)
			}
			if backend.cfg.Model == "" {
				return fmt.Errorf("%s_MODEL is required unless ENABLE_MOCKS is set", backend.prefix)
			}
		}
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
