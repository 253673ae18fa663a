package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api"
	documentsapi "github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api/documents"
	studyapi "github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/api/study"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/chunker"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/config"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/extractor"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/index"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/integration/embedding"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/integration/generation"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/logger"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/pkg/validator"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/repository"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/retriever"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/usecase/library"
	"github.com/shivendra911/Flask-CRUD-RAG-LLM/internal/usecase/study"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	log.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	log.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("Database migrations completed successfully")

	// Initialize repositories
	documentRepo := repository.NewDocumentPostgres(db)
	log.Info("Repositories initialized")

	// Initialize the vector index store
	store, err := index.NewStore(cfg.RetrievalCfg.IndexDir, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setup index store: %w", err)
	}

	// Initialize model connectors (with mock support)
	var embedder library.Embedder
	var queryEmbedder retriever.Embedder
	var generator study.Generator

	if cfg.EnableMocks {
		log.Info("Using mock connectors for model services")
		mockEmbedder := embedding.NewMockConnector(cfg.EmbeddingCfg.Dimension, log)
		embedder = mockEmbedder
		queryEmbedder = mockEmbedder
		generator = generation.NewMockClient(log)
	} else {
		log.Info("Using real connectors for model services")
		realEmbedder := embedding.NewConnector(cfg.EmbeddingCfg, log)
		embedder = realEmbedder
		queryEmbedder = realEmbedder
		generator = generation.NewClient(cfg.GenerationCfg, log)
	}

	// Initialize file storage and validators
	files, err := library.NewFileStorage(cfg.UploadDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setup file storage: %w", err)
	}
	uploadValidator := validator.NewUploadValidator(cfg.FileUploadCfg)
	log.Info("Validators initialized")

	// Initialize use cases
	libraryUC := library.NewUsecase(
		documentRepo,
		extractor.New(log),
		chunker.New(cfg.RetrievalCfg.ChunkSize, cfg.RetrievalCfg.ChunkOverlap),
		embedder,
		store,
		files,
		cfg.EmbeddingCfg.BatchSize,
		log,
	)

	studyUC := study.NewUsecase(
		retriever.New(store, queryEmbedder, cfg.RetrievalCfg, log),
		generator,
		cfg.RetrievalCfg,
		log,
	)
	log.Info("Use cases initialized")

	// Setup API handlers
	documentsHandler := documentsapi.NewHandler(libraryUC, cfg.FileUploadCfg, uploadValidator)
	studyHandler := studyapi.NewHandler(studyUC)
	log.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(documentsHandler, studyHandler, log)
	log.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: log,
	}, nil
}
