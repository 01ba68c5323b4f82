package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/minhledev/podcast-marketer/pkg/validator"

	"github.com/minhledev/podcast-marketer/internal/adapter/handler"
	"github.com/minhledev/podcast-marketer/internal/adapter/repository"
	"github.com/minhledev/podcast-marketer/internal/infrastructure/cache"
	"github.com/minhledev/podcast-marketer/internal/infrastructure/database"
	"github.com/minhledev/podcast-marketer/internal/infrastructure/storage"
	"github.com/minhledev/podcast-marketer/internal/usecase/content"
	"github.com/minhledev/podcast-marketer/internal/usecase/marketing"
	pkgai "github.com/minhledev/podcast-marketer/pkg/ai"
	"github.com/minhledev/podcast-marketer/pkg/config"
	"github.com/minhledev/podcast-marketer/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run migrations only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Applying migrations (development only) ...")
		n, err := database.MigrateUp(db)
		if err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
		log.Printf("✅ Applied %d migration(s)", n)
	} else {
		log.Println("🔄 Skipping migrations; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize object storage
	log.Println("📦 Connecting to object storage...")
	storageClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	episodeRepo := repository.NewEpisodeRepository(db)
	jobRepo := repository.NewContentJobRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	artifactRepo := repository.NewArtifactRepository(db)

	// Initialize AI clients and the content pipeline
	log.Println("🤖 Initializing content pipeline...")
	asmClient := pkgai.NewAssemblyAIClient(&cfg.Assembly)
	groqClient := pkgai.NewGroqClient(&cfg.Groq)
	generator := marketing.NewGenerator(groqClient, cfg.Groq.Model, logger)
	webhookSigner := jwt.NewWebhookSigner(cfg.Assembly.WebhookSecret, 24*time.Hour)

	contentService := content.NewContentService(
		episodeRepo,
		jobRepo,
		transcriptRepo,
		artifactRepo,
		asmClient,
		generator,
		webhookSigner,
		redisClient,
		cfg,
		logger,
	)

	// Start background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := contentService.StartWorkerPool(workerCtx, cfg.Server.WorkerCount); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}

	// Initialize handlers
	log.Println("🛣️  Setting up routes...")
	episodeHandler := handler.NewEpisodeHandler(contentService, logger)
	webhookHandler := handler.NewWebhookHandler(contentService, logger)
	storageHandler := handler.NewStorageHandler(contentService, storageClient, logger)

	router := handler.NewRouter(cfg, episodeHandler, webhookHandler, storageHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := contentService.StopWorkerPool(); err != nil {
		log.Printf("⚠️  Worker pool shutdown: %v", err)
	}

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
