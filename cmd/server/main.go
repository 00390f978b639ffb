package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/docs" // Swagger docs
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/cache"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/handlers"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/middleware"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/http/routes"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/memory"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/models"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/persistence/repositories"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/adapters/storage"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/services"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/logging"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/metrics"
	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title GOAT API
// @version 1.0
// @description Government application tracking API
// @contact.name API Support

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg.AppMode)
	response.ExposeErrors(cfg.IsDev())

	ctx := context.Background()
	health := map[string]handlers.HealthCheck{}

	// Entity store
	var repos *repositories.Set
	switch cfg.Store.Driver {
	case "memory":
		log.Println("⚠️ Using in-memory store, data is lost on restart")
		repos = memory.NewSet()
	default:
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer config.CloseDatabase(db)

		if err := models.AutoMigrate(db); err != nil {
			log.Fatalf("❌ Failed to auto migrate: %v", err)
		}
		log.Println("✅ Database migration completed")

		repos = repositories.NewGormSet(db)
		health["database"] = func(context.Context) error { return config.DatabaseHealth(db) }
	}

	if err := config.NewSeeder(repos, cfg.Seed).Run(ctx); err != nil {
		log.Printf("⚠️ Warning: Failed to seed reference data: %v", err)
	}

	// Reference cache
	var refCache services.ReferenceCache
	redisClient, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, reference cache disabled: %v", err)
	} else if redisClient != nil {
		defer redisClient.Close()
		refCache = cache.NewReferenceCache(redisClient.Client, cfg.Redis.CacheTTL)
		health["redis"] = redisClient.Health
		log.Println("✅ Redis connected")
	}

	// Object storage
	objects := newObjectStore(ctx, cfg)
	validator := storage.NewURLValidator(cfg.S3)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Services
	refs := services.NewReferenceService(repos.ApplicationTypes, repos.Officers, refCache, logger.With("component", "reference"))
	identity := services.NewIdentityService(repos.Users, m, logger.With("component", "identity"))
	svc := &routes.Services{
		Auth:         services.NewAuthService(repos, cfg.JWT, m, logger.With("component", "auth")),
		Applications: services.NewApplicationService(repos, refs, identity, validator, m, logger.With("component", "application")),
		Feedback:     services.NewFeedbackService(repos, validator, m, logger.With("component", "feedback")),
		Files:        services.NewFileService(repos.Files, objects, cfg.Upload, cfg.S3.PresignTTL, m, logger.With("component", "file")),
		References:   refs,
		Gatherer:     registry,
		Health:       health,
	}

	// Background jobs
	cronService := services.NewCronService(refs, svc.Files, cfg.Cron)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "GOAT API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    bodyLimit(cfg.Upload),
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, svc, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// newObjectStore returns S3 when a bucket is configured, memory otherwise
func newObjectStore(ctx context.Context, cfg *config.Config) services.ObjectStore {
	if cfg.S3.Bucket == "" {
		log.Println("⚠️ S3_BUCKET not set, uploads are kept in memory")
		return storage.NewMemoryStore(cfg.S3)
	}

	s3Store, err := storage.NewS3Store(ctx, cfg.S3)
	if err != nil {
		log.Fatalf("❌ Failed to configure S3: %v", err)
	}
	log.Printf("✅ S3 configured [bucket: %s, region: %s]", cfg.S3.Bucket, cfg.S3.Region)
	return s3Store
}

// bodyLimit leaves room for a full multipart upload plus form overhead
func bodyLimit(u config.UploadConfig) int {
	limit := u.MaxFileSize*int64(max(u.MaxFiles, 1)) + 1<<20
	if limit < fiber.DefaultBodyLimit {
		return fiber.DefaultBodyLimit
	}
	return int(limit)
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
