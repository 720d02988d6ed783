package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/directorio-backend/config"
	"github.com/ikkim/directorio-backend/internal/app/controller"
	"github.com/ikkim/directorio-backend/internal/app/repository"
	"github.com/ikkim/directorio-backend/internal/app/service"
	"github.com/ikkim/directorio-backend/internal/db"
	"github.com/ikkim/directorio-backend/internal/middleware"
	"github.com/ikkim/directorio-backend/internal/router"
	"github.com/ikkim/directorio-backend/internal/scheduler"
	"github.com/ikkim/directorio-backend/internal/storage"
	"github.com/ikkim/directorio-backend/internal/websocket"
	"github.com/ikkim/directorio-backend/pkg/logger"
	redisutil "github.com/ikkim/directorio-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Directorio Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	drafts := newDraftStore(cfg)
	defer redisutil.Close()

	blobs, closeBlobs := newBlobStore(cfg)
	defer closeBlobs()

	// Initialize repositories
	database := db.GetDB()
	companyRepo := repository.NewCompanyRepository(database)
	linkRepo := repository.NewSocialLinkRepository(database)
	productRepo := repository.NewProductRepository(database)

	// Initialize services
	slugService := service.NewSlugService(companyRepo)
	wizardService := service.NewWizardService(drafts, companyRepo, slugService)
	submissionService := service.NewSubmissionService(database, wizardService, drafts, companyRepo, slugService, cfg.Server.PublicBaseURL)
	workspaceService := service.NewWorkspaceService(companyRepo, linkRepo, productRepo)
	mediaService := service.NewMediaService(companyRepo, repository.NewCompanyImageRepository(database), blobs, service.MediaLimits{
		GalleryCapacity:  cfg.Directory.GalleryCapacity,
		MaxImageBytes:    cfg.Directory.MaxImageBytes,
		MaxPortraitBytes: cfg.Directory.MaxPortraitBytes,
	})
	hoursService := service.NewHoursService(companyRepo, repository.NewBusinessHourRepository(database))
	reviewService := service.NewReviewService(companyRepo, repository.NewReviewRepository(database))
	blogService := service.NewBlogService(companyRepo, repository.NewBlogRepository(database))
	publicService := service.NewPublicService(database)

	// Live slug checks
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize controllers
	controllers := router.Controllers{
		Wizard:    controller.NewWizardController(wizardService, submissionService),
		Slug:      controller.NewSlugController(slugService, hub, cfg.Directory.SlugDebounce, cfg.CORS.AllowedOrigins),
		Workspace: controller.NewWorkspaceController(workspaceService, publicService),
		Media:     controller.NewMediaController(mediaService),
		Hours:     controller.NewHoursController(hoursService),
		Review:    controller.NewReviewController(reviewService, publicService),
		Blog:      controller.NewBlogController(blogService, publicService),
		Public:    controller.NewPublicController(publicService),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	engine := router.NewRouter(controllers, authMiddleware, cfg).Setup()

	// Sweep abandoned drafts and idle workspaces
	sweeper := scheduler.NewSweepScheduler(
		cfg.Directory.SweepSchedule,
		drafts,
		workspaceService,
		cfg.Directory.DraftTTL,
		cfg.Directory.WorkspaceIdleTTL,
	)
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start sweep scheduler", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	hub.Shutdown()
	sweeper.Stop()

	logger.Info("Server stopped successfully")
}

// newDraftStore keeps wizard drafts in Redis when enabled so they survive
// restarts, and in memory otherwise.
func newDraftStore(cfg *config.Config) repository.DraftStore {
	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, wizard drafts are kept in memory", nil)
		return repository.NewMemoryDraftStore()
	}
	if err := redisutil.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, wizard drafts are kept in memory", map[string]interface{}{
			"error": err.Error(),
		})
		return repository.NewMemoryDraftStore()
	}
	return repository.NewRedisDraftStore(redisutil.GetClient(), cfg.Directory.DraftTTL)
}

func newBlobStore(cfg *config.Config) (storage.BlobStore, func()) {
	switch cfg.Storage.Driver {
	case "s3":
		s3 := cfg.Storage.S3
		return storage.NewS3Storage(s3.Region, s3.Bucket, s3.AccessKeyID, s3.SecretAccessKey, s3.BaseURL), func() {}
	default:
		store, err := storage.NewFileStorage(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL)
		if err != nil {
			logger.Fatal("Failed to open local storage", err, map[string]interface{}{
				"dir": cfg.Storage.LocalDir,
			})
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close local storage", err)
			}
		}
	}
}
