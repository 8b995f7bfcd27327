package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vcscsvcscs/fitai-planner/internal/config"
	"github.com/vcscsvcscs/fitai-planner/internal/handler"
	"github.com/vcscsvcscs/fitai-planner/internal/llm"
	"github.com/vcscsvcscs/fitai-planner/internal/middleware"
	"github.com/vcscsvcscs/fitai-planner/internal/pdf"
	"github.com/vcscsvcscs/fitai-planner/internal/security"
	"github.com/vcscsvcscs/fitai-planner/internal/service"
	"github.com/vcscsvcscs/fitai-planner/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// A .env file is optional; real environment variables take precedence
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Bool("completion_enabled", cfg.CompletionEnabled()),
		zap.Bool("export_archive", cfg.Export.Archive),
	)

	// Without a completion client every diet comes from the local rules
	var completion service.CompletionClient
	if cfg.CompletionEnabled() {
		client, err := llm.NewOpenAIClient(llm.ClientConfig{
			Provider:    cfg.Completion.Provider,
			BaseURL:     cfg.Completion.BaseURL,
			Endpoint:    cfg.Completion.Endpoint,
			APIKey:      cfg.Completion.APIKey,
			Model:       cfg.Completion.Model,
			Temperature: cfg.Completion.Temperature,
			MaxAttempts: cfg.Completion.MaxAttempts,
			Timeout:     cfg.Completion.Timeout,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize completion client", zap.Error(err))
		}
		completion = client
	} else {
		logger.Warn("No completion API key configured, diets will use the rule-based plan")
	}

	var archive storage.BlobStorage
	if cfg.Export.Archive {
		blobClient, err := storage.NewBlobStorageClient(
			cfg.Export.Storage.AccountName,
			cfg.Export.Storage.AccountKey,
			cfg.Export.Storage.Container,
			cfg.Export.Storage.BlobEndpoint,
			logger,
		)
		if err != nil {
			logger.Fatal("Failed to initialize Azure Blob Storage client", zap.Error(err))
		}
		initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
		if err := blobClient.EnsureContainer(initCtx); err != nil {
			// Downloads keep working; each archive upload is still attempted
			logger.Warn("Export container not available", zap.Error(err))
		}
		cancelInit()
		archive = blobClient

		if cfg.Export.EncryptionKey != "" {
			encryptor, err := security.NewEncryptorFromBase64(cfg.Export.EncryptionKey)
			if err != nil {
				logger.Fatal("Failed to initialize export encryption", zap.Error(err))
			}
			archive = storage.NewEncryptedBlobStorage(blobClient, encryptor)
			logger.Info("Archived plan documents will be encrypted")
		}
	}

	// Initialize services
	store := service.NewSessionStore(cfg.Session.TTL, logger)
	planService := service.NewPlanService(completion, logger)
	dashboardService := service.NewDashboardService(logger)
	exportService := service.NewExportService(pdf.NewPDFGenerator(logger), archive, logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Recovery must be first
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader, handler.ArchiveBlobHeader},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(logger))
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	handler.RegisterRoutes(r, handler.Handlers{
		Session:   handler.NewSessionHandler(store, logger),
		Intake:    handler.NewIntakeHandler(store, logger),
		Wizard:    handler.NewWizardHandler(store, logger),
		Plan:      handler.NewPlanHandler(store, planService, logger),
		Dashboard: handler.NewDashboardHandler(store, dashboardService, logger),
		Export:    handler.NewExportHandler(store, exportService, logger),
		Health:    handler.NewHealthHandler(store, cfg.CompletionEnabled(), cfg.Export.Archive),
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		store.RunSweeper(gctx, cfg.Session.SweepInterval)
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}

	logger.Info("Server exited")
}

// newLogger builds the production or development logger and applies the configured level
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Server.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.Logging.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	if cfg.Logging.Format != "" {
		zcfg.Encoding = cfg.Logging.Format
	}

	return zcfg.Build()
}
