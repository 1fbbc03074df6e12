package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	exportapp "github.com/pimsync/connector/internal/application/export"
	"github.com/pimsync/connector/internal/infrastructure/cache"
	"github.com/pimsync/connector/internal/infrastructure/config"
	"github.com/pimsync/connector/internal/infrastructure/logger"
	"github.com/pimsync/connector/internal/infrastructure/persistence"
	"github.com/pimsync/connector/internal/infrastructure/scheduler"
	"github.com/pimsync/connector/internal/infrastructure/shopware"
	"github.com/pimsync/connector/internal/infrastructure/storage"
	"github.com/pimsync/connector/internal/infrastructure/telemetry"
	"github.com/pimsync/connector/internal/interfaces/http/handler"
	"github.com/pimsync/connector/internal/interfaces/http/middleware"
	"github.com/pimsync/connector/internal/interfaces/http/router"
)

// remoteTimeout bounds a single admin API request against a remote shop.
const remoteTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting PIM Sync Connector",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	channelRepo := persistence.NewGormChannelRepository(db.DB)
	exportRepo := persistence.NewGormExportRepository(db.DB)
	eventHistory := persistence.NewGormEventHistoryQuery(db.DB)
	linkStore := persistence.NewGormLinkStore(db.DB)
	productQuery := persistence.NewGormProductQuery(db.DB)
	segmentQuery := persistence.NewGormSegmentProductQuery(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	treeRepo := persistence.NewGormTreeRepository(db.DB)
	attributeRepo := persistence.NewGormAttributeRepository(db.DB)
	optionRepo := persistence.NewGormOptionRepository(db.DB)
	mediaRepo := persistence.NewGormMediaRepository(db.DB)

	// Run cache: Redis when reachable, in-memory otherwise
	runCache, err := cache.NewRunCacheFactory(cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to create run cache", zap.Error(err))
	}

	// Binary storage for product media files
	binaryStorage, err := storage.NewBinaryStorage(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize binary storage", zap.Error(err))
	}

	// Remote admin API clients share one authenticating connector
	connector := shopware.NewConnector(remoteTimeout, log)
	categoryClient := shopware.NewCategoryClient(connector)
	productClient := shopware.NewProductClient(connector)
	customFieldClient := shopware.NewCustomFieldClient(connector)
	propertyGroupClient := shopware.NewPropertyGroupClient(connector)
	languageClient := shopware.NewLanguageClient(connector)
	systemClient := shopware.NewSystemClient(connector, runCache)
	mediaClient := shopware.NewMediaClient(connector, binaryStorage, linkStore, runCache, log)

	// Export pipeline
	detector := exportapp.NewChangeDetector(eventHistory, log)

	customFieldProcess := exportapp.NewCustomFieldProcess(
		detector,
		exportapp.NewCustomFieldBuilder(exportapp.DefaultCustomFieldMappers()...),
		customFieldClient, linkStore, attributeRepo, optionRepo, optionRepo, log,
	)
	propertyGroupProcess := exportapp.NewPropertyGroupProcess(
		detector,
		exportapp.NewPropertyGroupBuilder(exportapp.DefaultPropertyGroupMappers()...),
		propertyGroupClient, linkStore, attributeRepo, optionRepo, optionRepo, log,
	)
	categoryProcess := exportapp.NewCategoryProcess(
		detector,
		exportapp.NewCategoryBuilder(exportapp.DefaultCategoryMappers()...),
		categoryClient, linkStore, categoryRepo, log,
	)
	productProcess := exportapp.NewProductProcess(
		detector,
		exportapp.NewProductBuilder(exportapp.DefaultProductMappers(
			attributeRepo, optionRepo, mediaRepo, linkStore, systemClient, mediaClient,
		)...),
		productClient, linkStore, productRepo, log,
	)
	mediaProcess := exportapp.NewMediaProcess(detector, mediaClient, linkStore, mediaRepo, log)

	// Dependents run after their dependencies: products reference the
	// custom fields, options and categories exported before them, and the
	// removal pass runs last so stale categories are deleted after
	// products stopped referencing them.
	steps := []exportapp.Step{
		exportapp.NewCustomFieldStep(customFieldProcess, exportRepo, log),
		exportapp.NewPropertyGroupStep(productQuery, productRepo, propertyGroupProcess, exportRepo, log),
		exportapp.NewCategoryStep(treeRepo, categoryProcess, exportRepo, log),
		exportapp.NewProductStep(productQuery, segmentQuery, productProcess, exportRepo, log),
		exportapp.NewMediaStep(mediaRepo, mediaProcess, exportRepo, log),
		exportapp.NewCategoryRemoveStep(treeRepo, categoryProcess, exportRepo, log),
	}
	runner := exportapp.NewRunner(channelRepo, exportRepo, exportRepo, languageClient, runCache, steps, log)

	// Periodic exports
	if cfg.Scheduler.Enabled {
		exportScheduler := scheduler.NewExportScheduler(scheduler.Config{
			Interval:   cfg.Scheduler.Interval,
			RunTimeout: cfg.Scheduler.RunTimeout,
		}, runner, channelRepo, log)
		if err := exportScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start export scheduler", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := exportScheduler.Stop(ctx); err != nil {
				log.Error("Error stopping export scheduler", zap.Error(err))
			}
		}()
	}

	// Set gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register custom validators
	middleware.SetupValidator()

	// Setup gin engine
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	// Global middleware
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewSystemHandler()).
		Register(handler.NewChannelHandler(channelRepo)).
		Register(handler.NewExportHandler(runner, exportRepo, log)).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
