package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/trycco/storefront/internal/application/catalog"
	tradeapp "github.com/trycco/storefront/internal/application/trade"
	"github.com/trycco/storefront/internal/infrastructure/auth"
	"github.com/trycco/storefront/internal/infrastructure/cache"
	"github.com/trycco/storefront/internal/infrastructure/config"
	"github.com/trycco/storefront/internal/infrastructure/event"
	"github.com/trycco/storefront/internal/infrastructure/logger"
	"github.com/trycco/storefront/internal/infrastructure/mail"
	"github.com/trycco/storefront/internal/infrastructure/migration"
	"github.com/trycco/storefront/internal/infrastructure/persistence"
	"github.com/trycco/storefront/internal/infrastructure/scheduler"
	"github.com/trycco/storefront/internal/infrastructure/storage"
	"github.com/trycco/storefront/internal/infrastructure/telemetry"
	"github.com/trycco/storefront/internal/interfaces/http/handler"
	"github.com/trycco/storefront/internal/interfaces/http/middleware"
	"github.com/trycco/storefront/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/trycco/storefront/docs"
)

//	@title			Trycco Storefront API
//	@version		1.0
//	@description	Public storefront of the Trycco clothing shop and its back-office API.
//	@description	Storefront routes are public; admin routes take a Bearer token from /admin/api/v1/auth/login.

//	@contact.name	Trycco
//	@contact.url	https://github.com/trycco/storefront

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin access token. Format: "Bearer {token}"

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	baseLog, logCloser, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logCloser.Close() }()

	ctx := context.Background()

	// Telemetry installs the otel globals when enabled; disabled signals keep
	// the no-op defaults.
	pipeline, err := telemetry.Start(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to start telemetry", zap.Error(err))
	}
	defer func() {
		if err := pipeline.Shutdown(context.Background()); err != nil {
			baseLog.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	bridgeLevel, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		bridgeLevel = zapcore.InfoLevel
	}
	log := pipeline.Bridge(baseLog, bridgeLevel)
	defer func() { _ = logger.Sync(log) }()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("version", Version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracing(cfg.Telemetry, cfg.Database.Driver, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if _, err := telemetry.RegisterPoolMetrics(pipeline.Meter("storefront/db"), sqlDB); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	if err := migrateSchema(cfg, db, log); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	subCategoryRepo := persistence.NewGormSubCategoryRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Metrics
	metrics, err := telemetry.NewStorefrontMetrics(pipeline.Meter("storefront"))
	if err != nil {
		log.Fatal("Failed to create storefront metrics", zap.Error(err))
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log, event.WithDispatchObserver(metrics.ObserveDispatch))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbound adapters
	landingCache, cacheCloser, err := cache.NewLandingCache(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize landing cache", zap.Error(err))
	}
	defer func() { _ = cacheCloser.Close() }()

	pictureStorage, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize picture storage", zap.Error(err))
	}
	pictures := catalogapp.NewPictureResolver(pictureStorage, cfg.Storage.PresignExpiration, log)
	mailer := mail.New(cfg.Mail, log)

	// Application services
	listingService := catalogapp.NewListingService(articleRepo, categoryRepo, pictures, log)
	if landingCache != nil {
		listingService.WithLandingCache(landingCache)
	}
	taxonomyService := catalogapp.NewTaxonomyService(categoryRepo, subCategoryRepo, tagRepo, eventBus, log)
	articleService := catalogapp.NewArticleService(articleRepo, categoryRepo, subCategoryRepo, tagRepo, eventBus, log).
		WithPictureStorage(pictureStorage, pictures)
	orderService := tradeapp.NewOrderService(articleRepo, orderRepo, eventBus, log).WithMetrics(metrics)
	notificationService := tradeapp.NewNotificationService(notificationRepo, log)

	// Event handlers
	notificationHandler := tradeapp.NewOrderPlacedNotificationHandler(mailer, notificationRepo, tradeapp.NotificationSettings{
		SiteTitle:    cfg.App.SiteTitle,
		BaseURL:      cfg.App.BaseURL,
		AdminAddress: cfg.Mail.AdminAddress,
		Timeout:      cfg.Mail.Timeout,
	}, log).WithMetrics(metrics)
	eventBus.Subscribe(notificationHandler)
	if landingCache != nil {
		invalidation := catalogapp.NewLandingInvalidationHandler(landingCache, log)
		eventBus.Subscribe(invalidation)
		log.Info("Landing cache invalidation registered", zap.Strings("events", invalidation.EventTypes()))
	}
	log.Info("Event handlers registered", zap.Strings("order_placed_events", notificationHandler.EventTypes()))

	// Admin authentication
	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	if cfg.Cache.Driver == cache.DriverRedis {
		if client, err := cache.NewRedisClient(cfg.Redis); err == nil {
			revocations = auth.NewRedisRevocationList(client)
			defer func() { _ = client.Close() }()
		} else {
			log.Warn("Redis unavailable, admin logouts are kept in memory", zap.Error(err))
		}
	}
	authenticator := auth.NewAdminAuthenticator(cfg.Admin, auth.NewTokenService(cfg.JWT), revocations, log)

	// Scheduler
	var jobHandler *handler.JobHandler
	if cfg.Scheduler.Enabled {
		location, err := time.LoadLocation(cfg.Scheduler.Timezone)
		if err != nil {
			log.Fatal("Invalid scheduler timezone", zap.String("timezone", cfg.Scheduler.Timezone), zap.Error(err))
		}
		jobs := scheduler.New(scheduler.Config{Location: location, JobTimeout: cfg.Scheduler.JobTimeout}, log)
		if err := scheduler.RegisterMonthlyReset(jobs, cfg.Scheduler.MonthlyResetSpec, articleService); err != nil {
			log.Fatal("Failed to register monthly sales reset", zap.Error(err))
		}
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := jobs.Stop(stopCtx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		jobHandler = handler.NewJobHandler(jobs)
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id first so every later log line carries it,
	// recovery before anything that can panic, tracing before the handlers
	// whose spans it parents.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     pipeline.TracingEnabled(),
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Meter:   pipeline.Meter("http.server"),
		Logger:  log,
		Enabled: pipeline.MetricsEnabled(),
	}))

	security := middleware.SecurityPolicy{CSP: middleware.DefaultCSP}
	if cfg.IsProduction() {
		security.HSTSMaxAge = 365 * 24 * time.Hour
	}
	engine.Use(middleware.SecurityHeaders(security))
	engine.Use(middleware.CORS(middleware.CORSPolicy{
		Origins:     cfg.HTTP.CORSAllowOrigins,
		Methods:     cfg.HTTP.CORSAllowMethods,
		Headers:     cfg.HTTP.CORSAllowHeaders,
		Credentials: true,
		MaxAge:      12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	guards := router.Guards{Admin: middleware.AdminAuth(authenticator, log)}
	if cfg.HTTP.RateLimitEnabled {
		global := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		orders := middleware.NewRateLimiter(cfg.HTTP.OrderRateLimitRequests, cfg.HTTP.OrderRateLimitWindow)
		logins := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer global.Stop()
		defer orders.Stop()
		defer logins.Stop()

		engine.Use(middleware.RateLimit(global))
		guards.Order = middleware.OrderRateLimit(orders)
		guards.Login = middleware.AuthRateLimit(logins)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	guards.Docs = middleware.SwaggerAccess(middleware.SwaggerPolicy{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, guards.Admin)
	if cfg.Swagger.Enabled {
		log.Info("API documentation enabled",
			zap.String("path", "/swagger/index.html"),
			zap.Bool("require_auth", cfg.Swagger.RequireAuth),
			zap.Strings("allowed_ips", cfg.Swagger.AllowedIPs),
		)
	}

	router.Register(engine, router.Handlers{
		Storefront: handler.NewStorefrontHandler(listingService, orderService),
		System:     handler.NewSystemHandler(cfg.App.Name, Version, db),
		Auth:       handler.NewAuthHandler(authenticator, cfg.App.SiteTitle),
		Category:   handler.NewCategoryHandler(taxonomyService),
		Tag:        handler.NewTagHandler(taxonomyService),
		Article:    handler.NewArticleHandler(articleService),
		Order:      handler.NewOrderHandler(orderService, notificationService),
		Job:        jobHandler,
		Docs:       ginSwagger.WrapHandler(swaggerFiles.Handler),
	}, guards)
	log.Info("Routes registered", zap.Int("count", len(engine.Routes())))

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

// migrateSchema applies the embedded SQL migrations on postgres and
// AutoMigrate on sqlite. Both only run when database.auto_migrate is set.
func migrateSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if !cfg.Database.AutoMigrate {
		log.Info("Schema migration skipped, run cmd/migrate up")
		return nil
	}
	if cfg.Database.Driver == config.DriverSQLite {
		return persistence.AutoMigrate(db.DB)
	}
	m, err := migration.Open(cfg.Database.DSN(), log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
