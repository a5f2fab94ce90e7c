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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcatalog "github.com/moviecatalog/backend/internal/application/catalog"
	appcollection "github.com/moviecatalog/backend/internal/application/collection"
	appidentity "github.com/moviecatalog/backend/internal/application/identity"
	"github.com/moviecatalog/backend/internal/infrastructure/auth"
	"github.com/moviecatalog/backend/internal/infrastructure/cache"
	"github.com/moviecatalog/backend/internal/infrastructure/config"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/infrastructure/migration"
	"github.com/moviecatalog/backend/internal/infrastructure/persistence"
	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
	"github.com/moviecatalog/backend/internal/infrastructure/tmdb"
	"github.com/moviecatalog/backend/internal/interfaces/http/handler"
	"github.com/moviecatalog/backend/internal/interfaces/http/middleware"
	"github.com/moviecatalog/backend/internal/interfaces/http/router"
)

//	@title			Movie Catalog API
//	@version		1.0
//	@description	Movie catalog backend: accounts, favorites, watchlists, reviews and a proxied movie database.

//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session JWT. Browsers send it in the session cookie instead.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Rotation: logger.RotationConfig{
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	}

	// Bootstrap logger, used until the log exporter is up
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	telemetryCfg := telemetry.ConfigFrom(cfg.Telemetry)
	tp, err := telemetry.NewTracerProvider(ctx, telemetryCfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	metricsCfg := telemetryCfg
	metricsCfg.Enabled = telemetryCfg.Enabled && cfg.Telemetry.MetricsEnabled
	mp, err := telemetry.NewMeterProvider(ctx, metricsCfg, 0, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	logsCfg := telemetryCfg
	logsCfg.Enabled = telemetryCfg.Enabled && cfg.Telemetry.LogsEnabled
	lp, err := telemetry.NewLoggerProvider(ctx, logsCfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	log, err := logger.New(logCfg, logger.WithCore(lp.ZapCore(logger.ParseLevel(cfg.Log.Level))))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Span profiles need the profiler running first
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		_ = profiler.Stop()
	}()
	if cfg.Telemetry.SpanProfilesEnabled && profiler.IsEnabled() {
		tp.EnableSpanProfiles()
	}

	log.Info("Starting movie catalog backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with GORM logs routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithBoundValues(cfg.Telemetry.DBLogFullSQL))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	if cfg.Database.AutoMigrate {
		if err := runMigrations(db, cfg.Database, log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        db.Driver,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, mp, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Redis is optional: the blacklist and the catalog cache fall back to memory
	var redisClient redis.UniversalClient
	var redisPing handler.PingFunc
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(cfg.Redis)
		defer func() { _ = client.Close() }()
		redisClient = client
		redisPing = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	blacklist := auth.NewTokenBlacklist(ctx, redisClient, log)
	catalogStore := cache.NewStore(ctx, redisClient, "catalog:", log)

	// Metrics instruments; no-op meters when export is disabled
	httpMetrics, err := telemetry.NewHTTPMetrics(mp.Meter("http.server"))
	if err != nil {
		log.Warn("Failed to create HTTP metrics", zap.Error(err))
	}
	catalogMetrics, err := telemetry.NewCatalogMetrics(mp.Meter("catalog.client"))
	if err != nil {
		log.Warn("Failed to create catalog metrics", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	favoriteRepo := persistence.NewGormFavoriteRepository(db.DB)
	watchlistRepo := persistence.NewGormWatchlistRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)

	// External catalog, cached
	catalogClient := tmdb.NewCachedClient(
		tmdb.NewClient(cfg.TMDB, log, tmdb.WithMetrics(catalogMetrics)),
		catalogStore, cfg.TMDB.CacheTTL, log, catalogMetrics,
	)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := appidentity.NewAuthService(userRepo, jwtService, blacklist, log)
	favoriteService := appcollection.NewFavoriteService(favoriteRepo)
	watchlistService := appcollection.NewWatchlistService(watchlistRepo)
	reviewService := appcollection.NewReviewService(reviewRepo, watchlistRepo)
	movieService := appcatalog.NewMovieService(catalogClient)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(ctx, router.EngineConfig{
		HTTP:       cfg.HTTP,
		Production: cfg.App.IsProduction(),
		LoginPath:  cfg.Web.LoginPath,
		Session: middleware.SessionConfig{
			JWTService: jwtService,
			Blacklist:  blacklist,
			CookieName: cfg.Cookie.Name,
			Logger:     log,
		},
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tp.IsEnabled(),
		},
		Metrics:   httpMetrics,
		Swagger:   cfg.Swagger,
		Profiling: profiler.IsEnabled(),
		Logger:    log,
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.Cookie),
		Favorite:  handler.NewFavoriteHandler(favoriteService, cfg.TMDB.ImageBaseURL),
		Watchlist: handler.NewWatchlistHandler(watchlistService, cfg.TMDB.ImageBaseURL),
		Review:    handler.NewReviewHandler(reviewService),
		Movie:     handler.NewMovieHandler(movieService),
		Health:    handler.NewHealthHandler(db.Ping, redisPing),
		Page:      handler.NewPageHandler(cfg.Web.StaticDir),
	})

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stop()

	// Flush telemetry after the last request finished
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := lp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies pending schema migrations on the open connection.
// The migrator is not closed since that would close the shared pool.
func runMigrations(db *persistence.Database, cfg config.DatabaseConfig, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	migrator, err := migration.New(sqlDB, cfg.Driver, cfg.MigrationsPath, log)
	if err != nil {
		return err
	}
	return migrator.Up()
}
