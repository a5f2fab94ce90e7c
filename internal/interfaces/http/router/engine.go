package router

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/moviecatalog/backend/docs"

	"github.com/moviecatalog/backend/internal/infrastructure/config"
	"github.com/moviecatalog/backend/internal/infrastructure/logger"
	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
	"github.com/moviecatalog/backend/internal/interfaces/http/handler"
	"github.com/moviecatalog/backend/internal/interfaces/http/middleware"
)

// Handlers groups the HTTP handlers served by the engine
type Handlers struct {
	Auth      *handler.AuthHandler
	Favorite  *handler.FavoriteHandler
	Watchlist *handler.WatchlistHandler
	Review    *handler.ReviewHandler
	Movie     *handler.MovieHandler
	Health    *handler.HealthHandler
	Page      *handler.PageHandler
}

// EngineConfig carries everything the middleware chain needs
type EngineConfig struct {
	HTTP       config.HTTPConfig
	Production bool
	LoginPath  string
	Session    middleware.SessionConfig
	Tracing    middleware.TracingConfig
	Metrics    *telemetry.HTTPMetrics // nil disables request metrics
	Swagger    config.SwaggerConfig
	Profiling  bool // attach Pyroscope labels to API requests
	Logger     *zap.Logger
}

// NewEngine builds the gin engine with the global middleware chain and
// every route registered. ctx bounds the rate limiter cleanup goroutines.
func NewEngine(ctx context.Context, cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Session.Logger == nil {
		cfg.Session.Logger = log
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request id must exist before the logger and the
	// span enricher read it.
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig(cfg.Production)))
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(ctx, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	engine.Use(middleware.HTTPMetrics(cfg.Metrics))
	if cfg.Profiling {
		engine.Use(middleware.Profiling())
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	session := middleware.SessionAuth(cfg.Session)

	authRoutes := NewDomainGroup("auth", "/auth")
	credentials := authRoutes.Group("credentials", "")
	if cfg.HTTP.AuthRateLimitEnabled {
		credentials.Use(middleware.RateLimit(
			middleware.NewRateLimiter(ctx, cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow),
		))
	}
	credentials.POST("/register", h.Auth.Register)
	credentials.POST("/login", h.Auth.Login)
	authRoutes.Group("session", "").Use(session).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me)

	favoriteRoutes := NewDomainGroup("favorite", "/favorite").Use(session).
		POST("", h.Favorite.Add).
		GET("", h.Favorite.List).
		DELETE("", h.Favorite.Delete)

	watchlistRoutes := NewDomainGroup("watchlist", "/watchlist").Use(session).
		POST("", h.Watchlist.Add).
		GET("", h.Watchlist.List).
		DELETE("", h.Watchlist.Remove)

	reviewRoutes := NewDomainGroup("review", "/review").Use(session).
		POST("", h.Review.Add).
		GET("", h.Review.List).
		DELETE("", h.Review.Delete)

	movieRoutes := NewDomainGroup("movies", "/movies").
		GET("", h.Movie.List).
		GET("/search", h.Movie.Search).
		GET("/:id", h.Movie.Detail)

	NewRouter(engine, WithLogger(log)).
		Register(authRoutes).
		Register(favoriteRoutes).
		Register(watchlistRoutes).
		Register(reviewRoutes).
		Register(movieRoutes).
		Setup()

	// Pages that need a session. Everything else falls through to the bundle.
	guard := middleware.PageGuard(cfg.Session, loginPath)
	for _, path := range []string{"/profile", "/profile/*path", "/movie", "/movie/*path"} {
		engine.GET(path, guard, h.Page.Shell)
	}
	engine.NoRoute(h.Page.Static)

	return engine
}
