package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/happythoughts/thoughts-api/internal/api/handler"
	"github.com/happythoughts/thoughts-api/internal/api/middleware"
	"github.com/happythoughts/thoughts-api/internal/core/service"
	mongodb "github.com/happythoughts/thoughts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/happythoughts/thoughts-api/internal/infrastructure/db/redis"
	healthhandlers "github.com/happythoughts/thoughts-api/internal/infrastructure/http/handlers"
	"github.com/happythoughts/thoughts-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, log zerolog.Logger, db *mongo.Database, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("happythoughts"))
	e.Use(middleware.RateLimit(redisdb.NewLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window), log))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	thoughtRepo := mongodb.NewThoughtRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	thoughtService := service.NewThoughtService(thoughtRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	thoughtHandler := handler.NewThoughtHandler(thoughtService)
	userHandler := handler.NewUserHandler(thoughtService)
	indexHandler := handler.NewIndexHandler()

	requireAuth := middleware.Auth(cfg.JWTSecret, userRepo)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret, userRepo)

	// --- Meta ---
	e.GET("/", indexHandler.Routes)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, requireAuth)

	// --- Thought routes ---
	e.GET("/thoughts", thoughtHandler.List)
	e.GET("/thoughts/:id", thoughtHandler.Get)
	e.POST("/thoughts", thoughtHandler.Create, optionalAuth)
	e.PUT("/thoughts/:id", thoughtHandler.Update, requireAuth)
	e.DELETE("/thoughts/:id", thoughtHandler.Delete, requireAuth)
	e.POST("/thoughts/:id/like", thoughtHandler.ToggleLike, requireAuth)

	// --- User routes ---
	e.GET("/users/me/thoughts", userHandler.MyThoughts, requireAuth)
	e.GET("/users/me/likes", userHandler.MyLikes, requireAuth)

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
