package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/accesskit/identity-service/internal/api/handler"
	"github.com/accesskit/identity-service/internal/api/middleware"
	"github.com/accesskit/identity-service/internal/core/service"
	"github.com/accesskit/identity-service/internal/infrastructure/config"
	"github.com/accesskit/identity-service/internal/infrastructure/db/postgres"
	redisinfra "github.com/accesskit/identity-service/internal/infrastructure/db/redis"
)

// Permission codes guarding the role administration surface.
const (
	permRolesRead  = "roles:read"
	permRolesWrite = "roles:write"
)

// NewRouter builds the Echo instance with all routes registered. The token
// issuer is constructed by the caller so an empty signing secret fails at
// startup, not on the first request.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *goredis.Client, tokens *service.TokenIssuer, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	hasher := service.NewPasswordHasher(0)
	authService := service.NewAuthService(userRepo, hasher, tokens, log)
	roleService := service.NewRoleService(roleRepo, log)

	var throttle handler.LoginThrottle
	if rdb != nil {
		throttle = redisinfra.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
	}

	authHandler := handler.NewAuthHandler(authService, throttle, log)
	roleHandler := handler.NewRoleHandler(roleService)
	requireAuth := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/auth/signin", authHandler.SignIn)
	e.POST("/auth/signup", authHandler.SignUp)
	e.GET("/auth/profile", authHandler.Profile, requireAuth)

	// --- Role administration (bearer token + permission guard) ---
	roles := e.Group("/roles", requireAuth)
	roles.GET("", roleHandler.List, middleware.RequirePermission(authService, permRolesRead))
	roles.GET("/:id", roleHandler.Get, middleware.RequirePermission(authService, permRolesRead))
	roles.POST("", roleHandler.Create, middleware.RequirePermission(authService, permRolesWrite))
	roles.PUT("/:id", roleHandler.Update, middleware.RequirePermission(authService, permRolesWrite))
	roles.DELETE("/:id", roleHandler.Remove, middleware.RequirePermission(authService, permRolesWrite))

	// --- Observability and health probes (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(pool, rdb).Readiness)

	return e
}
