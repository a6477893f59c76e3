package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/vansh-justcharge/Autocredits-backend/docs"
	"github.com/vansh-justcharge/Autocredits-backend/internal/api/handler"
	"github.com/vansh-justcharge/Autocredits-backend/internal/api/middleware"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/domain"
	"github.com/vansh-justcharge/Autocredits-backend/internal/core/service"
	mongodb "github.com/vansh-justcharge/Autocredits-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/vansh-justcharge/Autocredits-backend/internal/infrastructure/db/redis"
	"github.com/vansh-justcharge/Autocredits-backend/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.IsDevelopment())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE},
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	carRepo := mongodb.NewCarRepository(db)
	leadRepo := mongodb.NewLeadRepository(db)
	carCache := redisdb.NewCarListingCache(rdb)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	leadService := service.NewLeadService(leadRepo, userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	carHandler := handler.NewCarHandler(carRepo, userRepo, carCache, log)
	leadHandler := handler.NewLeadHandler(leadService)

	requireAuth := middleware.Auth(authService)
	adminOnly := middleware.RestrictTo(domain.RoleAdmin)
	paginated := middleware.Pagination()

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/verify-email/:token", authHandler.VerifyEmail)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password/:token", authHandler.ResetPassword)

	me := e.Group("/auth", requireAuth)
	me.GET("/me", authHandler.GetMe)
	me.PATCH("/update-me", authHandler.UpdateMe)
	me.POST("/change-password", authHandler.ChangePassword)

	// --- Car routes (reads public, writes admin-only) ---
	cars := e.Group("/cars")
	cars.GET("", carHandler.List, paginated)
	cars.GET("/:id", carHandler.Get)
	cars.POST("", carHandler.Create, requireAuth, adminOnly)
	cars.PATCH("/:id", carHandler.Update, requireAuth, adminOnly)
	cars.DELETE("/:id", carHandler.Delete, requireAuth, adminOnly)

	// --- Lead routes (reads public, writes admin-only) ---
	leads := e.Group("/leads")
	leads.GET("", leadHandler.List, paginated)
	leads.GET("/export", leadHandler.Export)
	leads.GET("/:id", leadHandler.Get)
	leads.POST("", leadHandler.Create, requireAuth, adminOnly)
	leads.PATCH("/:id", leadHandler.Update, requireAuth, adminOnly)
	leads.DELETE("/:id", leadHandler.Delete, requireAuth, adminOnly)
	leads.POST("/:id/notes", leadHandler.AddNote, requireAuth, adminOnly)
	leads.PATCH("/:id/status", leadHandler.UpdateStatus, requireAuth, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"mongo": handler.PingerFunc(func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		}),
		"redis": handler.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
	})
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
