package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/uploadgate/upload-gateway/docs"
	"github.com/uploadgate/upload-gateway/internal/api/handler"
	"github.com/uploadgate/upload-gateway/internal/api/middleware"
	"github.com/uploadgate/upload-gateway/internal/core/ports"
	"github.com/uploadgate/upload-gateway/internal/infrastructure/http/handlers"
)

// Deps is everything NewRouter wires into the HTTP layer.
type Deps struct {
	Log zerolog.Logger

	Auth    ports.AuthService
	Users   ports.UserService
	Uploads ports.UploadService
	Tokens  ports.TokenService

	MaxUploadBytes int64
	AllowedOrigins []string
	StaticDir      string

	UsersRequireAdmin bool
	AdminUsernames    []string

	// Readiness lists what GET /health/ready pings.
	Readiness []handlers.Dependency

	// Registry receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	uploadHandler := handler.NewUploadHandler(d.Uploads, d.MaxUploadBytes)
	requireToken := middleware.Auth(d.Tokens)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/verify-token", userHandler.VerifyToken, requireToken)
	e.GET("/profile", userHandler.Profile, requireToken)

	// The size guard runs before the token check.
	e.POST("/upload", uploadHandler.Upload, middleware.UploadLimit(d.MaxUploadBytes), requireToken)

	if d.UsersRequireAdmin {
		e.GET("/users", userHandler.List, requireToken, middleware.RequireAdmin(d.AdminUsernames...))
	} else {
		d.Log.Warn().Msg("GET /users is public and returns password hashes; set USERS_REQUIRE_ADMIN=true to restrict it")
		e.GET("/users", userHandler.List)
	}

	// --- Health probes (no auth required) ---
	readiness := handlers.NewReadinessHandler(d.Readiness...)
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", readiness.Readiness)
	d.Log.Debug().Strs("dependencies", readiness.Names()).Msg("readiness probe configured")

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if d.StaticDir != "" {
		e.Static("/", d.StaticDir)
	}

	return e
}
