package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/uploadgate/upload-gateway/internal/api"
	"github.com/uploadgate/upload-gateway/internal/bootstrap"
	"github.com/uploadgate/upload-gateway/internal/core/service"
	"github.com/uploadgate/upload-gateway/internal/infrastructure/http/handlers"
	"github.com/uploadgate/upload-gateway/internal/pkg/config"
	"github.com/uploadgate/upload-gateway/pkg/logger"
)

// @title                       Upload Gateway API
// @version                     1.0
// @description                 Register, log in and upload files behind bearer-token authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "upload-gateway",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Outlives ctx so the store keeps accepting writes while requests drain.
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	users, closeUsers, err := bootstrap.OpenUserRepository(appCtx, cfg, logger.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("open user store")
	}
	defer func() {
		if err := closeUsers(); err != nil {
			log.Error().Err(err).Msg("close user store")
		}
	}()

	files, err := bootstrap.OpenFileStorage(appCtx, cfg, logger.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("open upload storage")
	}

	// --- Services ---
	tokens := service.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	authService := service.NewAuthService(users, hasher, tokens, logger.Component("auth"))
	userService := service.NewUserService(users, logger.Component("users"))
	uploadService := service.NewUploadService(files, cfg.Uploads.MaxBytes, logger.Component("uploads"))

	e := api.NewRouter(api.Deps{
		Log:               logger.Component("http"),
		Auth:              authService,
		Users:             userService,
		Uploads:           uploadService,
		Tokens:            tokens,
		MaxUploadBytes:    uploadService.MaxBytes(),
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
		StaticDir:         cfg.HTTP.StaticDir,
		UsersRequireAdmin: cfg.Auth.UsersRequireAdmin,
		AdminUsernames:    cfg.Auth.AdminUsernames,
		Readiness: []handlers.Dependency{
			{Name: "user_store", Pinger: users},
			{Name: "upload_storage", Pinger: files},
		},
	})
	e.Server.ReadHeaderTimeout = 10 * time.Second

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
