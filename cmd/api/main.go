package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/delordemm1/go-identity-service/internal/cache"
	"github.com/delordemm1/go-identity-service/internal/config"
	"github.com/delordemm1/go-identity-service/internal/database"
	"github.com/delordemm1/go-identity-service/internal/modules/identity"
	"github.com/delordemm1/go-identity-service/internal/notification"
	"github.com/delordemm1/go-identity-service/internal/server"
	"github.com/delordemm1/go-identity-service/internal/session"
)

// Options for the CLI.
type Options struct {
	Port int `help:"Port to listen on" short:"p" default:"8080"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		// Use a structured logger
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		cfg := config.Load()
		if cfg == nil {
			logger.Error("failed to load configuration")
			os.Exit(1)
		}
		logger.Info("configuration loaded successfully", "env", cfg.Server.Env)

		// --- Database & Cache ---
		dbPool := database.NewPostgresPool(cfg.Database.URL)
		if dbPool == nil {
			logger.Error("failed to connect to postgres")
			os.Exit(1)
		}
		hooks.OnStop(dbPool.Close)
		logger.Info("successfully connected to postgres database")

		redisClient := cache.NewRedisClient(cfg.Redis.URL)
		if redisClient == nil {
			logger.Error("failed to connect to redis")
			os.Exit(1)
		}
		hooks.OnStop(func() { redisClient.Close() })
		logger.Info("successfully connected to redis")

		// --- Module Initialization (Bottom-Up) ---

		sessions := session.NewRedisProvider(redisClient, session.Config{})

		emailSender := notification.NewSMTPEmailSender(
			cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger)
		smsSender := notification.NewDummySMSSender(logger)
		notifier := notification.NewService(logger, emailSender, smsSender)

		identityRepo := identity.NewRepository(dbPool)
		hasher := identity.NewBcryptHasher(cfg.Auth.BcryptCost)
		tokens := identity.NewJWTIssuer(
			cfg.Auth.JWTSecret,
			time.Duration(cfg.Auth.AccessTTLHours)*time.Hour,
			time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
		)
		identityService := identity.NewService(&identity.Config{
			Repo:         identityRepo,
			Hasher:       hasher,
			Tokens:       tokens,
			Sessions:     sessions,
			Notifier:     notifier,
			Logger:       logger,
			SupportEmail: cfg.SMTP.From,
		})

		router := server.New(cfg, logger, identityService, tokens)
		hooks.OnStart(func() {
			logger.Info(fmt.Sprintf("Starting server on port %d...", options.Port))
			if err := http.ListenAndServe(fmt.Sprintf(":%d", options.Port), router); err != nil {
				slog.Error("Server failed to start", "error", err)
				os.Exit(1)
			}
		})
	})
	cli.Run()
}
