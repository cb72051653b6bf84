// Command server runs the DevConnector HTTP API.
//
// @title                       DevConnector API
// @version                     1.0
// @description                 Developer profiles, authentication and GitHub repository lookup.
// @BasePath                    /
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        x-auth-token
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/devconnector/connector-api/internal/api"
	"github.com/devconnector/connector-api/internal/core/service"
	mongodb "github.com/devconnector/connector-api/internal/infrastructure/db/mongo"
	redisdb "github.com/devconnector/connector-api/internal/infrastructure/db/redis"
	"github.com/devconnector/connector-api/internal/infrastructure/github"
	"github.com/devconnector/connector-api/internal/infrastructure/http/handlers"
	"github.com/devconnector/connector-api/internal/pkg/config"
	"github.com/devconnector/connector-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "connector-api",
		Pretty:  !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure mongodb indexes")
	}

	trusted, err := cfg.TrustedProxyRanges()
	if err != nil {
		log.Fatal().Err(err).Msg("trusted proxies")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
		PoolSize: cfg.Redis.PoolSize,
	}, redisdb.WithClientName("connector-api"))
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	users := mongodb.NewUserRepository(db)
	profiles := mongodb.NewProfileRepository(db)
	posts := mongodb.NewPostRepository(db)

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(users, tokens, logger.Component("auth"))
	profileService := service.NewProfileService(profiles, users, posts, logger.Component("profile"))
	repoService := service.NewRepoService(
		github.NewClient(github.Config{
			BaseURL: cfg.Github.BaseURL,
			Token:   cfg.Github.Token,
			Timeout: cfg.Github.Timeout,
		}),
		redisdb.NewResponseCache(rdb),
		cfg.Github.CacheTTL,
		logger.Component("github"),
	)

	e := api.NewRouter(api.Deps{
		Auth:         authService,
		Profiles:     profileService,
		Repos:        repoService,
		Tokens:       tokens,
		LoginLimiter:   redisdb.NewRateLimiter(rdb, cfg.RateLimit.Login, cfg.RateLimit.Window),
		TrustedProxies: trusted,
		Readiness: map[string]handlers.Pinger{
			"mongodb": handlers.MongoPinger{DB: db},
			"redis":   handlers.RedisPinger{Client: rdb},
		},
		Logger: logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
}
