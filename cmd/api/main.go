package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/authgate/resource-api/internal/api"
	"github.com/authgate/resource-api/internal/api/handler"
	"github.com/authgate/resource-api/internal/core/access"
	"github.com/authgate/resource-api/internal/core/service"
	mongostore "github.com/authgate/resource-api/internal/infrastructure/db/mongo"
	redisstore "github.com/authgate/resource-api/internal/infrastructure/db/redis"
	"github.com/authgate/resource-api/internal/infrastructure/queue"
	"github.com/authgate/resource-api/internal/pkg/config"
	"github.com/authgate/resource-api/pkg/logger"
)

// @title                       Resource API
// @version                     1.0
// @description                 Authenticated, role-scoped CRUD over generic resource models.
// @BasePath                    /
// @securityDefinitions.basic   BasicAuth
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "resource-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	users := mongostore.NewAuthRepository(db)
	records := mongostore.NewRecordRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, records); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	policy, err := access.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load access policy")
	}

	// Audit workers keep running until the HTTP server has shut down.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongostore.NewAuditRepository(db), logger.Component("audit"))
	dispatcher.Start(auditCtx)

	tokens := service.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(users, tokens, logger.Component("auth"),
		service.WithAttemptLimiter(redisstore.NewAttemptLimiter(rdb, cfg.SignIn.MaxAttempts, cfg.SignIn.Window)),
		service.WithAuditSink(dispatcher),
		service.WithBcryptCost(cfg.BcryptCost),
	)

	seeded, err := authService.SeedFromFile(ctx, cfg.SeedUsersFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed users")
	}
	if seeded > 0 {
		log.Info().Int("count", seeded).Msg("seeded users")
	}

	e, err := api.NewRouter(api.Dependencies{
		Auth:    authService,
		Tokens:  tokens,
		Records: service.NewRecordService(records, cfg.ResourceModels, logger.Component("records")),
		Policy:  policy,
		Audit:   dispatcher,
		Checks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger:     log,
		Registerer: prometheus.DefaultRegisterer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Strs("models", cfg.ResourceModels).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	stopAudit()
	dispatcher.Wait()
}
