package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/callcoach/platform/docs"
	"github.com/callcoach/platform/internal/api"
	"github.com/callcoach/platform/internal/api/handler"
	"github.com/callcoach/platform/internal/core/ports"
	"github.com/callcoach/platform/internal/core/service"
	"github.com/callcoach/platform/internal/infrastructure/config"
	mongodb "github.com/callcoach/platform/internal/infrastructure/db/mongo"
	mysqldb "github.com/callcoach/platform/internal/infrastructure/db/mysql"
	"github.com/callcoach/platform/pkg/logger"
)

const serviceName = "users-api"

// @title                       CallCoach Users API
// @version                     1.0
// @description                 Registration, login and account management.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hasher, err := service.NewPasswordHasher(cfg.Credentials.PasswordScheme)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build password hasher")
	}
	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.TTL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token service")
	}

	repo, deps, closeStore := openCredentialStore(ctx, cfg, log)
	defer closeStore()

	accounts := service.NewAccountService(repo, hasher, tokens, logger.Component("accounts"))

	e := api.NewUsersRouter(api.ServerOptions{
		Service:              serviceName,
		AllowedOrigins:       cfg.AllowedOrigins,
		ExposeInternalErrors: cfg.ExposeInternalErrors,
		Log:                  logger.Component("http"),
		Authorizer:           service.NewAuthorizer(tokens, nil),
		Dependencies:         deps,
	}, accounts, accounts)

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.Credentials.Store).
			Str("password_scheme", cfg.Credentials.PasswordScheme).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// openCredentialStore connects the configured backend and prepares its schema.
// The returned func releases the connection.
func openCredentialStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.AccountRepository, []handler.Pinger, func()) {
	switch cfg.Credentials.Store {
	case config.StoreMySQL:
		db, err := mysqldb.Connect(ctx, mysqldb.Config{DSN: cfg.MySQL.DSN})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mysql")
		}
		if cfg.MySQL.Migrate {
			if err := mysqldb.Migrate(db, cfg.MySQL.MigrationsDir, log); err != nil {
				log.Fatal().Err(err).Msg("failed to run migrations")
			}
		}
		return mysqldb.NewAccountRepository(db), []handler.Pinger{mysqldb.NewPinger(db)}, func() { _ = db.Close() }

	default:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongo")
		}
		repo := mongodb.NewAccountRepository(db)
		if err := mongodb.EnsureIndexes(ctx, repo); err != nil {
			log.Fatal().Err(err).Msg("failed to create indexes")
		}
		if err := repo.SeedRoles(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to seed roles")
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return repo, []handler.Pinger{mongodb.NewPinger(client)}, closeFn
	}
}
