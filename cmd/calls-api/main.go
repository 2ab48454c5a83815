package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/callcoach/platform/docs"
	"github.com/callcoach/platform/internal/api"
	"github.com/callcoach/platform/internal/api/handler"
	"github.com/callcoach/platform/internal/core/service"
	"github.com/callcoach/platform/internal/infrastructure/config"
	mongodb "github.com/callcoach/platform/internal/infrastructure/db/mongo"
	redisdb "github.com/callcoach/platform/internal/infrastructure/db/redis"
	"github.com/callcoach/platform/internal/infrastructure/queue"
	"github.com/callcoach/platform/internal/infrastructure/scoring"
	"github.com/callcoach/platform/internal/infrastructure/transcript"
	"github.com/callcoach/platform/pkg/logger"
)

const (
	serviceName  = "calls-api"
	drainTimeout = 5 * time.Minute
)

// @title                       CallCoach Calls API
// @version                     1.0
// @description                 Call log, transcript scoring and operator statistics.
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

	tokens, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.TTL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token service")
	}

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	callRepo := mongodb.NewCallRepository(db)
	analysisRepo := mongodb.NewAnalysisRepository(db)
	if err := mongodb.EnsureIndexes(ctx, callRepo, analysisRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	transcripts, err := transcript.NewFileStore(cfg.Calls.TranscriptsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open transcript store")
	}

	// --- Scoring pipeline ---
	model := scoring.NewModel(scoring.Config{
		Endpoint:     cfg.Scoring.Endpoint,
		Model:        cfg.Scoring.Model,
		MaxNewTokens: cfg.Scoring.MaxNewTokens,
		Timeout:      cfg.Scoring.Timeout,
	}, logger.Component("scoring"))
	scorer := scoring.NewInferenceClient(model)
	lock := redisdb.NewAnalysisLock(rdb, cfg.Calls.AnalysisLockTTL)

	calls := service.NewCallService(callRepo, analysisRepo, transcripts, logger.Component("calls"))
	analyses := service.NewAnalysisService(callRepo, analysisRepo, transcripts, scorer, lock, logger.Component("analysis"))

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Calls.AnalysisWorkers, analyses, logger.Component("dispatcher"))
	analyses.SetQueue(dispatcher)
	dispatcher.Start(workerCtx)

	e := api.NewCallsRouter(api.ServerOptions{
		Service:              serviceName,
		AllowedOrigins:       cfg.AllowedOrigins,
		ExposeInternalErrors: cfg.ExposeInternalErrors,
		Log:                  logger.Component("http"),
		Authorizer:           service.NewAuthorizer(tokens, nil),
		Dependencies:         []handler.Pinger{mongodb.NewPinger(mongoClient), redisdb.NewPinger(rdb)},
	}, calls, analyses)

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Int("analysis_workers", cfg.Calls.AnalysisWorkers).
			Str("scoring_endpoint", cfg.Scoring.Endpoint).
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

	// Drain the buffered jobs so no call is left QUEUED; scoring keeps its own
	// context until the drain deadline passes.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
	defer cancelDrain()
	if err := dispatcher.Shutdown(drainCtx); err != nil {
		log.Error().Err(err).Msg("analysis queue not drained, aborting workers")
	}
	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("server exited")
}
