package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/turfworks/greenmaster/internal/api"
	"github.com/turfworks/greenmaster/internal/api/handler"
	"github.com/turfworks/greenmaster/internal/core/ports"
	"github.com/turfworks/greenmaster/internal/core/seed"
	"github.com/turfworks/greenmaster/internal/core/service"
	"github.com/turfworks/greenmaster/internal/infrastructure/ai"
	"github.com/turfworks/greenmaster/internal/infrastructure/config"
	localdb "github.com/turfworks/greenmaster/internal/infrastructure/db/local"
	mongodb "github.com/turfworks/greenmaster/internal/infrastructure/db/mongo"
	redisdb "github.com/turfworks/greenmaster/internal/infrastructure/db/redis"
	"github.com/turfworks/greenmaster/internal/infrastructure/queue"
	"github.com/turfworks/greenmaster/pkg/logger"
)

// @title           GreenMaster API
// @version         1.0
// @description     Field operations service for golf course account teams.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store        ports.DocumentStore
		sessionStore ports.SessionStore
		health       = map[string]handler.DependencyCheck{}
	)

	if cfg.RemoteMode() {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()

		store = mongodb.NewStore(db, log)
		sessionStore = redisdb.NewSessionStore(rdb)
		health["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("database", cfg.Mongo.Database).Msg("remote mode")
	} else {
		mirror, err := localdb.NewMirror(cfg.DataDir, log)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("mirror init failed")
		}
		fileSessions, err := localdb.NewSessionStore(cfg.DataDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("session slots init failed")
		}
		store = localdb.NewStore(mirror, log)
		sessionStore = fileSessions
		health["mirror"] = func(context.Context) error {
			_, err := os.Stat(cfg.DataDir)
			return err
		}
		log.Info().Str("dir", cfg.DataDir).Msg("mock mode, file-backed mirror")
	}

	syncer := service.NewSynchronizer(store, seed.For, log)
	if err := syncer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("synchronizer start failed")
	}
	defer syncer.Stop()

	sessions := service.NewSessionManager(syncer, sessionStore, cfg.JWTSecret, 24*time.Hour, log)
	sessions.Start()
	defer sessions.Stop()

	generator := ai.NewClient(ai.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
	}, log)
	assistant := service.NewAIService(syncer, generator, log)

	jobs := queue.NewDispatcher(0, assistant, syncer, log)
	jobs.Start(ctx)

	e := api.NewRouter(api.Deps{
		Sync:         syncer,
		Sessions:     sessions,
		SessionStore: sessionStore,
		Assistant:    assistant,
		Jobs:         jobs,
		JWTSecret:    cfg.JWTSecret,
		Health:       health,
		Log:          log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
