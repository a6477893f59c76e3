// Command api runs the Autocredits CRM HTTP server.
//
// @title        Autocredits CRM API
// @version      1.0
// @description  Dealership backend: user accounts, car inventory and sales-lead tracking.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/vansh-justcharge/Autocredits-backend/internal/api"
	"github.com/vansh-justcharge/Autocredits-backend/internal/infrastructure/db/mongo"
	"github.com/vansh-justcharge/Autocredits-backend/internal/infrastructure/db/redis"
	"github.com/vansh-justcharge/Autocredits-backend/internal/pkg/config"
	"github.com/vansh-justcharge/Autocredits-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	e := api.NewRouter(db, rdb, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}

// ensureIndexes creates the collection indexes the handlers rely on
// (unique email, sparse vin, lead listing filters).
func ensureIndexes(ctx context.Context, db *driver.Database) error {
	if err := mongo.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongo.NewCarRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongo.NewLeadRepository(db).EnsureIndexes(ctx)
}
