package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/station-directory/internal/cache"
	"github.com/station-directory/internal/config"
	httpDelivery "github.com/station-directory/internal/delivery/http"
	"github.com/station-directory/internal/delivery/http/handler"
	"github.com/station-directory/internal/pkg/logger"
	"github.com/station-directory/internal/repository/postgres"
	redisRepo "github.com/station-directory/internal/repository/redis"
	"github.com/station-directory/internal/store"
	"github.com/station-directory/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Station Directory")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := redisRepo.New(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories and the station store facade
	stationRepo := postgres.NewStationRepository(db)
	changeFeed := redisRepo.NewFeedRepository(redisClient.Client(), cfg.Sync.Stream, log)
	stationStore := store.NewStationStore(
		stationRepo,
		changeFeed,
		cfg.Sync.WriteTimeout,
		cfg.Sync.RefreshInterval,
		log,
	)

	log.Info("Station store initialized")

	// 7. Open the live collection cache (single standing subscription)
	cacheCtx, cacheCancel := context.WithCancel(context.Background())
	defer cacheCancel()

	stationCache, err := cache.New(cacheCtx, stationStore, log)
	if err != nil {
		log.Fatal("Failed to open station cache subscription", zap.Error(err))
	}
	defer stationCache.Close()

	log.Info("Station cache subscription opened")

	// Кеш не ретраит сбой подписки сам: при Errored она переоткрывается
	// отсюда с шагом интервала обновления
	go func() {
		ticker := time.NewTicker(cfg.Sync.RefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-cacheCtx.Done():
				return
			case <-ticker.C:
				if stationCache.State() != cache.StateErrored {
					continue
				}
				log.Warn("Station cache errored, reopening subscription",
					zap.Error(stationCache.Err()))
				if err := stationCache.Reopen(cacheCtx); err != nil {
					log.Error("Failed to reopen station cache subscription", zap.Error(err))
				}
			}
		}
	}()

	// 8. Initialize use cases
	queryUC := usecase.NewStationQueryUseCase(stationCache, log)
	mutationUC := usecase.NewStationMutationUseCase(stationStore, log)
	selectionUC := usecase.NewSelectionUseCase(stationCache)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP handlers
	stationHandler := handler.NewStationHandler(queryUC, mutationUC, stationStore, stationCache, log)
	mapHandler := handler.NewMapHandler(queryUC, selectionUC, log)
	selectionHandler := handler.NewSelectionHandler(selectionUC, log)

	// 10. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		stationCache,
		stationHandler,
		mapHandler,
		selectionHandler,
	)

	log.Info("HTTP server initialized")

	// 11. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	// Закрытие кеша снимает единственную подписку на хранилище
	stationCache.Close()

	log.Info("Server stopped successfully")
}
