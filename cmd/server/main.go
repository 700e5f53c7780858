package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	adaptershttp "github.com/tiagobluiz/splitbill/internal/adapter/http"
	"github.com/tiagobluiz/splitbill/internal/adapter/http/handler"
	"github.com/tiagobluiz/splitbill/internal/adapter/http/middleware"
	postgresrepo "github.com/tiagobluiz/splitbill/internal/adapter/repository/postgres"
	redisrepo "github.com/tiagobluiz/splitbill/internal/adapter/repository/redis"
	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/infrastructure/config"
	"github.com/tiagobluiz/splitbill/internal/infrastructure/logger"
	"github.com/tiagobluiz/splitbill/internal/infrastructure/postgres"
	"github.com/tiagobluiz/splitbill/internal/infrastructure/redis"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresrepo.NewTxManager(pool)
	eventRepo := postgresrepo.NewEventRepository(pool)
	personRepo := postgresrepo.NewPersonRepository(pool)
	entryRepo := postgresrepo.NewEntryRepository(pool)
	snapshotRepo := postgresrepo.NewSnapshotRepository(pool)
	inviteRepo := postgresrepo.NewInviteRepository(pool)
	cache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)
	idGen := postgresrepo.NewUUIDGenerator()
	tokenGen := postgresrepo.NewULIDTokenGenerator()
	retrier := postgresrepo.NewRetrier(log)
	clock := usecase.SystemClock{}
	calculator := domain.NewSplitCalculator()

	// Use cases
	eventUC := usecase.NewEventUseCase(eventRepo, personRepo, inviteRepo, idGen, tokenGen, clock)
	entryUC := usecase.NewEntryUseCase(txManager, eventRepo, personRepo, entryRepo, snapshotRepo, calculator, retrier, cache, idGen, clock, log)
	balanceUC := usecase.NewBalanceUseCase(eventRepo, personRepo, snapshotRepo, cache, log)
	splitUC := usecase.NewSplitUseCase(calculator, log)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		EventHandler:     handler.NewEventHandler(eventUC),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		BalanceHandler:   handler.NewBalanceHandler(balanceUC),
		SplitHandler:     handler.NewSplitHandler(splitUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		Logger:           log,
		RateLimiter:      rateLimiter,
		IdempotencyStore: idempotencyStore,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
