package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/sarraf/internal/adapter/http"
	"github.com/iho/sarraf/internal/adapter/http/handler"
	postgresRepo "github.com/iho/sarraf/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/sarraf/internal/adapter/repository/redis"
	"github.com/iho/sarraf/internal/infrastructure/auth"
	"github.com/iho/sarraf/internal/infrastructure/config"
	"github.com/iho/sarraf/internal/infrastructure/logger"
	"github.com/iho/sarraf/internal/infrastructure/metrics"
	"github.com/iho/sarraf/internal/infrastructure/postgres"
	"github.com/iho/sarraf/internal/infrastructure/redis"
	"github.com/iho/sarraf/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "sarraf"})
	log.Logger = appLogger

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
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

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	accountDir := postgresRepo.NewAccountDirectory(pool)
	subAccountDir := postgresRepo.NewSubAccountDirectory(pool)
	codeRepo := postgresRepo.NewCodeRepository(pool)
	hawalaRepo := postgresRepo.NewHawalaRepository(pool)
	exchangeRepo := postgresRepo.NewExchangeRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient, m)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	mutationUC := usecase.NewMutationUseCase(
		txManager, ledgerRepo, movementRepo, accountDir, subAccountDir,
		outboxRepo, auditRepo, idGen, cache, m,
	)
	exchangeUC := usecase.NewExchangeUseCase(
		txManager, mutationUC, exchangeRepo, accountDir, subAccountDir,
		outboxRepo, auditRepo, idGen, m,
	)
	hawalaUC := usecase.NewHawalaUseCase(
		txManager, mutationUC, hawalaRepo, outboxRepo, auditRepo, idGen, m,
	)
	subAccountUC := usecase.NewSubAccountUseCase(
		txManager, mutationUC, subAccountDir, outboxRepo, auditRepo, idGen, m,
	)
	activationUC := usecase.NewActivationUseCase(
		txManager, codeRepo, accountDir, outboxRepo, auditRepo, idGen, m,
	)
	reconciliationUC := usecase.NewReconciliationUseCase(ledgerRepo, movementRepo)

	// Actor resolution is optional; without a secret the service relies on
	// trusted gateway headers.
	var actorResolver *auth.TokenResolver
	if cfg.ActorTokenSecret != "" {
		actorResolver = auth.NewTokenResolver(cfg.ActorTokenSecret, cfg.ActorTokenDuration)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:         handler.NewLedgerHandler(mutationUC),
		ExchangeHandler:       handler.NewExchangeHandler(exchangeUC),
		HawalaHandler:         handler.NewHawalaHandler(hawalaUC),
		SubAccountHandler:     handler.NewSubAccountHandler(subAccountUC),
		ActivationHandler:     handler.NewActivationHandler(activationUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		ActorResolver:         actorResolver,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		Logger:                appLogger,
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
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
