package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ejcents/schoolfix-minicapstone/internal/api/http"
	"github.com/ejcents/schoolfix-minicapstone/internal/api/http/handlers"
	"github.com/ejcents/schoolfix-minicapstone/internal/auth"
	"github.com/ejcents/schoolfix-minicapstone/internal/config"
	"github.com/ejcents/schoolfix-minicapstone/internal/events"
	"github.com/ejcents/schoolfix-minicapstone/internal/observability"
	"github.com/ejcents/schoolfix-minicapstone/internal/service"
	"github.com/ejcents/schoolfix-minicapstone/internal/store"
	"github.com/ejcents/schoolfix-minicapstone/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	dispatcher := events.NewInMemoryDispatcher()

	var hasher auth.CredentialHasher = auth.BcryptHasher{Cost: cfg.Auth.BcryptCost}
	if cfg.Auth.PlaintextPasswords {
		logger.Warn("plaintext credential storage enabled; do not use outside development")
		hasher = auth.PlaintextHasher{}
	}

	directory, err := service.NewDirectory(ctx, cfg.Seed, service.DirectoryDependencies{
		Store:      st,
		Hasher:     hasher,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init directory", zap.Error(err))
	}

	ledger, err := service.NewLedger(ctx, service.LedgerDependencies{
		Store:      st,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init ledger", zap.Error(err))
	}

	view := service.NewView(ledger, directory)

	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notifications)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewMiddleware(tokens, directory)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, st),
		Auth:           handlers.NewAuthHandler(directory, tokens),
		Issues:         handlers.NewIssuesHandler(ledger, view),
		Admin:          handlers.NewAdminHandler(directory, view),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
