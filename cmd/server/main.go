package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/budgetsync/internal/auth"
	"github.com/mmynk/budgetsync/internal/config"
	"github.com/mmynk/budgetsync/internal/httpapi"
	"github.com/mmynk/budgetsync/internal/notify"
	"github.com/mmynk/budgetsync/internal/service"
	"github.com/mmynk/budgetsync/internal/storage/sqlite"
	"github.com/mmynk/budgetsync/pkg/logging"
)

func main() {
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.AMQPURL != "" {
		client, err := notify.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		notifier = client
		slog.Info("AMQP notifier connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		slog.Warn("AMQP_URL not set, invite notifications disabled")
	}
	defer notifier.Close()

	logger := slog.Default()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, auth.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	server := httpapi.NewServer(
		service.NewAuthService(authenticator, jwtManager, store, logger),
		service.NewBudgetService(store, logger),
		service.NewExpenseService(store, logger),
		service.NewInviteService(store, notifier, logger),
		jwtManager,
		logger,
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
