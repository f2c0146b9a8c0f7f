package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/subtrack-dev/subtrack/internal/api/handlers"
	"github.com/subtrack-dev/subtrack/internal/api/router"
	"github.com/subtrack-dev/subtrack/internal/config"
	"github.com/subtrack-dev/subtrack/internal/domain/label"
	"github.com/subtrack-dev/subtrack/internal/domain/subscription"
	"github.com/subtrack-dev/subtrack/internal/pkg/logger"
	"github.com/subtrack-dev/subtrack/internal/pkg/validator"
	"github.com/subtrack-dev/subtrack/internal/repository/postgres"
	"github.com/subtrack-dev/subtrack/internal/services"
	"github.com/subtrack-dev/subtrack/internal/worker"
	"github.com/subtrack-dev/subtrack/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	labelRepo := postgres.NewLabelRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	// Services
	limits := label.Limits{
		MaxDepth:   cfg.Limits.MaxHierarchyDepth,
		MaxNameLen: cfg.Limits.MaxLabelNameLen,
	}
	labelService := services.NewLabelService(labelRepo, limits, log)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, labelRepo, subscription.DefaultRules(), log)
	userService := services.NewUserService(userRepo, labelService, cfg.Auth.BCryptCost, log)

	// Handlers
	val := validator.New()
	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(db, log),
		Auth:         handlers.NewAuthHandler(userService, cfg, log, val),
		Label:        handlers.NewLabelHandler(labelService, log, val),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService, log, val),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Billing.RolloverEnabled {
		roller := worker.NewBillingRoller(subscriptionRepo, cfg.Billing.RolloverSchedule, log)
		if err := roller.Start(ctx); err != nil {
			log.Fatalf("Failed to start billing roller: %v", err)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr": srv.Addr,
		}).Info("Starting HTTP server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
}
