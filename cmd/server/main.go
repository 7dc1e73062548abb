// @title         expense-tracker API
// @version       1.0
// @description   REST backend for tracking user expenses with role-based access.
// @BasePath      /api
// @schemes       http
// @host          localhost:3000
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Токен авторизации в формате "Bearer <JWT>".
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/artem13815/expenses/docs"

	// internal imports
	"github.com/artem13815/expenses/api/http"
	"github.com/artem13815/expenses/api/http/handlers"
	"github.com/artem13815/expenses/pkg/auth"
	"github.com/artem13815/expenses/pkg/config"
	"github.com/artem13815/expenses/pkg/expense"
	"github.com/artem13815/expenses/pkg/health"
	"github.com/artem13815/expenses/pkg/logger"
	"github.com/artem13815/expenses/pkg/repository"
	"github.com/artem13815/expenses/pkg/security/jwt"
	"github.com/artem13815/expenses/pkg/security/password"
	"github.com/artem13815/expenses/pkg/user"
)

func main() {
	// bootstrap-логгер до загрузки конфигурации
	bootstrap := logger.NewSlog(logger.SlogConfig{Level: "info", Format: "json"})

	// Load configuration from env/.env
	cfg, err := config.Load()
	if err != nil {
		bootstrap.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.NewSlog(logger.SlogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.DBTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn("close storage", "error", err)
		}
	}()
	log.Info("storage ready", "db_type", cfg.DBType)

	// Wire dependencies (Clean Architecture)
	hasher := password.NewHasher(cfg.BcryptCost)
	tokens := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTValidity)

	authUC := auth.NewAuthService(store.Users, hasher, tokens)
	userUC := user.NewService(store.Users, hasher)
	expenseUC := expense.NewService(store.Expenses, store.Users)
	readiness := health.NewService(store.Checkers...)

	app := http.NewApp(log, http.Handlers{
		Auth:     handlers.NewAuthHandler(authUC),
		Users:    handlers.NewUserHandler(userUC),
		Expenses: handlers.NewExpenseHandler(expenseUC),
		Health:   handlers.NewHealthHandler(readiness, log),
	}, tokens)

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "port", cfg.Port, "env", cfg.AppEnv)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
