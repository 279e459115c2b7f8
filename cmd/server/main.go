package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/charmbracelet/log"

	"github.com/hbenmansour/cashops/infra/initializer"
	"github.com/hbenmansour/cashops/pkg/config"
	"github.com/hbenmansour/cashops/webapi"
)

// @title Cash Operations API
// @version 1.0.0
// @description Unified ledger operation timeline and reconciliation API
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	app := webapi.NewApp(cfg, deps.Orchestrator, deps.Operations, deps.Auth, deps.Registry)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "env", cfg.Env, "address", cfg.Server.Addr)
		errCh <- app.Listen(cfg.Server.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	// Stop accepting requests first, then tear down the fetch orchestrator so
	// no late cycle publishes into a dead process.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
		return err
	}
	deps.Orchestrator.Close()

	if sqlDB, err := deps.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Closing database connection failed", "error", err)
		}
	}

	logger.Info("Server stopped")
	return nil
}
