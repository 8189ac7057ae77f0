// Package main is the entry point for the fxledger API server.
// All state is in-memory and scoped to the process lifetime.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxledger/internal/core/id"
	"fxledger/internal/domain/account"
	"fxledger/internal/domain/currency"
	"fxledger/internal/domain/transfer"
	"fxledger/internal/domain/user"
	v1 "fxledger/internal/infrastructure/http/v1"
	"fxledger/pkg/logger"
)

var version = "dev"

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("starting fxledger server")

	// --- Registries ---
	// One shared sequence: ids are totally ordered across entity types and
	// never reused after deletion.
	seq := id.NewSequence()
	currencies := currency.NewRegistry(log)
	accounts := account.NewRegistry(seq, currencies, log)
	users := user.NewRegistry(seq, accounts, log)
	transfers := transfer.NewLedger(seq, accounts, currencies, log)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:     log,
		Version:    version,
		Currencies: currencies,
		Accounts:   accounts,
		Users:      users,
		Transfers:  transfers,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// --- Environment helpers ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
