package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alim08/exchange/pkg/auth"
	"github.com/alim08/exchange/pkg/config"
	"github.com/alim08/exchange/pkg/exchange"
	"github.com/alim08/exchange/pkg/httpx"
	"github.com/alim08/exchange/pkg/logger"
	"github.com/alim08/exchange/pkg/rates"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables win
	envErr := godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Log.Sync()
	log := logger.Log

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn("failed to load .env file", zap.Error(envErr))
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	log.Info("starting exchange quote service",
		zap.String("environment", cfg.Environment),
		zap.String("auth_service_url", cfg.AuthServiceURL),
		zap.Duration("auth_timeout", cfg.AuthTimeout),
		zap.Duration("rate_timeout", cfg.RateTimeout))

	// One pooled client for both upstreams
	client := httpx.New(max(cfg.AuthTimeout, cfg.RateTimeout))
	verifier := auth.NewVerifier(cfg.AuthServiceURL, cfg.AuthTimeout, auth.WithHTTPClient(client))
	fetcher := rates.NewFetcher(cfg.RateServiceURLTemplate, cfg.APIKey, cfg.RateTimeout, rates.WithHTTPClient(client))
	srv := NewServer(exchange.NewService(verifier, fetcher), cfg.CORSOrigins)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           metricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers in goroutines
	go func() {
		log.Info("starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()
	go func() {
		log.Info("metrics server listening", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Error("metrics server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
