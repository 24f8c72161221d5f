// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the taxonomy service.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"taxonomy/internal/cache"
	"taxonomy/internal/config"
	"taxonomy/internal/database"
	"taxonomy/internal/handlers"
	"taxonomy/internal/logger"
	"taxonomy/internal/middleware"
	"taxonomy/internal/router"
	"taxonomy/internal/taxonomy"
)

func main() {
	// Load configuration from the environment and optional .env file.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(os.Stdout, cfg.Env, cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("addr", cfg.Addr()).Str("driver", cfg.DBDriver).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed the default category in development (no-op if data exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to seed database")
		}
	}

	opts := taxonomy.Options{SlugRetries: cfg.SlugRetries}

	// The tree cache is optional: without Valkey every tree read hits the
	// database.
	if cfg.TreeCache {
		valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			log.Warn().Err(err).Msg("valkey unavailable, category tree cache disabled")
		} else {
			defer valkeyClient.Close()
			opts.TreeCache = cache.NewTreeCache(valkeyClient, cfg.TreeCacheTTL)
		}
	}

	eng := taxonomy.NewFromDB(db, opts)

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid RATE_LIMIT")
	}

	r := router.New(handlers.NewAPI(eng), handlers.NewPublic(eng), limiter)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
		return
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped gracefully")
}
