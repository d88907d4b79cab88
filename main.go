// Copyright 2025, the CruiseTracker contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Cruisetracker is a dashboard for the prices collected by the cruise price trackers.

It reads the tracker API named by CRUISETRACKER_UPSTREAM (or the baseUrl of
the YAML config) and serves the cruise listings, the price graph and a small
JSON API on top of it.
*/
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"codeberg.org/cruisetracker/cruisetracker/config"
	"codeberg.org/cruisetracker/cruisetracker/core/audit"
	"codeberg.org/cruisetracker/cruisetracker/core/requests"
	"codeberg.org/cruisetracker/cruisetracker/server/middleware/limiter"
	"codeberg.org/cruisetracker/cruisetracker/server/router"
)

// http.Server timeouts (gosec G112). Chart pages wait on up to one upstream
// fetch per line, so writes get more room than reads.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 45 * time.Second
	idleTimeout       = 60 * time.Second

	shutdownGrace = 5 * time.Second
)

//go:embed assets/css assets/js assets/robots.txt
var embeddedContent embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Cruisetracker failed")
	}
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context) error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := requests.Setup(); err != nil {
		return fmt.Errorf("failed to initialize response cache: %w", err)
	}

	static, err := fs.Sub(embeddedContent, "assets")
	if err != nil {
		return fmt.Errorf("failed to open embedded assets: %w", err)
	}

	mux := router.NewRouter(static)
	mux.DefineRoutes()
	mux.RegisterMiddleware()

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	listener, err := listen(ctx)
	if err != nil {
		return err
	}

	logStartup()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		log.Info().Msg("Shutting down server...")

		// ctx is already done here; the grace period needs a fresh one.
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(groupCtx), shutdownGrace)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		return nil
	})

	err = group.Wait()

	limiter.Fini()

	if err != nil {
		return err
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

func logStartup() {
	lines := make([]string, 0, len(config.Global.Upstream.Lines))
	for _, line := range config.Global.Upstream.Lines {
		lines = append(lines, line.ID)
	}

	log.Info().
		Str("version", config.BuildVersion).
		Str("upstream", config.Global.Upstream.BaseURL.String()).
		Strs("lines", lines).
		Bool("cache", config.Global.Cache.Enabled).
		Bool("limiter", config.Global.Limiter.Enabled).
		Int("pid", os.Getpid()).
		Msg("Cruisetracker started")
}
