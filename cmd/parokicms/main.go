// Copyright (c) 2026 Komsos Paroki Digital Team
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the ParokiCMS server. It loads
// configuration, connects to Valkey and the GitHub content repository,
// wires the stores and handlers, and runs the HTTP server with graceful
// shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parokicms/internal/auth"
	"parokicms/internal/cache"
	"parokicms/internal/config"
	"parokicms/internal/github"
	"parokicms/internal/gitstore"
	"parokicms/internal/handlers"
	"parokicms/internal/router"
	"parokicms/internal/session"
	"parokicms/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"content_repo", cfg.Owner+"/"+cfg.Repo,
		"branch", cfg.Branch,
	)

	// GitHub client for the content repository. Exactly one auth mode is
	// configured; config.Load already validated that.
	client, err := github.NewClient(github.Config{
		Token:          cfg.Token,
		AppID:          cfg.AppID,
		InstallationID: cfg.InstallationID,
		PrivateKey:     cfg.PrivateKey,
	})
	if err != nil {
		slog.Error("failed to create github client", "error", err)
		os.Exit(1)
	}
	repo := gitstore.New(client, cfg.Owner, cfg.Repo, cfg.Branch)

	// Valkey backs sessions, the page cache, and the login limiter.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessions := session.NewStore(valkeyClient, secureCookies)
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	// Stores commit through the repo and invalidate the page cache.
	posts := store.NewPostStore(repo, pageCache)
	categories := store.NewCategoryStore(repo, pageCache)
	directory := store.NewDirectoryStore(repo, pageCache)
	events := store.NewEventStore(repo, pageCache)
	statistics := store.NewStatisticsStore(repo, pageCache)
	media := store.NewMediaStore(repo, pageCache)

	authService := auth.NewService(cfg.Admins)
	loginLimiter := auth.NewLoginLimiter(valkeyClient)

	if len(cfg.Admins) == 0 {
		slog.Warn("no admin accounts configured, the admin API is unreachable")
	}

	r := router.New(sessions, secureCookies, router.Handlers{
		Public:  handlers.NewPublic(posts, categories, directory, events, statistics, media, pageCache),
		Admin:   handlers.NewAdmin(posts, categories, directory, events, statistics, repo, pageCache),
		Auth:    handlers.NewAuth(authService, loginLimiter, sessions),
		Media:   handlers.NewMedia(media),
		Contact: handlers.NewContact(client, cfg.Owner, cfg.Repo),
	})

	// Every write is a round-trip of several GitHub API calls, so the
	// write timeout is generous.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
