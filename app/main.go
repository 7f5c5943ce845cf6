package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ostrends/trends/app/api"
	"github.com/ostrends/trends/app/cache"
	"github.com/ostrends/trends/app/cfg"
	"github.com/ostrends/trends/app/github"
	"github.com/ostrends/trends/app/projects"
	"github.com/ostrends/trends/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Open Source Trends server", "version", cfg.GetVersion())

	store, err := cache.NewSQLiteStore(appCfg.CachePath)
	if err != nil {
		slog.Error("Failed to open cache store", "path", appCfg.CachePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Cache store ready", "path", appCfg.CachePath)

	categories := projects.DefaultCategories()
	if appCfg.CategoriesFile != "" {
		categories, err = projects.LoadCategories(appCfg.CategoriesFile)
		if err != nil {
			slog.Error("Failed to load categories file", "path", appCfg.CategoriesFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Loaded category table", "path", appCfg.CategoriesFile, "categories", len(categories))
	}

	client := github.NewClient(appCfg.GithubAPIURL, appCfg.GithubToken, appCfg.UserAgent)
	aggregator := projects.NewAggregator(client, store, appCfg.MinStars)
	pipeline := projects.NewPipeline(aggregator, store, categories)

	// Pick up whatever an earlier run committed so the API can serve
	// immediately, even before the first refresh completes.
	pipeline.Restore()
	if date := pipeline.LastRefreshDate(); date != "" {
		slog.Info("Restored committed projects", "count", len(pipeline.Projects()), "last_updated", date)
	}

	scheduler := tasks.NewScheduler(pipeline)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)

	apiHandler := api.NewHandler(pipeline, categories)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
