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

	"github.com/hireloop/interview-engine/internal/api"
	"github.com/hireloop/interview-engine/internal/cleanup"
	"github.com/hireloop/interview-engine/internal/config"
	"github.com/hireloop/interview-engine/internal/evaluation"
	"github.com/hireloop/interview-engine/internal/interview"
	"github.com/hireloop/interview-engine/internal/realtime"
	"github.com/hireloop/interview-engine/internal/rounds"
	"github.com/hireloop/interview-engine/internal/storage"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting interview-engine",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"storage_backend", cfg.Storage.Backend,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Initialize the durable snapshot backend
	var repo storage.Repository
	switch cfg.Storage.Backend {
	case "postgres":
		slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
		if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		pg, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
			DSN:          cfg.Database.DSN,
			MaxOpenConns: int32(cfg.Database.MaxOpenConns),
			MaxIdleConns: int32(cfg.Database.MaxIdleConns),
		})
		if err != nil {
			slog.Error("failed to create database repository", "error", err)
			os.Exit(1)
		}
		repo = pg
		slog.Info("database connected successfully")
	case "redis":
		rd, err := storage.NewRedisRepository(initCtx, storage.RedisConfig{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			Retention: cfg.Sessions.RetentionWindow,
		})
		if err != nil {
			slog.Error("failed to create redis repository", "error", err)
			os.Exit(1)
		}
		repo = rd
		slog.Info("redis connected successfully")
	case "none":
		slog.Warn("no durable storage configured, sessions are memory-only")
	}

	// Load round templates
	registry, err := rounds.NewRegistry()
	if err != nil {
		slog.Error("failed to load round templates", "error", err)
		os.Exit(1)
	}
	slog.Info("round templates loaded", "kinds", len(registry.Kinds()))

	// Realtime and evaluation collaborators
	opener := realtime.NewOpenAIClient(realtime.OpenAIConfig{
		APIKey:             cfg.OpenAI.APIKey,
		Model:              cfg.OpenAI.RealtimeModel,
		TranscriptionModel: cfg.OpenAI.TranscriptionModel,
		BaseURL:            cfg.OpenAI.BaseURL,
	})
	scorer := evaluation.NewOpenAIScorer(evaluation.OpenAIScorerConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.EvaluationModel,
		BaseURL: cfg.OpenAI.BaseURL,
	})

	// Session store and lifecycle manager
	store := interview.NewStore()
	manager := interview.NewManager(registry, store, opener, scorer, repo, cfg.Sessions.GraceWindow)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start expiry/eviction sweeper
	sweeper := cleanup.NewSweeper(manager, cfg.Sessions.SweepInterval, cfg.Sessions.RetentionWindow)
	sweeper.Start(ctx)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, manager)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Cancel context to stop background workers
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if repo != nil {
		if err := repo.Close(); err != nil {
			slog.Error("storage close error", "error", err)
		}
	}

	slog.Info("interview-engine stopped")
}
