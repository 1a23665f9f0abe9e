/*
Package main is the entry point for the bingo server.

It loads configuration, initializes the global logger, opens the configured match archive,
starts the lobby Manager and the HTTP server, and shuts everything down gracefully on
SIGINT or SIGTERM.
*/
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

	"bingohub/internal/app/archive"
	"bingohub/internal/app/db"
	"bingohub/internal/app/lobby"
	"bingohub/internal/app/storage"
	"bingohub/internal/configs"
	"bingohub/internal/handler"
	"bingohub/internal/pkg/logx"
	"bingohub/internal/pkg/pow"
)

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("pow_difficulty", cfg.PowDifficulty).
		Int("max_teams", cfg.MaxTeams).
		Str("archive_backend", cfg.ArchiveBackend).
		Msg("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, closeArchive, err := openArchive(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to open match archive", "backend", cfg.ArchiveBackend)
	}
	defer closeArchive()

	manager := lobby.NewManager(cfg, sink)

	deps := &handler.AppDeps{
		Manager: manager,
		Config:  cfg,
		Pow:     pow.NewGuard(ctx, cfg.PowDifficulty),
	}

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler.Router(ctx, deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Bingo server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	manager.Shutdown()

	logx.Info("Server gracefully stopped.")
}

// openArchive builds the sink selected by ARCHIVE_BACKEND. The returned func releases its resources.
func openArchive(ctx context.Context, cfg *configs.AppConfig) (archive.Sink, func(), error) {
	switch cfg.ArchiveBackend {
	case configs.ArchivePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return archive.NewPostgresSink(pool), pool.Close, nil

	case configs.ArchiveS3:
		store, err := storage.NewObjectStore(ctx, storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3Region:          cfg.S3Region,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return archive.NewS3Sink(store), func() {}, nil

	default:
		return archive.NopSink{}, func() {}, nil
	}
}
