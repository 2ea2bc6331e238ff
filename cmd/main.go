/*
Package main is the entry point for the relay server.

It loads configuration, initializes logging, opens the message store and blob storage,
starts the HTTP server with the WebSocket hub, and shuts down gracefully on SIGINT or
SIGTERM, closing every live connection.
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

	"relaychat/internal/app/chat"
	"relaychat/internal/app/db"
	"relaychat/internal/app/storage"
	"relaychat/internal/app/store"
	"relaychat/internal/app/translate"
	"relaychat/internal/configs"
	"relaychat/internal/handler"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/pow"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(logx.Options{Development: cfg.IsDevelopment()})
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("pow_difficulty", cfg.PowDifficulty).
		Dur("heartbeat_interval", cfg.HeartbeatInterval).
		Dur("heartbeat_timeout", cfg.HeartbeatTimeout).
		Bool("s3", cfg.UsesS3()).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messages, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to open message store")
	}
	defer closeStore()

	blobs, err := openBlobs(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to open blob storage")
	}

	hub := chat.NewHub(chat.HubConfig{
		HeartbeatInterval: cfg.HeartbeatInterval,
		HeartbeatTimeout:  cfg.HeartbeatTimeout,
	}, messages, blobs)

	router := handler.Router(&handler.AppDeps{
		Hub:        hub,
		Config:     cfg,
		Store:      messages,
		Blobs:      blobs,
		Verifier:   jwt.Verifier{Secret: cfg.JWTSecret},
		Pow:        pow.NewGuard(cfg.PowDifficulty),
		Translator: translate.NewClient(cfg.TranslateURL),
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Relay server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	// Hijacked WebSocket connections are not tracked by the server; the hub closes them.
	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}
	if err := hub.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Hub did not drain before the deadline")
	}

	logx.Info("Server gracefully stopped.")
}

// openStore returns the Postgres store, or the in-process one when DATABASE_URL is "memory".
func openStore(ctx context.Context, cfg *configs.AppConfig) (store.Store, func(), error) {
	if cfg.DatabaseDSN == configs.MemoryDatabaseDSN {
		logx.Warn("Using in-memory store; data is lost on restart")
		return store.NewMemory(), func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgres(pool), pool.Close, nil
}

func openBlobs(ctx context.Context, cfg *configs.AppConfig) (storage.BlobStore, error) {
	if cfg.UsesS3() {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			BucketName:      cfg.S3BucketName,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, err
		}
		return s3Store, nil
	}

	disk, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	return disk, nil
}
