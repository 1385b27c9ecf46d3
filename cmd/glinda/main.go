// Command glinda runs the Glinda API server: the public marketplace API,
// the sitemap endpoint, and the admin panel backend.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"glinda/internal/cache"
	"glinda/internal/config"
	"glinda/internal/database"
	"glinda/internal/handlers"
	"glinda/internal/router"
	"glinda/internal/session"
	"glinda/internal/sitemap"
	"glinda/internal/storage"
	"glinda/internal/store"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("database seed failed", "error", err)
			os.Exit(1)
		}
	}

	valkey, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("valkey connection failed", "error", err)
		os.Exit(1)
	}
	defer valkey.Close()

	st, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	if st == nil {
		slog.Warn("object storage not configured, sitemap publishing disabled")
	}

	contentStore := store.NewContentStore(db)
	categoryStore := store.NewCategoryStore(db)
	userStore := store.NewUserStore(db)
	publishLog := store.NewPublishLogStore(db)

	sessions := session.NewStore(valkey, !cfg.IsDev())
	docs := cache.NewDocCache(valkey, cache.DefaultDocTTL)
	builder := sitemap.NewBuilder(contentStore, categoryStore)

	loginLimiter := router.DefaultLoginLimiter()
	defer loginLimiter.Stop()

	mux := router.New(router.Deps{
		Public:       handlers.NewPublic(contentStore, categoryStore, builder, docs, cfg.SiteURL),
		Auth:         handlers.NewAuth(userStore, sessions),
		Admin:        handlers.NewAdmin(contentStore, categoryStore, docs),
		AdminSitemap: handlers.NewAdminSitemap(builder, docs, st, publishLog, cfg.SiteURL),
		Sessions:     sessions,
		LoginLimiter: loginLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

// setupLogging configures slog: pretty text in development, JSON in
// production for log aggregation.
func setupLogging(cfg *config.Config) {
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}
