package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/moonpull/moonpull-web/internal/api"
	"github.com/moonpull/moonpull-web/internal/config"
	"github.com/moonpull/moonpull-web/internal/factory"
	"github.com/moonpull/moonpull-web/internal/middleware"
	"github.com/moonpull/moonpull-web/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(factory.ConfigFrom(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close failed", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.SeedAdmin(ctx, cfg.Auth.AdminLoginID); err != nil {
		logger.Error("failed to seed admin", slog.String("error", err.Error()))
		os.Exit(1)
	}
	go app.SweepSessions(ctx, cfg.Auth.SweepInterval)

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		SecureCookies: cfg.Auth.SecureCookies,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		SecureCookies: cfg.Auth.SecureCookies,
		StaticDir:     findStaticDir(),
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	server := api.NewServer(middleware.RequestID(mux), cfg.Server, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	// Try common locations
	candidates := []string{
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	// Default to relative path
	return "internal/web/static"
}
