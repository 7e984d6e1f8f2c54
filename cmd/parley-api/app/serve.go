package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parleychat/parley-server/internal/api"
	"github.com/parleychat/parley-server/internal/auth"
	"github.com/parleychat/parley-server/internal/config"
	"github.com/parleychat/parley-server/internal/service"
	dbservice "github.com/parleychat/parley-server/internal/service/db"
	"github.com/parleychat/parley-server/internal/service/inmemory"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat-server API",
	Long: `Start the chat-server API to serve the server listing endpoints.

The server requires a configuration file (--config) that specifies:
- Bearer token authentication settings
- The PostgreSQL backend (omit for an empty in-memory store)
- Upload storage settings

See examples/ directory for sample configurations.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second // Kubernetes-friendly shutdown time
	serverRequestTimeout   = 10 * time.Second // Listing endpoints should respond quickly
	serverReadTimeout      = 10 * time.Second // Enough for headers and small uploads
	serverWriteTimeout     = 15 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout      = 60 * time.Second // Keep connections alive for reuse
)

func init() {
	serveCmd.Flags().String("address", ":8080", "Address to listen on")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		slog.Error("Failed to bind config flag", "error", err)
		os.Exit(1)
	}

	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		slog.Error("Failed to mark config flag as required", "error", err)
		os.Exit(1)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	address := viper.GetString("address")

	slog.Info("Starting chat-server API", "address", address)

	configPath := viper.GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Info("Loaded configuration", "path", configPath)

	secret, err := cfg.Auth.GetSecret()
	if err != nil {
		return fmt.Errorf("failed to resolve signing secret: %w", err)
	}

	var authOpts []auth.Option
	if cfg.Auth.Issuer != "" {
		authOpts = append(authOpts, auth.WithIssuer(cfg.Auth.Issuer))
	}
	if cfg.Auth.Realm != "" {
		authOpts = append(authOpts, auth.WithRealm(cfg.Auth.Realm))
	}
	authMw, err := auth.NewMiddleware(secret, authOpts...)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	svc, cleanup, err := createService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	router := api.NewServer(svc,
		api.WithDataDir(cfg.Storage.GetDataDir()),
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(serverRequestTimeout),
			api.LoggingMiddleware,
			authMw.Handler,
		),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	go func() {
		slog.Info("Server listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}

	slog.Info("Server shutdown complete")
	return nil
}

// createService builds the server service from configuration: a PostgreSQL
// backend when one is configured, otherwise an empty in-memory store.
func createService(ctx context.Context, cfg *config.Config) (service.ServerService, func(), error) {
	if cfg.Database == nil {
		slog.Warn("No database configured, serving from an empty in-memory store")
		return inmemory.New(nil, nil), func() {}, nil
	}

	connString, err := cfg.Database.GetConnectionString()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	svc, err := dbservice.New(dbservice.WithConnectionPool(pool))
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create database service: %w", err)
	}

	slog.Info("Connected to database",
		"host", cfg.Database.Host,
		"database", cfg.Database.Database)

	return svc, pool.Close, nil
}
