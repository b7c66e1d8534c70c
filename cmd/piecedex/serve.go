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

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/piecedex/internal/config"
	"github.com/kailas-cloud/piecedex/internal/metrics"
	collectionrepo "github.com/kailas-cloud/piecedex/internal/repository/collection"
	documentrepo "github.com/kailas-cloud/piecedex/internal/repository/document"
	searchrepo "github.com/kailas-cloud/piecedex/internal/repository/search"
	textpiecerepo "github.com/kailas-cloud/piecedex/internal/repository/textpiece"
	chiTransport "github.com/kailas-cloud/piecedex/internal/transport/chi"
	documentuc "github.com/kailas-cloud/piecedex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/piecedex/internal/usecase/health"
	indexationuc "github.com/kailas-cloud/piecedex/internal/usecase/indexation"
	searchuc "github.com/kailas-cloud/piecedex/internal/usecase/search"
	textpieceuc "github.com/kailas-cloud/piecedex/internal/usecase/textpiece"
	"github.com/kailas-cloud/piecedex/internal/version"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger

	logger.Info("Starting piecedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("engine_driver", cfg.Engine.Driver),
		zap.Strings("engine_addrs", cfg.Engine.Addrs),
	)

	store, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Schema migrated")
	}

	engine, err := openEngine(cfg.Engine)
	if err != nil {
		return err
	}
	defer engine.Close()

	if err := engine.WaitForReady(ctx, time.Duration(cfg.Engine.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("search engine not ready: %w", err)
	}
	logger.Info("Connected to search engine")

	// Registered explicitly (no init()).
	metrics.RegisterIndexationMetrics()

	collRepo := collectionrepo.New(engine, cfg.Engine.IndexPrefix)
	docRepo := documentrepo.New(store)
	pieceRepo := textpiecerepo.New(store)
	searchRepo := searchrepo.New(engine, cfg.Engine.IndexPrefix)

	server := chiTransport.NewServer(
		documentuc.New(docRepo, collRepo),
		textpieceuc.New(pieceRepo),
		indexationuc.New(collRepo, pieceRepo, docRepo),
		searchuc.New(searchRepo),
		healthuc.New(store, engine),
		logger,
		chiTransport.WithMaxFilters(cfg.Search.MaxFilters),
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(corsOptions(cfg.CORS)))
	}
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-sigCtx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

func corsOptions(cfg config.CORSConfig) cors.Options {
	return cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         cfg.MaxAgeSec,
	}
}
