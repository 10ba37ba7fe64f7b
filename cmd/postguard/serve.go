package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	logpkg "github.com/techlog/postguard/internal/logger"
	"github.com/techlog/postguard/internal/metrics"
	chiTransport "github.com/techlog/postguard/internal/transport/chi"
	duplicateuc "github.com/techlog/postguard/internal/usecase/duplicate"
	healthuc "github.com/techlog/postguard/internal/usecase/health"
	publishuc "github.com/techlog/postguard/internal/usecase/publish"
	"github.com/techlog/postguard/internal/version"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.HTTP.Port = port
			}

			logger, err := logpkg.NewLogger(g.env, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			logger.Info("Starting postguard API server",
				zap.String("version", version.Version),
				zap.String("commit", version.Commit),
				zap.String("env", g.env),
				zap.Int("http_port", cfg.HTTP.Port),
				zap.String("index_driver", cfg.Index.Driver),
				zap.Bool("events", cfg.Events.Enabled()),
			)

			ctx := cmd.Context()
			store, closeStore, err := openIndex(ctx, &cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			recorder, err := metrics.NewChecker(prometheus.DefaultRegisterer)
			if err != nil {
				return fmt.Errorf("registering metrics: %w", err)
			}

			checker := duplicateuc.New(store).WithRecorder(recorder)
			publisher := publishuc.New(store).WithRecorder(recorder)
			var health *healthuc.Service

			events, err := openEvents(&cfg, logger)
			if err != nil {
				return err
			}
			if events != nil {
				defer func() {
					if err := events.Close(); err != nil {
						logger.Warn("Failed to close event publisher", zap.Error(err))
					}
				}()
				publisher = publisher.WithNotifier(events)
				health = healthuc.New(store, events)
			} else {
				health = healthuc.New(store, nil)
			}

			server := chiTransport.NewServer(checker, publisher, health, logger)
			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
				Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys),
				ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
				WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
			}

			return serveUntilDone(ctx, srv, time.Duration(cfg.HTTP.ShutdownSec)*time.Second, logger)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides config)")
	return cmd
}

// serveUntilDone runs srv until ctx is cancelled, then shuts it down gracefully.
func serveUntilDone(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck // already wrapped by the failing goroutine
	}
	logger.Info("Server stopped gracefully")
	return nil
}
